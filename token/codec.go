// Package token seals small key/value maps into signed, expiring JWTs so they
// can be handed to a browser and trusted when they come back.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const valuesClaim = "vals"

var ErrInvalidToken = errors.New("invalid token")

// Codec encodes values into signed tokens and decodes them again.
type Codec struct {
	signer Signer
	issuer string
	now    func() time.Time
}

func NewCodec(signer Signer, issuer string) *Codec {
	return &Codec{signer: signer, issuer: issuer, now: time.Now}
}

// WithClock returns a copy of the codec using now for iat/exp handling
func (c *Codec) WithClock(now func() time.Time) *Codec {
	cp := *c
	cp.now = now
	return &cp
}

// Encode signs values with an expiry of ttl from now.
func (c *Codec) Encode(values map[string]string, ttl time.Duration) (string, error) {
	now := c.now()
	claims := jwt.MapClaims{
		"iss":       c.issuer,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
		"jti":       uuid.NewString(),
		valuesClaim: values,
	}
	return c.signer.Sign(claims)
}

// Decode verifies the signature, issuer and expiry and returns the values.
func (c *Codec) Decode(raw string) (map[string]string, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{c.signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	parsed, err := parser.ParseWithClaims(raw, jwt.MapClaims{}, c.signer.GetVerificationKey)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: error extracting claims", ErrInvalidToken)
	}

	values := map[string]string{}
	rawValues, _ := claims[valuesClaim].(map[string]any)
	for k, v := range rawValues {
		if s, ok := v.(string); ok {
			values[k] = s
		}
	}
	return values, nil
}
