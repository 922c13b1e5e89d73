package reload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Permission is an OAuth scope recognised by Reload
type Permission string

const (
	PermissionIdentity       Permission = "identity"
	PermissionUsageReporting Permission = "usage_reporting"
	PermissionPayment        Permission = "payment"
)

// AllPermissions lists the recognised scopes in canonical scope order
var AllPermissions = []Permission{PermissionIdentity, PermissionUsageReporting, PermissionPayment}

func ParsePermission(s string) (Permission, bool) {
	for _, p := range AllPermissions {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

func (p Permission) rank() int {
	for i, known := range AllPermissions {
		if known == p {
			return i
		}
	}
	return len(AllPermissions)
}

// Selection is the set of permissions a user ticked before connecting.
type Selection map[Permission]bool

// DefaultSelection selects every permission
func DefaultSelection() Selection {
	s := Selection{}
	for _, p := range AllPermissions {
		s[p] = true
	}
	return s
}

// SelectionFrom selects the named permissions, ignoring unknown names.
func SelectionFrom(names ...string) Selection {
	s := Selection{}
	for _, name := range names {
		for _, part := range strings.Fields(name) {
			if p, ok := ParsePermission(part); ok {
				s[p] = true
			}
		}
	}
	return s
}

// Scopes returns the selected, recognised permissions in canonical order.
func (s Selection) Scopes() []string {
	scopes := make([]string, 0, len(AllPermissions))
	for _, p := range AllPermissions {
		if s[p] {
			scopes = append(scopes, string(p))
		}
	}
	return scopes
}

func (s Selection) IsEmpty() bool {
	return len(s.Scopes()) == 0
}

// Permissions is the set of scopes granted to a token. Reload has been seen to
// send these as an array, a space separated string or an object of booleans,
// so all three decode.
type Permissions []Permission

func (p Permissions) Has(permission Permission) bool {
	for _, granted := range p {
		if granted == permission {
			return true
		}
	}
	return false
}

func (p Permissions) Strings() []string {
	out := make([]string, len(p))
	for i, permission := range p {
		out[i] = string(permission)
	}
	return out
}

func (p *Permissions) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*p = nil
		return nil
	}

	switch b[0] {
	case '[':
		var names []string
		if err := json.Unmarshal(b, &names); err != nil {
			return fmt.Errorf("[Permissions UnmarshalJSON] %w", err)
		}
		*p = toPermissions(names)
	case '"':
		var joined string
		if err := json.Unmarshal(b, &joined); err != nil {
			return fmt.Errorf("[Permissions UnmarshalJSON] %w", err)
		}
		*p = toPermissions(strings.FieldsFunc(joined, func(r rune) bool { return r == ' ' || r == ',' }))
	case '{':
		var flags map[string]bool
		if err := json.Unmarshal(b, &flags); err != nil {
			return fmt.Errorf("[Permissions UnmarshalJSON] %w", err)
		}
		var names []string
		for name, granted := range flags {
			if granted {
				names = append(names, name)
			}
		}
		perms := toPermissions(names)
		sort.SliceStable(perms, func(i, j int) bool {
			if perms[i].rank() != perms[j].rank() {
				return perms[i].rank() < perms[j].rank()
			}
			return perms[i] < perms[j]
		})
		*p = perms
	default:
		return fmt.Errorf("[Permissions UnmarshalJSON] unsupported permissions value %s", string(b))
	}
	return nil
}

func toPermissions(names []string) Permissions {
	perms := make(Permissions, 0, len(names))
	for _, name := range names {
		if name = strings.TrimSpace(name); name != "" {
			perms = append(perms, Permission(name))
		}
	}
	return perms
}
