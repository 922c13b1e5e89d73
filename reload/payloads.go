package reload

import (
	"net/url"
	"strconv"
)

// PreviewChargeRequest asks Reload what a charge would cost the user.
type PreviewChargeRequest struct {
	AIAgentID      string  `json:"aiAgentId"`
	Amount         float64 `json:"amount"`
	Description    string  `json:"description"`
	IdempotencyKey string  `json:"idempotencyKey,omitempty"`
}

// UsageReport records agent usage and optionally charges the user for it.
type UsageReport struct {
	AIAgentID               string   `json:"aiAgentId"`
	UsageType               string   `json:"usageType"`
	Description             string   `json:"description"`
	ShortDescription        string   `json:"shortDescription"`
	TotalCost               float64  `json:"totalCost"`
	CostBeforeTax           *float64 `json:"costBeforeTax,omitempty"`
	TaxRate                 *float64 `json:"taxRate,omitempty"`
	TaxAmount               *float64 `json:"taxAmount,omitempty"`
	LLMModel                string   `json:"llmModel,omitempty"`
	LLMProvider             string   `json:"llmProvider,omitempty"`
	InputTokens             *int     `json:"inputTokens,omitempty"`
	OutputTokens            *int     `json:"outputTokens,omitempty"`
	ChargeUser              *bool    `json:"chargeUser,omitempty"`
	IdempotencyKey          string   `json:"idempotencyKey,omitempty"`
	InternalTokensOrCredits *float64 `json:"internalTokensOrCredits,omitempty"`
}

// TokenRequest is the body of the revoke and introspect operations
type TokenRequest struct {
	Token string `json:"token"`
}

// UsageReportsQuery filters the usage report listing. Zero values are omitted.
type UsageReportsQuery struct {
	Page            int
	Limit           int
	UserID          string
	UserEmail       string
	StartDate       string
	EndDate         string
	HasCharges      *bool
	MinAmount       *float64
	MaxAmount       *float64
	Status          string
	AIAgentID       string
	TransactionType string
	IdempotencyKey  string
	UsageType       string
	SortBy          string
	SortOrder       string
}

func (q UsageReportsQuery) Values() url.Values {
	v := url.Values{}
	setInt := func(key string, n int) {
		if n > 0 {
			v.Set(key, strconv.Itoa(n))
		}
	}
	setString := func(key, s string) {
		if s != "" {
			v.Set(key, s)
		}
	}
	setFloat := func(key string, f *float64) {
		if f != nil {
			v.Set(key, strconv.FormatFloat(*f, 'f', -1, 64))
		}
	}

	setInt("page", q.Page)
	setInt("limit", q.Limit)
	setString("userId", q.UserID)
	setString("userEmail", q.UserEmail)
	setString("startDate", q.StartDate)
	setString("endDate", q.EndDate)
	if q.HasCharges != nil {
		v.Set("hasCharges", strconv.FormatBool(*q.HasCharges))
	}
	setFloat("minAmount", q.MinAmount)
	setFloat("maxAmount", q.MaxAmount)
	setString("status", q.Status)
	setString("aiAgentId", q.AIAgentID)
	setString("transactionType", q.TransactionType)
	setString("idempotencyKey", q.IdempotencyKey)
	setString("usageType", q.UsageType)
	setString("sortBy", q.SortBy)
	setString("sortOrder", q.SortOrder)
	return v
}
