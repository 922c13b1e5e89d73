package reload_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/jrsteele09/reload-agent-demo/reload"
	"github.com/stretchr/testify/require"
)

func TestSelectionScopes(t *testing.T) {
	t.Run("canonical order", func(t *testing.T) {
		s := reload.Selection{reload.PermissionUsageReporting: true, reload.PermissionIdentity: true}
		require.Equal(t, []string{"identity", "usage_reporting"}, s.Scopes())
	})

	t.Run("unticked and unknown ignored", func(t *testing.T) {
		s := reload.Selection{reload.PermissionPayment: false, reload.Permission("admin"): true}
		require.Empty(t, s.Scopes())
		require.True(t, s.IsEmpty())
	})

	t.Run("from names", func(t *testing.T) {
		s := reload.SelectionFrom("payment", "identity usage_reporting", "bogus")
		require.Equal(t, []string{"identity", "usage_reporting", "payment"}, s.Scopes())
	})

	t.Run("default selects everything", func(t *testing.T) {
		require.Len(t, reload.DefaultSelection().Scopes(), len(reload.AllPermissions))
	})
}

func TestPermissionsUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want reload.Permissions
	}{
		{name: "array", in: `["identity","payment"]`, want: reload.Permissions{"identity", "payment"}},
		{name: "string", in: `"identity usage_reporting"`, want: reload.Permissions{"identity", "usage_reporting"}},
		{name: "comma string", in: `"identity,payment"`, want: reload.Permissions{"identity", "payment"}},
		{name: "object", in: `{"payment":true,"identity":true,"usage_reporting":false}`, want: reload.Permissions{"identity", "payment"}},
		{name: "null", in: `null`, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got struct {
				Permissions reload.Permissions `json:"permissions"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"permissions":`+tt.in+`}`), &got))
			require.Equal(t, tt.want, got.Permissions)
		})
	}

	t.Run("number rejected", func(t *testing.T) {
		var p reload.Permissions
		require.Error(t, json.Unmarshal([]byte(`42`), &p))
	})

	t.Run("has", func(t *testing.T) {
		p := reload.Permissions{reload.PermissionIdentity}
		require.True(t, p.Has(reload.PermissionIdentity))
		require.False(t, p.Has(reload.PermissionPayment))
	})
}

func TestResolveOperation(t *testing.T) {
	tests := []struct {
		path string
		want reload.Operation
		ok   bool
	}{
		{path: "/user", want: reload.OpUser, ok: true},
		{path: "user", want: reload.OpUser, ok: true},
		{path: "/usage/", want: reload.OpReportUsage, ok: true},
		{path: "/preview-charge", want: reload.OpPreviewCharge, ok: true},
		{path: "/usage-reports", want: reload.OpUsageReports, ok: true},
		{path: "/usage-reports/abc123", want: reload.OpUsageReportByID, ok: true},
		{path: "/usage-reports/abc/def", want: reload.OpUnknown, ok: false},
		{path: "/revoke-token", want: reload.OpRevokeToken, ok: true},
		{path: "/introspect-token", want: reload.OpIntrospectToken, ok: true},
		{path: "/admin", want: reload.OpUnknown, ok: false},
		{path: "", want: reload.OpUnknown, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			op, ok := reload.ResolveOperation(tt.path)
			require.Equal(t, tt.ok, ok)
			require.Equal(t, tt.want, op)
		})
	}
}

func TestOperationAuthModes(t *testing.T) {
	for _, op := range reload.Operations() {
		switch op {
		case reload.OpRevokeToken, reload.OpIntrospectToken:
			require.Equal(t, reload.BasicOnly, op.AuthMode(), op.String())
			require.False(t, op.RequiresToken())
		default:
			require.Equal(t, reload.BasicPlusToken, op.AuthMode(), op.String())
			require.True(t, op.RequiresToken())
		}
	}

	require.Equal(t, "/usage-reports/a%2Fb", reload.OpUsageReportByID.Path("a/b"))
	require.Equal(t, http.MethodPost, reload.OpReportUsage.Method())
	require.Contains(t, reload.EndpointPaths(), "/usage-reports/{id}")
}

func TestResult(t *testing.T) {
	t.Run("success passes data through", func(t *testing.T) {
		r := reload.Success(http.StatusOK, []byte(`{"data":{"id":"u1"}}`))
		require.True(t, r.OK)
		require.JSONEq(t, `{"data":{"id":"u1"}}`, string(r.Body()))
	})

	t.Run("empty success body", func(t *testing.T) {
		r := reload.Success(http.StatusNoContent, nil)
		require.JSONEq(t, `{}`, string(r.Body()))
	})

	t.Run("failure shape", func(t *testing.T) {
		kind := errors.New("upstream")
		r := reload.Failure(kind, http.StatusPaymentRequired, "insufficient balance")
		require.False(t, r.OK)
		require.ErrorIs(t, r.Kind, kind)
		require.JSONEq(t, `{"error":"insufficient balance","status":402}`, string(r.Body()))
	})
}

func TestUsageReportsQueryValues(t *testing.T) {
	charges := true
	minAmount := 1.5
	v := reload.UsageReportsQuery{Page: 2, Limit: 10, HasCharges: &charges, MinAmount: &minAmount, SortOrder: "desc"}.Values()

	require.Equal(t, "2", v.Get("page"))
	require.Equal(t, "10", v.Get("limit"))
	require.Equal(t, "true", v.Get("hasCharges"))
	require.Equal(t, "1.5", v.Get("minAmount"))
	require.Equal(t, "desc", v.Get("sortOrder"))
	require.False(t, v.Has("userId"))
}
