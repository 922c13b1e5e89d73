// Package reload holds the vocabulary of the Reload AI-agent API: the scopes a
// user can grant, the closed set of operations the proxy forwards, and the
// uniform result every proxy path produces.
package reload

import (
	"net/http"
	"net/url"
	"strings"
)

// AuthMode is how an operation authenticates against the resource server.
type AuthMode int

const (
	// BasicPlusToken needs the client Basic credentials and the user's OAuth token
	BasicPlusToken AuthMode = iota
	// BasicOnly authenticates with client credentials alone (token management)
	BasicOnly
)

func (m AuthMode) String() string {
	if m == BasicOnly {
		return "basic_only"
	}
	return "basic_plus_token"
}

// Operation is one of the downstream endpoints the proxy supports. Adding an
// endpoint means adding a constant and its row in operations.
type Operation int

const (
	OpUnknown Operation = iota
	OpUser
	OpPreviewCharge
	OpReportUsage
	OpUsageReports
	OpUsageReportByID
	OpRevokeToken
	OpIntrospectToken
)

type operationSpec struct {
	name   string
	path   string
	method string
	auth   AuthMode
}

var operations = map[Operation]operationSpec{
	OpUser:            {name: "user", path: "/user", method: http.MethodGet, auth: BasicPlusToken},
	OpPreviewCharge:   {name: "preview_charge", path: "/preview-charge", method: http.MethodPost, auth: BasicPlusToken},
	OpReportUsage:     {name: "report_usage", path: "/usage", method: http.MethodPost, auth: BasicPlusToken},
	OpUsageReports:    {name: "usage_reports", path: "/usage-reports", method: http.MethodGet, auth: BasicPlusToken},
	OpUsageReportByID: {name: "usage_report_by_id", path: "/usage-reports/", method: http.MethodGet, auth: BasicPlusToken},
	OpRevokeToken:     {name: "revoke_token", path: "/revoke-token", method: http.MethodPost, auth: BasicOnly},
	OpIntrospectToken: {name: "introspect_token", path: "/introspect-token", method: http.MethodPost, auth: BasicOnly},
}

// Operations lists every supported operation in a stable order
func Operations() []Operation {
	return []Operation{OpUser, OpPreviewCharge, OpReportUsage, OpUsageReports, OpUsageReportByID, OpRevokeToken, OpIntrospectToken}
}

func (o Operation) String() string {
	if spec, ok := operations[o]; ok {
		return spec.name
	}
	return "unknown"
}

// Method is the HTTP method the operation is normally called with
func (o Operation) Method() string {
	return operations[o].method
}

func (o Operation) AuthMode() AuthMode {
	return operations[o].auth
}

func (o Operation) RequiresToken() bool {
	return o.AuthMode() == BasicPlusToken
}

// Path returns the endpoint path. id is only used by OpUsageReportByID.
func (o Operation) Path(id string) string {
	spec, ok := operations[o]
	if !ok {
		return ""
	}
	if o == OpUsageReportByID {
		return spec.path + url.PathEscape(id)
	}
	return spec.path
}

// ResolveOperation maps an endpoint path (no query) onto a supported operation.
func ResolveOperation(path string) (Operation, bool) {
	if path == "" {
		return OpUnknown, false
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	for op, spec := range operations {
		if op != OpUsageReportByID && spec.path == path {
			return op, true
		}
	}

	byID := operations[OpUsageReportByID].path
	if id, found := strings.CutPrefix(path, byID); found && id != "" && !strings.Contains(id, "/") {
		return OpUsageReportByID, true
	}
	return OpUnknown, false
}

// EndpointPaths lists the fixed paths, used in "endpoint not implemented" replies
func EndpointPaths() []string {
	paths := make([]string, 0, len(operations))
	for _, op := range Operations() {
		if op == OpUsageReportByID {
			paths = append(paths, operations[op].path+"{id}")
			continue
		}
		paths = append(paths, operations[op].path)
	}
	return paths
}
