package reload

import (
	"encoding/json"
	"net/http"
)

// Result is what every proxy path produces: either the upstream success body
// or a normalized error. Kind is never serialized; it lets callers match the
// failure class with errors.Is.
type Result struct {
	OK     bool
	Status int
	Data   json.RawMessage
	Error  string
	Kind   error
}

// Success wraps an upstream success body. An empty body becomes {}.
func Success(status int, data []byte) Result {
	if len(data) == 0 {
		data = []byte("{}")
	}
	if status == 0 {
		status = http.StatusOK
	}
	return Result{OK: true, Status: status, Data: json.RawMessage(data)}
}

func Failure(kind error, status int, message string) Result {
	return Result{OK: false, Status: status, Error: message, Kind: kind}
}

type errorBody struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"`
}

// Body is the JSON written back to the caller.
func (r Result) Body() []byte {
	if r.OK {
		if len(r.Data) == 0 {
			return []byte("{}")
		}
		return r.Data
	}
	b, _ := json.Marshal(errorBody{Error: r.Error, Status: r.Status})
	return b
}

// Decode unmarshals a successful result's data into v.
func (r Result) Decode(v any) error {
	if !r.OK {
		return nil
	}
	return json.Unmarshal(r.Body(), v)
}
