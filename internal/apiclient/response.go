package apiclient

import (
	"encoding/json"
	"net/http"
)

// Response is a fully read HTTP response. A nil *Response from Client.Request is the
// stop sentinel: the caller must not proceed.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	RequestID  string
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// ErrorMessage extracts the backend's error text from bodies shaped like
// {"error": "..."}, {"error": {"message": "..."}} or {"message": "..."}.
func (r *Response) ErrorMessage() string {
	if r == nil || len(r.Body) == 0 {
		return ""
	}
	var body struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(r.Body, &body); err != nil {
		return ""
	}
	if len(body.Error) > 0 {
		var text string
		if err := json.Unmarshal(body.Error, &text); err == nil && text != "" {
			return text
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(body.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return body.Message
}
