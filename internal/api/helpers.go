package api

import (
	"github.com/danielgtaylor/huma/v2"
)

// envelope is the wire shape every API response is wrapped in. Clients key
// off "success" before looking at anything else.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps every huma response body in the standard
// envelope so success and error payloads share one structure.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if apiErr, ok := v.(*APIError); ok {
		return envelope{
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
		}, nil
	}

	success := len(status) > 0 && (status[0] == '2' || status[0] == '3')
	return envelope{
		Success: success,
		Data:    v,
	}, nil
}
