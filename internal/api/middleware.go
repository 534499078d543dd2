package api

import (
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// EnvelopeVersion is bumped whenever the envelope shape changes in a way
// clients must know about.
const EnvelopeVersion = 1

// APIEnvelope is the uniform wrapper around every successful response body.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload"`
	Error   string `json:"error,omitempty" doc:"Error message when success is false"`
}

// APIErrorEnvelope wraps error responses, preserving the machine-readable
// code and structured details alongside the message.
type APIErrorEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v" doc:"Envelope version"`
	Success bool   `json:"success" doc:"Always false"`
	Error   string `json:"error,omitempty" doc:"Error message"`
	Code    string `json:"code,omitempty" doc:"Machine-readable error code"`
	Details any    `json:"details,omitempty" doc:"Structured error details"`
}

// EnvelopeTransformer wraps every response body in a versioned envelope so
// clients can branch on success/code without sniffing status strings.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	// A status we cannot parse must never masquerade as success.
	code, err := strconv.Atoi(status)
	if err != nil {
		code = http.StatusInternalServerError
	}
	success := code < 400

	if apiErr, ok := v.(*APIError); ok {
		return APIErrorEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   apiErr.Message,
			Code:    apiErr.Code,
			Details: apiErr.Details,
		}, nil
	}

	if e, ok := v.(error); ok {
		return APIEnvelope{
			Version: EnvelopeVersion,
			Success: false,
			Error:   e.Error(),
		}, nil
	}

	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: success,
		Data:    v,
	}, nil
}
