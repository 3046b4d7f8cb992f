package server

import (
	"github.com/dvirzg/Forge/internal/errors"
)

// Wire envelopes. Every frame carries a type discriminator: the GUI sends
// "request" frames and receives "response" frames matched by id, plus
// server-initiated "event" frames.

// Request is one inbound operation call.
type Request struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Op     string         `json:"op"`
	Params map[string]any `json:"params,omitempty"`
}

// Response answers the request with the same id.
type Response struct {
	Type   string     `json:"type"`
	ID     string     `json:"id"`
	OK     bool       `json:"ok"`
	Result any        `json:"result,omitempty"`
	Error  *WireError `json:"error,omitempty"`
}

// Event is a server-initiated frame, not tied to a request.
type Event struct {
	Type    string `json:"type"`
	Event   string `json:"event"`
	Payload any    `json:"payload,omitempty"`
}

// WireError is the serialized form of a taxonomy error. Detail carries
// tool stderr when there is any.
type WireError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func okResponse(id string, result any) Response {
	return Response{Type: "response", ID: id, OK: true, Result: result}
}

func errResponse(id string, err error) Response {
	return Response{
		Type: "response",
		ID:   id,
		Error: &WireError{
			Code:    errors.CodeOf(err),
			Message: err.Error(),
			Detail:  errors.DetailOf(err),
		},
	}
}
