// Package ops defines the operation registry shared by every transport.
//
// Each operation carries a name, a JSON schema describing its parameters and
// a handler. The websocket layer dispatches requests by name; the MCP layer
// exposes the same registry as tools. Handlers decode parameters themselves
// and return taxonomy errors for anything malformed, so transports stay
// oblivious to per-operation shapes.
package ops
