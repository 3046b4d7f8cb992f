// Package errors defines the closed error taxonomy for the Forge backend.
//
// Failures fall into a small fixed set: tool missing, tool exited non-zero,
// unsupported parameter, I/O failure, unknown operation. Each typed error
// carries its wire code for the RPC boundary, and tool failures keep the
// captured stderr text as an attached payload so the failure is diagnosable
// without re-running the tool.
package errors
