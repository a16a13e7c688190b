// Package http holds the wire-level message types exchanged with the transport.
//
// Nothing here interprets header values; see package semantic for that.
//
// Reference:
//
// - https://datatracker.ietf.org/doc/html/rfc9110
//
// - https://datatracker.ietf.org/doc/html/rfc9112
package http
