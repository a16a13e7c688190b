package http

import (
	"bytes"
	"io"
)

// Endpoint is one side of a connection, as seen by the transport.
type Endpoint struct {
	Address string
	Port    int
}

// ServerCall is a single inbound exchange handed off by the transport.
// It owns the raw request; adapters only ever read from it.
type ServerCall struct {
	Request *Request

	// Scheme the exchange was received on, "http" when empty.
	Scheme string

	Client Endpoint
	Server Endpoint
}

func (c *ServerCall) Method() string     { return c.Request.Method }
func (c *ServerCall) RequestURI() string { return c.Request.Target }
func (c *ServerCall) Headers() []Field   { return c.Request.Headers }
func (c *ServerCall) ClientAddr() string { return c.Client.Address }
func (c *ServerCall) ClientPort() int    { return c.Client.Port }
func (c *ServerCall) ServerAddr() string { return c.Server.Address }
func (c *ServerCall) ServerPort() int    { return c.Server.Port }

func (c *ServerCall) Protocol() string {
	if c.Scheme == "" {
		return "http"
	}
	return c.Scheme
}

// Entity returns the request body, or an empty reader when there is none.
func (c *ServerCall) Entity() io.ReadCloser {
	if c.Request.Body == nil {
		return io.NopCloser(bytes.NewReader(nil))
	}
	return c.Request.Body
}
