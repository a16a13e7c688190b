package http

import "io"

type RequestLine struct {
	Method  string
	Target  string
	Version Version
}

// Request is a request as it was read off the wire.
// Headers keep the order and the multiplicity they arrived with.
type Request struct {
	RequestLine
	Headers []Field

	Body io.ReadCloser
}

type StatusLine struct {
	Version      Version
	StatusCode   uint
	ReasonPhrase string
}

type Response struct {
	StatusLine
	Headers []Field
	Body    io.ReadCloser
}

// [Major, Minor]
type Version [2]uint

type Field struct{ Name, Value []byte }

// NewField is a shorthand for building a field out of strings.
func NewField(name, value string) Field {
	return Field{Name: []byte(name), Value: []byte(value)}
}
