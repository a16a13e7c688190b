package semantic

import (
	"io"
	"message-adapter/application/http"

	"github.com/benbjohnson/clock"
)

const DefaultAgent = "message-adapter/1.0"

// Call is the handle a transport gives for one inbound exchange.
// Adapters only read from it.
type Call interface {
	Method() string
	RequestURI() string
	Headers() []http.Field

	ClientAddr() string
	ClientPort() int
	ServerAddr() string
	ServerPort() int

	// Protocol is the URI scheme the exchange arrived on.
	Protocol() string
	Entity() io.ReadCloser
}

var _ Call = (*http.ServerCall)(nil)

type Options struct {
	// TrustForwardedFor makes client info include the addresses listed in
	// X-Forwarded-For. Those are supplied by the client and can be forged.
	TrustForwardedFor bool

	// ServerAgent is announced in the Server header. Defaults to [DefaultAgent].
	ServerAgent string

	Clock clock.Clock
}

func (o Options) withDefaults() Options {
	if o.ServerAgent == "" {
		o.ServerAgent = DefaultAgent
	}
	if o.Clock == nil {
		o.Clock = clock.New()
	}
	return o
}
