// Package bind connects the adapters to net/http.
package bind

import (
	"io"
	"message-adapter/application/http"
	"message-adapter/application/http/semantic"
	"message-adapter/application/http/semantic/status"
	"net"
	nethttp "net/http"
	"sort"
	"strconv"

	"github.com/pkg/errors"
	"golang.org/x/net/http/httpguts"
)

var ErrInvalidField = errors.New("invalid header field")

// CallFrom builds a call out of a request received by a net/http server.
// net/http doesn't keep the order of header fields, so names are sorted;
// lines of a repeated field keep their order. Host comes first.
func CallFrom(r *nethttp.Request) (*http.ServerCall, error) {
	if !httpguts.ValidHostHeader(r.Host) {
		return nil, errors.Wrapf(ErrInvalidField, "host %q", r.Host)
	}

	headers := make([]http.Field, 0, len(r.Header)+1)
	if r.Host != "" {
		headers = append(headers, http.NewField("Host", r.Host))
	}

	names := make([]string, 0, len(r.Header))
	for name := range r.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, errors.Wrapf(ErrInvalidField, "name %q", name)
		}
		for _, value := range r.Header[name] {
			if !httpguts.ValidHeaderFieldValue(value) {
				return nil, errors.Wrapf(ErrInvalidField, "value of %s", name)
			}
			headers = append(headers, http.NewField(name, value))
		}
	}

	target := r.RequestURI
	if target == "" {
		target = r.URL.RequestURI()
	}

	call := &http.ServerCall{
		Request: &http.Request{
			RequestLine: http.RequestLine{
				Method:  r.Method,
				Target:  target,
				Version: http.Version{uint(r.ProtoMajor), uint(r.ProtoMinor)},
			},
			Headers: headers,
			Body:    r.Body,
		},
		Scheme: "http",
		Client: endpoint(r.RemoteAddr),
	}
	if r.TLS != nil {
		call.Scheme = "https"
	}
	if addr, ok := r.Context().Value(nethttp.LocalAddrContextKey).(net.Addr); ok {
		call.Server = endpoint(addr.String())
	}

	return call, nil
}

func endpoint(hostport string) http.Endpoint {
	host, port, err := net.SplitHostPort(hostport)
	if err != nil {
		return http.Endpoint{Address: hostport}
	}

	p, _ := strconv.Atoi(port)
	return http.Endpoint{Address: host, Port: p}
}

// WriteResponse sends res through w. The entity is left out for HEAD and for
// statuses that can't carry one.
func WriteResponse(w nethttp.ResponseWriter, res *semantic.Response) error {
	res.EnsureHeadersSet()

	raw := res.RawResponse(http.Version{1, 1})
	for _, field := range raw.Headers {
		w.Header().Add(string(field.Name), string(field.Value))
	}
	w.WriteHeader(int(raw.StatusCode))

	if raw.Body == nil {
		return nil
	}
	defer raw.Body.Close()

	// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-6.4.1
	if req := res.Request(); (req != nil && req.Method == semantic.MethodHead) ||
		raw.StatusCode == status.NoContent.Code || raw.StatusCode == status.NotModified.Code {
		return nil
	}
	if _, err := io.Copy(w, raw.Body); err != nil {
		return errors.Wrap(err, "writing entity")
	}
	return nil
}
