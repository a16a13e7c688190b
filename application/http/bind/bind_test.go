package bind

import (
	"context"
	"crypto/tls"
	"io"
	"message-adapter/application/http"
	"message-adapter/application/http/semantic"
	"message-adapter/application/http/semantic/status"
	"net"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallFrom(t *testing.T) {
	r := httptest.NewRequest("GET", "/docs?x=1", nil)
	r.Host = "example.com"
	r.RemoteAddr = "192.0.2.10:53211"
	r.Header.Add("Accept", "text/html")
	r.Header.Add("Accept", "text/plain;q=0.5")
	r.Header.Set("Cookie", "a=1")
	local := &net.TCPAddr{IP: net.ParseIP("198.51.100.1"), Port: 8080}
	r = r.WithContext(context.WithValue(r.Context(), nethttp.LocalAddrContextKey, local))

	call, err := CallFrom(r)
	require.NoError(t, err)

	assert.Equal(t, "GET", call.Method())
	assert.Equal(t, "/docs?x=1", call.RequestURI())
	assert.Equal(t, "http", call.Protocol())
	assert.Equal(t, http.Endpoint{Address: "192.0.2.10", Port: 53211}, call.Client)
	assert.Equal(t, http.Endpoint{Address: "198.51.100.1", Port: 8080}, call.Server)
	assert.Equal(t, []http.Field{
		http.NewField("Host", "example.com"),
		http.NewField("Accept", "text/html"),
		http.NewField("Accept", "text/plain;q=0.5"),
		http.NewField("Cookie", "a=1"),
	}, call.Headers())
}

func TestCallFromTLS(t *testing.T) {
	r := httptest.NewRequest("GET", "https://example.com/", nil)
	r.TLS = &tls.ConnectionState{}

	call, err := CallFrom(r)
	require.NoError(t, err)
	assert.Equal(t, "https", call.Protocol())
}

func TestCallFromInvalidFields(t *testing.T) {
	testcases := []struct {
		desc  string
		setup func(r *nethttp.Request)
	}{
		{
			desc:  "bad name",
			setup: func(r *nethttp.Request) { r.Header["Bad Name"] = []string{"x"} },
		},
		{
			desc:  "bad value",
			setup: func(r *nethttp.Request) { r.Header["X-Test"] = []string{"a\x00b"} },
		},
		{
			desc:  "bad host",
			setup: func(r *nethttp.Request) { r.Host = "exa mple.com" },
		},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			tc.setup(r)

			_, err := CallFrom(r)
			assert.ErrorIs(t, err, ErrInvalidField)
		})
	}
}

func TestEndpoint(t *testing.T) {
	assert.Equal(t, http.Endpoint{Address: "::1", Port: 80}, endpoint("[::1]:80"))
	assert.Equal(t, http.Endpoint{Address: "pipe"}, endpoint("pipe"))
}

func TestWriteResponse(t *testing.T) {
	testcases := []struct {
		desc     string
		method   string
		status   status.Status
		expected string
	}{
		{desc: "get", method: "GET", status: status.OK, expected: "Hello"},
		{desc: "head", method: "HEAD", status: status.OK},
		{desc: "not modified", method: "GET", status: status.NotModified},
	}
	for _, tc := range testcases {
		t.Run(tc.desc, func(t *testing.T) {
			call, err := CallFrom(httptest.NewRequest(tc.method, "/", nil))
			require.NoError(t, err)
			req, err := semantic.RequestFrom(call, nil, semantic.Options{Clock: clock.NewMock()})
			require.NoError(t, err)

			length := uint(5)
			res := semantic.NewResponse(req)
			res.Status = tc.status
			res.Entity = &semantic.Entity{
				Body:      io.NopCloser(strings.NewReader("Hello")),
				Length:    &length,
				MediaType: "text/plain",
			}

			rec := httptest.NewRecorder()
			require.NoError(t, WriteResponse(rec, res))

			assert.Equal(t, int(tc.status.Code), rec.Code)
			assert.Equal(t, tc.expected, rec.Body.String())
			assert.Equal(t, semantic.DefaultAgent, rec.Header().Get("Server"))
			assert.Equal(t, "Thu, 01 Jan 1970 00:00:00 GMT", rec.Header().Get("Date"))
		})
	}
}
