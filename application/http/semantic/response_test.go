package semantic

import (
	"io"
	"message-adapter/application/http"
	"message-adapter/application/http/semantic/status"
	"strings"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResponse(t *testing.T, opts Options) *Response {
	request, err := RequestFrom(newCall("GET", "/"), nil, opts)
	require.NoError(t, err)

	return NewResponse(request)
}

func TestResponseServerInfo(t *testing.T) {
	t.Run("read from call", func(t *testing.T) {
		response := newTestResponse(t, Options{})

		expected := ServerInfo{Address: "198.51.100.1", Port: 8080, Agent: DefaultAgent}
		assert.Equal(t, expected, response.ServerInfo())
		assert.Equal(t, expected, response.ServerInfo())
	})

	t.Run("configured agent", func(t *testing.T) {
		response := newTestResponse(t, Options{ServerAgent: "custom/2"})

		assert.Equal(t, "custom/2", response.ServerInfo().Agent)
	})

	t.Run("setter wins", func(t *testing.T) {
		response := newTestResponse(t, Options{})
		call := response.Request().Call().(*http.ServerCall)

		response.SetServerInfo(ServerInfo{Agent: "set"})
		call.Server.Address = "203.0.113.1"

		assert.Equal(t, ServerInfo{Agent: "set"}, response.ServerInfo())
	})

	t.Run("read once", func(t *testing.T) {
		response := newTestResponse(t, Options{})
		call := response.Request().Call().(*http.ServerCall)

		first := response.ServerInfo()
		call.Server.Port = 9090

		assert.Equal(t, first, response.ServerInfo())
	})
}

func TestResponseEnsureHeadersSet(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(1994, time.November, 6, 8, 49, 37, 0, time.UTC))

	response := newTestResponse(t, Options{Clock: mock})
	assert.Equal(t, status.OK, response.Status)

	length := uint(5)
	response.Entity = &Entity{
		Body:      io.NopCloser(strings.NewReader("Hello")),
		Length:    &length,
		MediaType: "text/plain",
	}
	response.AddHeader("Vary", "Accept")
	response.AddHeader("Vary", "Accept-Language")
	response.EnsureHeadersSet()

	date, _ := response.Headers.Get("Date")
	assert.Equal(t, "Sun, 06 Nov 1994 08:49:37 GMT", date)

	server, _ := response.Headers.Get("Server")
	assert.Equal(t, DefaultAgent, server)

	vary, _ := response.Headers.Values("Vary")
	assert.Equal(t, []string{"Accept", "Accept-Language"}, vary)

	contentLength, _ := response.Headers.Get("Content-Length")
	assert.Equal(t, "5", contentLength)

	raw := response.RawResponse(http.Version{1, 1})
	assert.Equal(t, http.StatusLine{Version: http.Version{1, 1}, StatusCode: 200, ReasonPhrase: "OK"}, raw.StatusLine)
	assert.Equal(t, []http.Field{
		http.NewField("Vary", "Accept"),
		http.NewField("Vary", "Accept-Language"),
		http.NewField("Date", "Sun, 06 Nov 1994 08:49:37 GMT"),
		http.NewField("Server", DefaultAgent),
		http.NewField("Content-Type", "text/plain"),
		http.NewField("Content-Length", "5"),
	}, raw.Headers)

	b, err := io.ReadAll(raw.Body)
	require.NoError(t, err)
	assert.Equal(t, "Hello", string(b))
}

func TestResponseWithoutEntity(t *testing.T) {
	response := newTestResponse(t, Options{Clock: clock.NewMock()})
	response.Status = status.NoContent
	response.EnsureHeadersSet()

	raw := response.RawResponse(http.Version{1, 1})
	assert.Equal(t, uint(204), raw.StatusCode)
	assert.Nil(t, raw.Body)

	_, ok := response.Headers.Get("Content-Length")
	assert.False(t, ok)
}

func TestResponseDropsStaleEntityHeaders(t *testing.T) {
	response := newTestResponse(t, Options{Clock: clock.NewMock()})
	response.Headers.Set("Content-Type", "text/html")
	response.Headers.Set("Content-Length", "12")
	response.Status = status.NotModified
	response.EnsureHeadersSet()

	_, ok := response.Headers.Get("Content-Type")
	assert.False(t, ok)
	_, ok = response.Headers.Get("Content-Length")
	assert.False(t, ok)
}

func TestResponseWithoutRequest(t *testing.T) {
	response := NewResponse(nil)

	assert.Nil(t, response.Request())
	assert.Equal(t, ServerInfo{Agent: DefaultAgent}, response.ServerInfo())

	assert.NotPanics(t, response.EnsureHeadersSet)
	_, ok := response.Headers.Get("Date")
	assert.True(t, ok)
}
