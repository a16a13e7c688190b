package semantic

import (
	"message-adapter/application/http"
	"message-adapter/application/http/semantic/httpdate"
	"message-adapter/application/http/semantic/status"
	"message-adapter/lib/lazy"
	"strconv"
)

// ServerInfo identifies the server that answers a call.
type ServerInfo struct {
	Address string
	Port    int
	Agent   string
}

// Response is the outbound side of the exchange a [Request] came from.
type Response struct {
	request *Request
	opts    Options

	Status  status.Status
	Headers Headers
	Entity  *Entity

	serverInfo lazy.Cell[ServerInfo]
}

// NewResponse returns a 200 OK response without entity for request.
// A nil request gives a response that isn't tied to any call; it uses the
// default options and carries no server address.
func NewResponse(request *Request) *Response {
	r := &Response{
		request: request,
		opts:    Options{}.withDefaults(),
		Status:  status.OK,
		Headers: NewHeaders(nil),
	}
	if request != nil {
		r.opts = request.opts
	}
	return r
}

func (r *Response) Request() *Request { return r.request }

// ServerInfo is read from the call once.
func (r *Response) ServerInfo() ServerInfo {
	return r.serverInfo.Load(func() ServerInfo {
		info := ServerInfo{Agent: r.opts.ServerAgent}
		if r.request != nil {
			info.Address = r.request.call.ServerAddr()
			info.Port = r.request.call.ServerPort()
		}
		return info
	})
}

func (r *Response) SetServerInfo(info ServerInfo) { r.serverInfo.Store(info) }

func (r *Response) AddHeader(name, value string) { r.Headers.Add(name, value) }

func (r *Response) EnsureHeadersSet() {
	// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-6.6.1
	r.Headers.Set("Date", httpdate.Format(r.opts.Clock.Now()))

	if agent := r.ServerInfo().Agent; agent != "" {
		r.Headers.Set("Server", agent)
	}

	if r.Entity == nil {
		r.Headers.Del("Content-Type")
		r.Headers.Del("Content-Length")
		return
	}
	if r.Entity.MediaType != "" {
		r.Headers.Set("Content-Type", r.Entity.MediaType)
	}
	if r.Entity.Length != nil {
		r.Headers.Set("Content-Length", strconv.FormatUint(uint64(*r.Entity.Length), 10))
	}
}

func (r *Response) RawResponse(ver http.Version) http.Response {
	res := http.Response{
		StatusLine: http.StatusLine{
			Version:      ver,
			StatusCode:   r.Status.Code,
			ReasonPhrase: r.Status.ReasonPhrase,
		},
		Headers: r.Headers.ToRawFields(),
	}
	if r.Entity != nil {
		res.Body = r.Entity.Body
	}

	return res
}
