package semantic

import (
	"context"
	"io"
	"log/slog"
	"message-adapter/application/http/semantic/challenge"
	"message-adapter/application/http/semantic/condition"
	"message-adapter/application/http/semantic/cookie"
	"message-adapter/application/http/semantic/preference"
	"message-adapter/application/http/semantic/ranges"
	"message-adapter/lib/lazy"
	sliceutil "message-adapter/lib/slice"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Derived names a field of [Request] that is read from headers on first use.
type Derived uint8

const (
	DerivedClientInfo Derived = iota
	DerivedConditions
	DerivedCookies
	DerivedRanges
	DerivedEntity
	DerivedReferrer
	DerivedChallenge
	DerivedProxyChallenge
)

func (d Derived) String() string {
	switch d {
	case DerivedClientInfo:
		return "client-info"
	case DerivedConditions:
		return "conditions"
	case DerivedCookies:
		return "cookies"
	case DerivedRanges:
		return "ranges"
	case DerivedEntity:
		return "entity"
	case DerivedReferrer:
		return "referrer"
	case DerivedChallenge:
		return "challenge"
	case DerivedProxyChallenge:
		return "proxy-challenge"
	}
	return "derived(" + strconv.Itoa(int(d)) + ")"
}

// ClientInfo describes the client of a request and what it accepts.
type ClientInfo struct {
	Address string
	Port    int
	Agent   string

	// ForwardedAddresses are the proxy-reported addresses, closest client first.
	// Only filled when [Options.TrustForwardedFor] is set.
	ForwardedAddresses []string

	MediaTypes preference.List
	Charsets   preference.List
	Encodings  preference.List
	Languages  preference.List
}

func (c *ClientInfo) Preference(d preference.Dimension) preference.List {
	switch d {
	case preference.MediaType:
		return c.MediaTypes
	case preference.Charset:
		return c.Charsets
	case preference.Encoding:
		return c.Encodings
	case preference.Language:
		return c.Languages
	}
	return preference.List{Dimension: d}
}

func (c *ClientInfo) setPreference(l preference.List) {
	switch l.Dimension {
	case preference.MediaType:
		c.MediaTypes = l
	case preference.Charset:
		c.Charsets = l
	case preference.Encoding:
		c.Encodings = l
	case preference.Language:
		c.Languages = l
	}
}

type parsers struct {
	preference func(preference.Dimension, string) (preference.List, error)
	conditions func(lookup func(string) (string, bool)) (condition.Conditions, error)
	cookies    func(string) ([]cookie.Cookie, error)
	ranges     func(string) ([]ranges.Spec, error)
	challenge  func(string) (*challenge.Response, error)
}

var defaultParsers = parsers{
	preference: preference.Parse,
	conditions: condition.Parse,
	cookies:    cookie.Parse,
	ranges:     ranges.Parse,
	challenge:  challenge.Parse,
}

// Request adapts a [Call] into a typed request.
//
// Every derived field is parsed at most once, on first access, even when the
// request is shared between goroutines. A header that fails to parse is logged
// and leaves a best-effort value behind; [Request.Err] reports what went wrong.
// Setters replace a field and keep it from ever being parsed.
type Request struct {
	call    Call
	headers Headers
	logger  *slog.Logger
	opts    Options
	parse   parsers

	Method      Method
	ResourceRef *url.URL

	clientInfo     lazy.Cell[lazy.Result[*ClientInfo]]
	conditions     lazy.Cell[lazy.Result[condition.Conditions]]
	cookies        lazy.Cell[lazy.Result[[]cookie.Cookie]]
	ranges         lazy.Cell[lazy.Result[[]ranges.Spec]]
	entity         lazy.Cell[lazy.Result[Entity]]
	referrer       lazy.Cell[lazy.Result[*url.URL]]
	challenge      lazy.Cell[lazy.Result[*challenge.Response]]
	proxyChallenge lazy.Cell[lazy.Result[*challenge.Response]]
}

// RequestFrom wraps call. Only the request target is read eagerly; it fails
// when the target isn't a valid URI reference.
func RequestFrom(call Call, logger *slog.Logger, opts Options) (*Request, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	request := &Request{
		call:    call,
		headers: HeadersFrom(call.Headers()),
		logger:  logger,
		opts:    opts.withDefaults(),
		parse:   defaultParsers,
		Method:  Method(call.Method()),
	}

	var err error
	request.ResourceRef, err = resourceRef(call, request.headers)
	if err != nil {
		return nil, errors.Wrap(err, "building resource reference")
	}

	return request, nil
}

func (r *Request) Call() Call { return r.call }

// Header returns every line of the named field joined by ", ".
func (r *Request) Header(name string) (string, bool) {
	return r.headers.Combined(name, ", ")
}

func (r *Request) ClientInfo() *ClientInfo {
	return r.clientInfo.Load(r.readClientInfo).Value
}

func (r *Request) Preferences(d preference.Dimension) preference.List {
	return r.ClientInfo().Preference(d)
}

func (r *Request) Conditions() condition.Conditions {
	return r.conditions.Load(r.readConditions).Value
}

func (r *Request) SetConditions(c condition.Conditions) {
	r.conditions.Store(lazy.Result[condition.Conditions]{Value: c})
}

// Evaluate decides the request's preconditions against the current state of
// its target. current is nil when the target has no entity tag.
func (r *Request) Evaluate(current *condition.Tag, modified time.Time) condition.Outcome {
	return r.Conditions().Evaluate(r.Method.IsSafe(), current, modified)
}

// Cookies returns the cookies in the order the client sent them.
func (r *Request) Cookies() []cookie.Cookie {
	return slices.Clone(r.cookies.Load(r.readCookies).Value)
}

func (r *Request) SetCookies(cookies []cookie.Cookie) {
	r.cookies.Store(lazy.Result[[]cookie.Cookie]{Value: slices.Clone(cookies)})
}

// Ranges returns the requested byte ranges.
// Empty means the whole entity should be served.
func (r *Request) Ranges() []ranges.Spec {
	return slices.Clone(r.ranges.Load(r.readRanges).Value)
}

func (r *Request) SetRanges(specs []ranges.Spec) {
	r.ranges.Store(lazy.Result[[]ranges.Spec]{Value: slices.Clone(specs)})
}

func (r *Request) Entity() Entity {
	return r.entity.Load(r.readEntity).Value
}

func (r *Request) SetEntity(e Entity) {
	r.entity.Store(lazy.Result[Entity]{Value: e})
}

// Referrer returns the parsed Referer header, or nil.
func (r *Request) Referrer() *url.URL {
	return r.referrer.Load(r.readReferrer).Value
}

func (r *Request) SetReferrer(u *url.URL) {
	r.referrer.Store(lazy.Result[*url.URL]{Value: u})
}

// ChallengeResponse returns the credentials of the Authorization header, or nil.
func (r *Request) ChallengeResponse() *challenge.Response {
	return r.loadChallenge().Value
}

func (r *Request) SetChallengeResponse(c *challenge.Response) {
	r.challenge.Store(lazy.Result[*challenge.Response]{Value: c})
}

// ProxyChallengeResponse returns the credentials of the Proxy-Authorization header, or nil.
func (r *Request) ProxyChallengeResponse() *challenge.Response {
	return r.loadProxyChallenge().Value
}

func (r *Request) SetProxyChallengeResponse(c *challenge.Response) {
	r.proxyChallenge.Store(lazy.Result[*challenge.Response]{Value: c})
}

// Err materializes d and returns the problem met while parsing it.
// Fields assigned with a setter never report one.
func (r *Request) Err(d Derived) error {
	switch d {
	case DerivedClientInfo:
		return r.clientInfo.Load(r.readClientInfo).Err
	case DerivedConditions:
		return r.conditions.Load(r.readConditions).Err
	case DerivedCookies:
		return r.cookies.Load(r.readCookies).Err
	case DerivedRanges:
		return r.ranges.Load(r.readRanges).Err
	case DerivedEntity:
		return r.entity.Load(r.readEntity).Err
	case DerivedReferrer:
		return r.referrer.Load(r.readReferrer).Err
	case DerivedChallenge:
		return r.loadChallenge().Err
	case DerivedProxyChallenge:
		return r.loadProxyChallenge().Err
	}
	return errors.Errorf("unknown derived field %d", d)
}

// Materialized reports whether d was already parsed or assigned.
func (r *Request) Materialized(d Derived) bool {
	switch d {
	case DerivedClientInfo:
		return r.clientInfo.Materialized()
	case DerivedConditions:
		return r.conditions.Materialized()
	case DerivedCookies:
		return r.cookies.Materialized()
	case DerivedRanges:
		return r.ranges.Materialized()
	case DerivedEntity:
		return r.entity.Materialized()
	case DerivedReferrer:
		return r.referrer.Materialized()
	case DerivedChallenge:
		return r.challenge.Materialized()
	case DerivedProxyChallenge:
		return r.proxyChallenge.Materialized()
	}
	return false
}

func (r *Request) readClientInfo() lazy.Result[*ClientInfo] {
	info := &ClientInfo{
		Address: r.call.ClientAddr(),
		Port:    r.call.ClientPort(),
	}
	info.Agent, _ = r.headers.Get("User-Agent")

	var firstErr error
	for _, d := range preference.Dimensions() {
		list := preference.List{Dimension: d, Entries: make([]preference.Entry, 0)}
		if raw, ok := r.headers.Combined(d.Header(), ", "); ok {
			var err error
			list, err = r.parse.preference(d, raw)
			if err != nil {
				// The other dimensions are still read.
				r.logFailure(slog.LevelInfo, DerivedClientInfo, d.Header(), err)
				if firstErr == nil {
					firstErr = err
				}
			}
		}
		info.setPreference(list)
	}

	if r.opts.TrustForwardedFor {
		info.ForwardedAddresses = forwardedAddresses(r.headers)
	}

	return lazy.Result[*ClientInfo]{Value: info, Err: firstErr}
}

func (r *Request) readConditions() lazy.Result[condition.Conditions] {
	lookup := func(name string) (string, bool) { return r.headers.Combined(name, ", ") }

	c, err := r.parse.conditions(lookup)
	if err != nil {
		r.logFailure(slog.LevelInfo, DerivedConditions, "If-*", err)
	}
	return lazy.Result[condition.Conditions]{Value: c, Err: err}
}

func (r *Request) readCookies() lazy.Result[[]cookie.Cookie] {
	raw, ok := r.headers.Combined("Cookie", "; ")
	if !ok {
		return lazy.Result[[]cookie.Cookie]{Value: make([]cookie.Cookie, 0)}
	}

	cookies, err := r.parse.cookies(raw)
	if err != nil {
		r.logFailure(slog.LevelWarn, DerivedCookies, "Cookie", err)
	}
	if cookies == nil {
		cookies = make([]cookie.Cookie, 0)
	}
	return lazy.Result[[]cookie.Cookie]{Value: cookies, Err: err}
}

func (r *Request) readRanges() lazy.Result[[]ranges.Spec] {
	raw, ok := r.headers.Get("Range")
	if !ok {
		return lazy.Result[[]ranges.Spec]{Value: make([]ranges.Spec, 0)}
	}

	specs, err := r.parse.ranges(raw)
	if err != nil {
		r.logFailure(slog.LevelInfo, DerivedRanges, "Range", err)
	}
	if specs == nil {
		specs = make([]ranges.Spec, 0)
	}
	return lazy.Result[[]ranges.Spec]{Value: specs, Err: err}
}

func (r *Request) readEntity() lazy.Result[Entity] {
	entity, err := entityFrom(r.headers, r.call.Entity())
	if err != nil {
		r.logFailure(slog.LevelInfo, DerivedEntity, "Content-Length", err)
	}
	return lazy.Result[Entity]{Value: entity, Err: err}
}

func (r *Request) readReferrer() lazy.Result[*url.URL] {
	raw, ok := r.headers.Get("Referer")
	if !ok {
		return lazy.Result[*url.URL]{}
	}

	u, err := url.Parse(raw)
	if err != nil {
		r.logFailure(slog.LevelInfo, DerivedReferrer, "Referer", err)
		return lazy.Result[*url.URL]{Err: err}
	}
	return lazy.Result[*url.URL]{Value: u}
}

func (r *Request) loadChallenge() lazy.Result[*challenge.Response] {
	return r.challenge.Load(func() lazy.Result[*challenge.Response] {
		return r.readChallenge(DerivedChallenge, "Authorization")
	})
}

func (r *Request) loadProxyChallenge() lazy.Result[*challenge.Response] {
	return r.proxyChallenge.Load(func() lazy.Result[*challenge.Response] {
		return r.readChallenge(DerivedProxyChallenge, "Proxy-Authorization")
	})
}

func (r *Request) readChallenge(d Derived, header string) lazy.Result[*challenge.Response] {
	raw, ok := r.headers.Get(header)
	if !ok {
		return lazy.Result[*challenge.Response]{}
	}

	c, err := r.parse.challenge(raw)
	if err != nil {
		r.logFailure(slog.LevelInfo, d, header, err)
	}
	return lazy.Result[*challenge.Response]{Value: c, Err: err}
}

func (r *Request) logFailure(level slog.Level, d Derived, header string, err error) {
	r.logger.Log(context.Background(), level, "unable to read header",
		slog.String("field", d.String()),
		slog.String("header", header),
		slog.Any("error", err),
	)
}

func forwardedAddresses(h Headers) []string {
	raw, ok := h.Combined("X-Forwarded-For", ",")
	if !ok {
		return nil
	}

	addrs := sliceutil.Map(strings.Split(raw, ","), strings.TrimSpace)
	return sliceutil.Filter(addrs, func(addr string) bool { return addr != "" })
}

// resourceRef builds the absolute URI of the requested resource.
// Reference: https://datatracker.ietf.org/doc/html/rfc9112#section-3.3
func resourceRef(call Call, h Headers) (*url.URL, error) {
	target := call.RequestURI()
	if target == "*" {
		target = ""
	}

	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	if u.IsAbs() {
		return normalizeRef(u), nil
	}

	u.Scheme = call.Protocol()
	if host, ok := h.Get("Host"); ok && host != "" {
		u.Host = host
	} else {
		u.Host = call.ServerAddr()
		if strings.Contains(u.Host, ":") {
			u.Host = "[" + u.Host + "]"
		}
		if p := call.ServerPort(); p > 0 {
			u.Host += ":" + strconv.Itoa(p)
		}
	}

	return normalizeRef(u), nil
}

// normalizeRef applies scheme-based normalization.
// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-4.2.3
func normalizeRef(u *url.URL) *url.URL {
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)

	// If the port is equal to the default port for a scheme,
	// the normal form is to omit the port subcomponent.
	if p := u.Port(); p != "" && p == strconv.Itoa(defaultPort(u.Scheme)) {
		u.Host = strings.TrimSuffix(u.Host, ":"+p)
	}

	// An empty path component is equivalent to an absolute path of "/".
	if u.Path == "" && u.Opaque == "" {
		u.Path = "/"
	}

	return u
}
