package server

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"message-adapter/application/http/bind"
	"message-adapter/application/http/semantic"
	"message-adapter/application/http/semantic/condition"
	"message-adapter/application/http/semantic/httpdate"
	"message-adapter/application/http/semantic/ranges"
	"message-adapter/application/http/semantic/status"
	"message-adapter/internal/store"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/text/language"
)

func (s *Server) getRepresentation(w http.ResponseWriter, r *http.Request) {
	req, err := s.adapt(r)
	if err != nil {
		reject(w, r, err)
		return
	}
	res := semantic.NewResponse(req)

	variants, err := s.store.Variants(r.Context(), resourcePath(r))
	if err != nil {
		s.fail(w, r, res, err)
		return
	}
	if len(variants) == 0 {
		s.respond(w, r, res, status.NotFound)
		return
	}

	res.AddHeader("Vary", "Accept, Accept-Language")
	rep, ok := choose(req, variants)
	if !ok {
		s.respond(w, r, res, status.NotAcceptable)
		return
	}
	setValidators(res, rep)

	if st, ok := precondition(req, ptr(rep.EntityTag()), rep.ModifiedAt); ok {
		s.respond(w, r, res, st)
		return
	}

	size := uint64(len(rep.Body))
	offset, length := uint64(0), size
	res.AddHeader("Accept-Ranges", ranges.Unit)

	// Multiple ranges would need a multipart body; the whole entity is sent instead.
	if specs := req.Ranges(); len(specs) == 1 {
		var satisfiable bool
		offset, length, satisfiable = specs[0].Resolve(size)
		if !satisfiable {
			// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.17
			res.Headers.Set("Content-Range", ranges.Unit+" */"+strconv.FormatUint(size, 10))
			s.respond(w, r, res, status.RangeNotSatisfiable)
			return
		}
		res.Status = status.PartialContent
		res.Headers.Set("Content-Range", contentRange(offset, length, size))
	}

	l := uint(length)
	res.Entity = &semantic.Entity{
		Body:      io.NopCloser(bytes.NewReader(rep.Body[offset : offset+length])),
		Length:    &l,
		MediaType: rep.MediaType,
	}
	s.write(w, r, res)
}

func (s *Server) putRepresentation(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxEntitySize)

	req, err := s.adapt(r)
	if err != nil {
		reject(w, r, err)
		return
	}
	res := semantic.NewResponse(req)

	entity := req.Entity()
	defer entity.Body.Close()

	mediaType, _, err := mime.ParseMediaType(entity.MediaType)
	if err != nil {
		s.respond(w, r, res, status.UnsupportedMediaType)
		return
	}
	lang := contentLanguage(req)

	path := resourcePath(r)
	variants, err := s.store.Variants(r.Context(), path)
	if err != nil {
		s.fail(w, r, res, err)
		return
	}

	var current *store.Representation
	for i := range variants {
		if variants[i].MediaType == mediaType && variants[i].Language == lang {
			current = &variants[i]
		}
	}

	var (
		tag      *condition.Tag
		modified time.Time
	)
	if current != nil {
		tag, modified = ptr(current.EntityTag()), current.ModifiedAt
	}
	if st, ok := precondition(req, tag, modified); ok {
		s.respond(w, r, res, st)
		return
	}

	body, err := io.ReadAll(entity.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			err = status.NewError(err, status.ContentTooLarge)
		}
		s.fail(w, r, res, err)
		return
	}

	rep, err := s.store.Put(r.Context(), store.Representation{
		Path:      path,
		MediaType: mediaType,
		Language:  lang,
		Body:      body,
	})
	if err != nil {
		s.fail(w, r, res, err)
		return
	}

	setValidators(res, rep)
	if current == nil {
		s.respond(w, r, res, status.Created)
		return
	}
	s.respond(w, r, res, status.NoContent)
}

func (s *Server) deleteRepresentation(w http.ResponseWriter, r *http.Request) {
	req, err := s.adapt(r)
	if err != nil {
		reject(w, r, err)
		return
	}
	res := semantic.NewResponse(req)

	n, err := s.store.Delete(r.Context(), resourcePath(r))
	if err != nil {
		s.fail(w, r, res, err)
		return
	}
	if n == 0 {
		s.respond(w, r, res, status.NotFound)
		return
	}
	s.respond(w, r, res, status.NoContent)
}

// choose negotiates media type and language among variants.
// A variant is out once any dimension weighs it 0; the best product of weights
// wins and earlier variants win ties.
func choose(req *semantic.Request, variants []store.Representation) (store.Representation, bool) {
	info := req.ClientInfo()

	// Identity is acceptable unless refused outright.
	// Reference: https://datatracker.ietf.org/doc/html/rfc9110#section-12.5.3
	if q, _, ok := info.Encodings.Quality("identity"); ok && q == 0 {
		return store.Representation{}, false
	}

	var (
		best  store.Representation
		bestQ float64
	)
	for _, v := range variants {
		mq, _, ok := info.MediaTypes.Quality(v.MediaType)
		if !ok || mq == 0 {
			continue
		}

		lq := 1.0
		if v.Language != "" {
			var ok bool
			if lq, _, ok = info.Languages.Quality(v.Language); !ok || lq == 0 {
				continue
			}
		}

		// Text is stored as UTF-8.
		if strings.HasPrefix(v.MediaType, "text/") && !info.Charsets.Accepts("utf-8") {
			continue
		}

		if q := mq * lq; q > bestQ {
			best, bestQ = v, q
		}
	}

	return best, bestQ > 0
}

// contentLanguage returns the canonical form of the single language the entity
// is in, or "" when there isn't exactly one.
func contentLanguage(req *semantic.Request) string {
	raw, ok := req.Header("Content-Language")
	if !ok || strings.Contains(raw, ",") {
		return ""
	}

	tag, err := language.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return tag.String()
}

// precondition returns the status ending the request when its conditions
// don't hold for the current validators.
func precondition(req *semantic.Request, tag *condition.Tag, modified time.Time) (status.Status, bool) {
	if req.Conditions().IsEmpty() {
		return status.Status{}, false
	}
	return req.Evaluate(tag, modified).Status()
}

func setValidators(res *semantic.Response, rep store.Representation) {
	res.Headers.Set("ETag", rep.EntityTag().String())
	res.Headers.Set("Last-Modified", httpdate.Format(rep.ModifiedAt))
	if rep.Language != "" {
		res.Headers.Set("Content-Language", rep.Language)
	}
}

func contentRange(offset, length, size uint64) string {
	return ranges.Unit + " " +
		strconv.FormatUint(offset, 10) + "-" + strconv.FormatUint(offset+length-1, 10) +
		"/" + strconv.FormatUint(size, 10)
}

// reject answers a request the adapters could not take.
func reject(w http.ResponseWriter, r *http.Request, err error) {
	hlog.FromRequest(r).Info().Err(err).Msg("Rejected request")
	http.Error(w, err.Error(), int(status.BadRequest.Code))
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, res *semantic.Response, st status.Status) {
	res.Status = st
	res.Entity = nil
	s.write(w, r, res)
}

// fail answers with the status carried by err, 500 when there is none.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, res *semantic.Response, err error) {
	var se status.Error
	if !errors.As(err, &se) {
		se = status.NewError(err, status.InternalServerError)
	}

	logger := hlog.FromRequest(r)
	event := logger.Info()
	if se.Status.Class() == 5 {
		event = logger.Error()
	}
	event.Err(err).Stringer("status", se.Status).Msg("Request failed")

	s.respond(w, r, res, se.Status)
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, res *semantic.Response) {
	if err := bind.WriteResponse(w, res); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Msg("Could not write response")
	}
}

func ptr[T any](v T) *T { return &v }
