package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/discograph/pkg/errors"
	"github.com/matzehuels/discograph/pkg/graph"
	"github.com/matzehuels/discograph/pkg/render"
)

// GET /graph
func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r.URL.Query())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := s.store.Graph(r.Context(), f)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}

// GET /discoveries/{topic}
func (s *Server) discoveries(w http.ResponseWriter, r *http.Request) {
	topic := pathParam(r, "topic")
	if err := errors.ValidateTopicName(topic); err != nil {
		s.writeError(w, r, err)
		return
	}
	ds, err := s.store.Discoveries(r.Context(), topic)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

// GET /topics
func (s *Server) topics(w http.ResponseWriter, r *http.Request) {
	ts, err := s.store.Topics(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

// GET /colour/{branch} falls back to the Unsorted color.
func (s *Server) colour(w http.ResponseWriter, r *http.Request) {
	branch := pathParam(r, "branch")
	c, ok := s.palette[branch]
	if !ok {
		c = s.palette.Color(render.Unsorted)
	}
	writeJSON(w, http.StatusOK, map[string]string{"color": c})
}

// GET /healthz
func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// parseFilter reads topic, min_year and max_year, defaulting the year
// bounds to the full range.
func parseFilter(q url.Values) (graph.Filter, error) {
	f := graph.DefaultFilter()
	f.Topic = q.Get("topic")
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"min_year", &f.MinYear},
		{"max_year", &f.MaxYear},
	} {
		v := q.Get(p.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return f, errors.New(errors.ErrCodeInvalidInput, "%s must be an integer, got %q", p.name, v)
		}
		*p.dst = n
	}
	return f, f.Validate()
}

// pathParam returns a decoded URL parameter. chi matches on the raw path
// when the request carries escaped slashes.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.GetCode(err) == "" {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
		err = errors.New(errors.ErrCodeInternal, "internal server error")
	}
	status := errors.HTTPStatus(err)
	if status >= 500 && !errors.Is(err, errors.ErrCodeInternal) {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{"detail": errors.UserMessage(err)})
}
