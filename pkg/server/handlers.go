package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/edgebundle/pkg/buildinfo"
	errs "github.com/matzehuels/edgebundle/pkg/errors"
	"github.com/matzehuels/edgebundle/pkg/graph"
	"github.com/matzehuels/edgebundle/pkg/pipeline"
)

// CacheHeader reports whether a response came from the cache.
const CacheHeader = "X-Cache"

var contentTypes = map[string]string{
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		buildinfo.Info
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	opts, err := s.layoutOptions(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}
	g, err := decodeScene(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	l, hit, err := s.runner.Layout(r.Context(), g, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set(CacheHeader, cacheStatus(hit))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := graph.WriteLayout(l, w, graph.FormatJSON); err != nil {
		s.logger.Warn("write layout", "err", err, "request_id", RequestID(r.Context()))
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := s.layoutOptions(q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ropts := pipeline.RenderOptions{Format: strings.ToLower(q.Get("format"))}
	if ropts.ShowLCA, err = boolParam(q, "show_lca", false); err != nil {
		writeError(w, r, err)
		return
	}
	if ropts.Detailed, err = boolParam(q, "detailed", false); err != nil {
		writeError(w, r, err)
		return
	}
	if err := ropts.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	g, err := decodeScene(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	l, _, err := s.runner.Layout(r.Context(), g, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	data, hit, err := s.runner.Render(r.Context(), g, l, ropts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set(CacheHeader, cacheStatus(hit))
	w.Header().Set("Content-Type", contentTypes[ropts.Format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// layoutOptions overlays query parameters on the server defaults. Setting
// min_elevation without derive_elevation turns derivation off.
func (s *Server) layoutOptions(q url.Values) (pipeline.Options, error) {
	opts := s.defaults
	var err error

	if v := q.Get("strategy"); v != "" {
		opts.Strategy = strings.ToLower(v)
	}
	if opts.EdgesAboveBlocks, err = boolParam(q, "edges_above_blocks", opts.EdgesAboveBlocks); err != nil {
		return opts, err
	}
	if opts.LevelUnit, err = floatParam(q, "level_unit", opts.LevelUnit); err != nil {
		return opts, err
	}
	if q.Has("min_elevation") && !q.Has("derive_elevation") {
		opts.DeriveElevation = false
	}
	if opts.MinElevation, err = floatParam(q, "min_elevation", opts.MinElevation); err != nil {
		return opts, err
	}
	if opts.DeriveElevation, err = boolParam(q, "derive_elevation", opts.DeriveElevation); err != nil {
		return opts, err
	}
	if opts.Refresh, err = boolParam(q, "refresh", false); err != nil {
		return opts, err
	}
	return opts, nil
}

// decodeScene reads the body as YAML when the content type says so and as
// JSON otherwise.
func decodeScene(r *http.Request) (graph.Graph, error) {
	format := graph.FormatJSON
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		format = graph.FormatYAML
	}
	return graph.ReadGraph(r.Body, format)
}

func boolParam(q url.Values, name string, def bool) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, errs.New(errs.ErrCodeInvalidInput, "%s: expected a boolean, got %q", name, v)
	}
	return b, nil
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, errs.New(errs.ErrCodeInvalidInput, "%s: expected a number, got %q", name, v)
	}
	return f, nil
}

func cacheStatus(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// writeError maps err to a status via its code. Uncoded errors are
// reported as internal without their message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeErrorStatus(w, r, http.StatusRequestEntityTooLarge, string(errs.ErrCodeInvalidInput),
			"request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
		return
	}

	code := errs.GetCode(err)
	if code == "" {
		writeErrorStatus(w, r, http.StatusInternalServerError, string(errs.ErrCodeInternal), "internal error")
		return
	}
	writeErrorStatus(w, r, errs.HTTPStatus(err), string(code), errs.UserMessage(err))
}

func writeErrorStatus(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{
		Code:      code,
		Message:   message,
		RequestID: RequestID(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
