// Package plans serves plan computation over HTTP.
package plans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kilianp07/airlift/api"
	"github.com/kilianp07/airlift/core/history"
	"github.com/kilianp07/airlift/core/logger"
	"github.com/kilianp07/airlift/core/model"
	"github.com/kilianp07/airlift/core/planner"
	"github.com/kilianp07/airlift/pkg/export"
	"github.com/kilianp07/airlift/scenario"
)

// DefaultCacheSize is the number of plan sets kept in memory.
const DefaultCacheSize = 64

const maxBodySize = 4 << 20

// Planner computes the plans of a scenario.
type Planner interface {
	Run(ctx context.Context, sc model.Scenario) (planner.PlanSet, error)
	Strategies() []string
}

// Handler serves POST /api/plans and GET /api/strategies.
type Handler struct {
	planner Planner
	cache   *lru.Cache[uint64, planner.PlanSet]
	history history.Store
	log     logger.Logger
	mux     *http.ServeMux
}

// Option customises a Handler.
type Option func(*Handler)

// WithHistory saves every planned scenario in s.
func WithHistory(s history.Store) Option { return func(h *Handler) { h.history = s } }

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option { return func(h *Handler) { h.log = l } }

// NewHandler builds the plan endpoints. cacheSize <= 0 uses DefaultCacheSize.
func NewHandler(p Planner, cacheSize int, opts ...Option) (*Handler, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[uint64, planner.PlanSet](cacheSize)
	if err != nil {
		return nil, err
	}
	h := &Handler{planner: p, cache: cache, mux: http.NewServeMux()}
	for _, o := range opts {
		o(h)
	}
	h.log = logger.OrNop(h.log)
	h.mux.HandleFunc("POST /api/plans", h.plan)
	h.mux.HandleFunc("GET /api/strategies", h.strategies)
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) { h.mux.ServeHTTP(w, r) }

func (h *Handler) plan(w http.ResponseWriter, r *http.Request) {
	var sc model.Scenario
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&sc); err != nil {
		api.WriteJSON(w, http.StatusBadRequest, api.ErrorBody{Error: "invalid scenario: " + err.Error()})
		return
	}
	scenario.Normalize(&sc)
	if err := scenario.Validate(sc); err != nil {
		api.WriteJSON(w, http.StatusUnprocessableEntity, api.ErrorBody{Error: "invalid scenario", Details: details(err)})
		return
	}

	fp := sc.Fingerprint()
	set, hit := h.cache.Get(fp)
	if hit {
		set.ScenarioID = sc.ID
		w.Header().Set("X-Cache", "hit")
	} else {
		var err error
		set, err = h.planner.Run(r.Context(), sc)
		if err != nil {
			h.log.Errorf("plan scenario %s: %v", sc.ID, err)
			api.WriteJSON(w, http.StatusInternalServerError, api.ErrorBody{Error: err.Error()})
			return
		}
		h.cache.Add(fp, set)
		w.Header().Set("X-Cache", "miss")
	}

	if h.history != nil {
		if _, err := h.history.Save(r.Context(), history.Entry{Scenario: sc}); err != nil {
			h.log.Warnf("save scenario %s to history: %v", sc.ID, err)
		}
	}

	if r.URL.Query().Get("format") == "csv" {
		w.Header().Set("Content-Type", "text/csv")
		if err := export.WriteSummaryCSV(w, set.Plans); err != nil {
			h.log.Errorf("write summary: %v", err)
		}
		return
	}
	api.WriteJSON(w, http.StatusOK, set)
}

func (h *Handler) strategies(w http.ResponseWriter, _ *http.Request) {
	api.WriteJSON(w, http.StatusOK, h.planner.Strategies())
}

// details splits a joined validation error into its messages.
func details(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		out := make([]string, 0, len(joined.Unwrap()))
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return strings.Split(err.Error(), "\n")
}
