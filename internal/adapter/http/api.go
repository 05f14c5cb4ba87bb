package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/couchcryptid/covid-tracker-service/internal/adapter/chart"
	"github.com/couchcryptid/covid-tracker-service/internal/dashboard"
	"github.com/couchcryptid/covid-tracker-service/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// viewQuery is the user's selection as sent in query parameters. Empty
// fields fall back to the default view.
type viewQuery struct {
	Region string `validate:"omitempty,max=32"`
	Metric string `validate:"omitempty,oneof=positive negative death"`
	Window string `validate:"omitempty,oneof=week month max"`
}

type scrubQuery struct {
	Index int `validate:"gte=0"`
}

func parseViewQuery(r *http.Request) (domain.ViewState, error) {
	q := r.URL.Query()
	vq := viewQuery{
		Region: strings.TrimSpace(q.Get("region")),
		Metric: strings.ToLower(strings.TrimSpace(q.Get("metric"))),
		Window: strings.ToLower(strings.TrimSpace(q.Get("window"))),
	}
	if err := validate.Struct(vq); err != nil {
		return domain.ViewState{}, fmt.Errorf("validation error: %w", err)
	}
	return vq.state()
}

func (q viewQuery) state() (domain.ViewState, error) {
	state := domain.DefaultViewState()
	if q.Region != "" {
		state.Region = q.Region
	}
	if q.Metric != "" {
		m, err := domain.ParseMetric(q.Metric)
		if err != nil {
			return domain.ViewState{}, err
		}
		state.Metric = m
	}
	if q.Window != "" {
		w, err := domain.ParseWindow(q.Window)
		if err != nil {
			return domain.ViewState{}, err
		}
		state.Window = w
	}
	return state, nil
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.dashboard.Regions())
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	state, err := parseViewQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	v, err := s.dashboard.View(state)
	if err != nil {
		s.writeDashboardError(w, err)
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, v)
}

func (s *Server) handleScrub(w http.ResponseWriter, r *http.Request) {
	state, err := parseViewQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	if err := validate.Struct(scrubQuery{Index: index}); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("validation error: %v", err))
		return
	}

	h, ok, err := s.dashboard.Scrub(state, index)
	if err != nil {
		s.writeDashboardError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no point at index %d", index))
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, h)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	state, err := parseViewQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	v, err := s.dashboard.View(state)
	if err != nil {
		s.writeDashboardError(w, err)
		return
	}

	img, err := s.charts.Render(v)
	if errors.Is(err, chart.ErrNoData) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("chart render failed", "error", err, "view", v.Key())
		writeError(w, http.StatusInternalServerError, "chart render failed")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("ETag", strconv.Quote(v.Key()))
	w.WriteHeader(http.StatusOK)
	w.Write(img) //nolint:errcheck // client disconnects are not actionable
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	sharedobs.WriteJSON(w, http.StatusOK, s.dashboard.Status())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.dashboard.Refresh(r.Context()); err != nil {
		sharedobs.WriteJSON(w, http.StatusBadGateway, map[string]any{
			"error":  err.Error(),
			"status": s.dashboard.Status(),
		})
		return
	}
	sharedobs.WriteJSON(w, http.StatusOK, s.dashboard.Status())
}

func (s *Server) writeDashboardError(w http.ResponseWriter, err error) {
	if errors.Is(err, dashboard.ErrNotReady) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	s.logger.Error("dashboard error", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}
