package services

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/encryptogroup/dp-KRE/dataset"
)

// ResultsHandler serves recorded accuracy trials. Downstream plotting
// tools consume the records as opaque JSON; permissive CORS lets browser
// dashboards fetch them directly.
type ResultsHandler struct {
	store TrialStore
	log   *slog.Logger
}

// NewResultsHandler creates a handler backed by the given store.
func NewResultsHandler(store TrialStore, log *slog.Logger) *ResultsHandler {
	return &ResultsHandler{store: store, log: log}
}

// RegisterRoutes registers the results endpoints.
func (h *ResultsHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet},
		}))

		r.Get("/results", h.handleList)
		r.Get("/results/{statistic}", h.handleListByStatistic)
	})
}

func (h *ResultsHandler) handleList(w http.ResponseWriter, r *http.Request) {
	trials, err := h.store.ListTrials(r.Context(), "")
	if err != nil {
		h.log.Error("listing trials failed", "err", err)
		writeJSONError(w, http.StatusInternalServerError, "listing trials failed")
		return
	}
	writeJSON(w, http.StatusOK, trials)
}

func (h *ResultsHandler) handleListByStatistic(w http.ResponseWriter, r *http.Request) {
	stat, err := dataset.ParseStatistic(chi.URLParam(r, "statistic"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	trials, err := h.store.ListTrials(r.Context(), stat)
	if err != nil {
		h.log.Error("listing trials failed", "statistic", stat, "err", err)
		writeJSONError(w, http.StatusInternalServerError, "listing trials failed")
		return
	}
	writeJSON(w, http.StatusOK, trials)
}
