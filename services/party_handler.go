package services

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/encryptogroup/dp-KRE/metrics"
	"github.com/encryptogroup/dp-KRE/protocol"
)

// PartyHandler exposes a single in-process party over HTTP. The party's
// value stays inside the process; only comparison bits are served.
type PartyHandler struct {
	party  *protocol.LocalParty
	domain protocol.Domain
	log    *slog.Logger
}

// NewPartyHandler creates a handler for the given party.
func NewPartyHandler(party *protocol.LocalParty, domain protocol.Domain, log *slog.Logger) *PartyHandler {
	return &PartyHandler{party: party, domain: domain, log: log}
}

// RegisterRoutes registers the party endpoints.
func (h *PartyHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Recoverer)

	r.Post("/party/compare", h.handleCompare)
	r.Get("/party/info", h.handleInfo)
}

func (h *PartyHandler) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !h.domain.Contains(req.Threshold) {
		writeJSONError(w, http.StatusBadRequest, "threshold outside domain")
		return
	}

	bit, err := h.party.RespondToComparison(r.Context(), req.Round, req.Threshold)
	if err != nil {
		h.log.Warn("comparison failed", "round", req.Round, "err", err)
		writeJSONError(w, http.StatusServiceUnavailable, "comparison unavailable")
		return
	}

	metrics.IncComparisonsServed()
	writeJSON(w, http.StatusOK, CompareResponse{Bit: bit})
}

func (h *PartyHandler) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, PartyInfoResponse{ID: h.party.ID(), Bits: h.domain.Bits})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
