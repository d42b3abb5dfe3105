package handlers

import (
	"log/slog"
	"net/http"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/Dosada05/swiss-tournament/services"
)

// SwissHandler serves standings, byes, pairings and results of one tournament.
type SwissHandler struct {
	swissService services.SwissService
	responder
}

func NewSwissHandler(ss services.SwissService, logger *slog.Logger) *SwissHandler {
	return &SwissHandler{
		swissService: ss,
		responder:    responder{logger: logger},
	}
}

func (h *SwissHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	standings, err := h.swissService.PlayerStandings(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeOK(w, r, http.StatusOK, jsonResponse{"standings": standings})
}

// AssignByeHandler handles POST /tournaments/{tournamentID}/bye
func (h *SwissHandler) AssignByeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	round, err := h.swissService.AssignBye(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeOK(w, r, http.StatusOK, jsonResponse{"round": round})
}

// PairingsHandler handles POST /tournaments/{tournamentID}/pairings
func (h *SwissHandler) PairingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	round, err := h.swissService.SwissPairings(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeOK(w, r, http.StatusOK, jsonResponse{"round": round})
}

// ReportMatchHandler handles POST /tournaments/{tournamentID}/matches
func (h *SwissHandler) ReportMatchHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	var input models.MatchResult
	if err := readJSON(w, r, &input); err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	match, err := h.swissService.ReportMatch(r.Context(), id, input)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeOK(w, r, http.StatusCreated, jsonResponse{"match": match})
}

func (h *SwissHandler) ListMatchesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		h.badRequestResponse(w, r, err)
		return
	}

	matches, err := h.swissService.ListMatches(r.Context(), id)
	if err != nil {
		h.mapServiceErrorToHTTP(w, r, err)
		return
	}
	h.writeOK(w, r, http.StatusOK, jsonResponse{"matches": matches})
}
