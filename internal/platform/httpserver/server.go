package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	electionengine "ballotbox/contexts/elections/election-engine"
	electionerrors "ballotbox/contexts/elections/election-engine/domain/errors"
	electionhttp "ballotbox/contexts/elections/election-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "ballotbox/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	elections electionengine.Module
}

func New(elections electionengine.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		elections: elections,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the mux for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/elections", s.handleCreateElection)
	s.mux.HandleFunc("GET /api/elections/latest", s.handleLatestElection)
	s.mux.HandleFunc("GET /api/elections/{election_id}", s.handleGetElection)
	s.mux.HandleFunc("POST /api/elections/{election_id}/ballots", s.handleAddBallot)
	s.mux.HandleFunc("POST /api/ballots/{ballot_id}/candidates", s.handleAddCandidate)
	s.mux.HandleFunc("POST /api/elections/{election_id}/voters", s.handleAddVoters)
	s.mux.HandleFunc("GET /api/elections/{election_id}/eligibility", s.handleEligibility)
	s.mux.HandleFunc("POST /api/elections/{election_id}/votes", s.handleCastVote)
	s.mux.HandleFunc("POST /api/elections/{election_id}/disassociate", s.handleDisassociate)
	s.mux.HandleFunc("GET /api/elections/{election_id}/statistics", s.handleStatistics)
	s.mux.HandleFunc("GET /api/elections/{election_id}/spreadsheet", s.handleSpreadsheet)
	s.mux.HandleFunc("GET /api/elections/{election_id}/biographies", s.handleBiographies)
	s.mux.HandleFunc("GET /api/ballots/{ballot_id}/stats", s.handleBallotStats)
	s.mux.HandleFunc("GET /api/votes/{vote_id}", s.handleVoteDetails)
}

func (s *Server) handleCreateElection(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.CreateElectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.CreateElectionHandler(r.Context(), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleLatestElection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.LatestElectionHandler(r.Context())
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetElection(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.ElectionHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddBallot(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.CreateBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.AddBallotHandler(r.Context(), r.PathValue("election_id"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleAddCandidate(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.CreateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.AddCandidateHandler(r.Context(), r.PathValue("ballot_id"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleAddVoters(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.AddVotersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if err := s.elections.Handler.AddVotersHandler(r.Context(), r.PathValue("election_id"), req); err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleEligibility(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeElectionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}
	resp, err := s.elections.Handler.EligibilityHandler(r.Context(), r.PathValue("election_id"), userID)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastVote(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeElectionError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req electionhttp.CastVoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.CastVoteHandler(r.Context(), r.PathValue("election_id"), userID, req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleDisassociate(w http.ResponseWriter, r *http.Request) {
	var req electionhttp.DisassociateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeElectionError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.elections.Handler.DisassociateHandler(r.Context(), r.PathValue("election_id"), req)
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.StatisticsHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSpreadsheet(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.SpreadsheetHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBiographies(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.BiographiesHandler(r.Context(), r.PathValue("election_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBallotStats(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.BallotStatsHandler(r.Context(), r.PathValue("ballot_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoteDetails(w http.ResponseWriter, r *http.Request) {
	resp, err := s.elections.Handler.VoteDetailsHandler(r.Context(), r.PathValue("vote_id"))
	if err != nil {
		writeElectionDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeElectionDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, electionerrors.ErrVotingNotAllowed):
		writeElectionError(w, http.StatusForbidden, "voting_not_allowed", err.Error())
	case errors.Is(err, electionerrors.ErrDuplicateVote):
		writeElectionError(w, http.StatusConflict, "duplicate_vote", err.Error())
	case errors.Is(err, electionerrors.ErrBallotTypeMismatch):
		writeElectionError(w, http.StatusUnprocessableEntity, "ballot_type_mismatch", err.Error())
	case errors.Is(err, electionerrors.ErrEmptyVote):
		writeElectionError(w, http.StatusBadRequest, "empty_vote", err.Error())
	case errors.Is(err, electionerrors.ErrConfirmationRequired):
		writeElectionError(w, http.StatusBadRequest, "confirmation_required", err.Error())
	case errors.Is(err, electionerrors.ErrElectionNotFound):
		writeElectionError(w, http.StatusNotFound, "election_not_found", err.Error())
	case errors.Is(err, electionerrors.ErrNoCurrentElection):
		writeElectionError(w, http.StatusNotFound, "no_current_election", err.Error())
	case errors.Is(err, electionerrors.ErrBallotNotFound):
		writeElectionError(w, http.StatusNotFound, "ballot_not_found", err.Error())
	case errors.Is(err, electionerrors.ErrCandidateNotFound):
		writeElectionError(w, http.StatusNotFound, "candidate_not_found", err.Error())
	case errors.Is(err, electionerrors.ErrVoteNotFound):
		writeElectionError(w, http.StatusNotFound, "vote_not_found", err.Error())
	case errors.Is(err, electionerrors.ErrInvalidElectionInput),
		errors.Is(err, electionerrors.ErrInvalidBallotInput),
		errors.Is(err, electionerrors.ErrInvalidCandidateInput),
		errors.Is(err, electionerrors.ErrInvalidVoteInput):
		writeElectionError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, electionerrors.ErrConflict):
		writeElectionError(w, http.StatusConflict, "conflict", err.Error())
	default:
		writeElectionError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeElectionError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, electionhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
