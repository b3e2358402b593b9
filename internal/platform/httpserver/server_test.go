package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	electionengine "ballotbox/contexts/elections/election-engine"
	electionhttp "ballotbox/contexts/elections/election-engine/transport/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return New(electionengine.NewInMemoryModule(nil), nil, "")
}

func doJSON(t *testing.T, srv *Server, method, path, userID string, body any, out any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if out != nil && rec.Code < http.StatusMultipleChoices {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(out))
	}
	return rec
}

func seedElectionOverHTTP(t *testing.T, srv *Server, allowedVoters ...string) (electionID string, pluralityBallotID string, candidateIDs []string) {
	t.Helper()
	now := time.Now().UTC()

	var election electionhttp.ElectionResponse
	rec := doJSON(t, srv, http.MethodPost, "/api/elections", "", electionhttp.CreateElectionRequest{
		Name:          "Board 2026",
		VoteStart:     now.Add(-time.Hour),
		VoteEnd:       now.Add(time.Hour),
		AllowedVoters: allowedVoters,
	}, &election)
	require.Equal(t, http.StatusCreated, rec.Code)

	var ballot electionhttp.BallotResponse
	rec = doJSON(t, srv, http.MethodPost, "/api/elections/"+election.ElectionID+"/ballots", "", electionhttp.CreateBallotRequest{
		Method:         "plurality",
		SeatsAvailable: 2,
	}, &ballot)
	require.Equal(t, http.StatusCreated, rec.Code)

	names := []string{"Ada", "Grace"}
	for _, name := range names {
		var candidate electionhttp.CandidateResponse
		rec = doJSON(t, srv, http.MethodPost, "/api/ballots/"+ballot.BallotID+"/candidates", "", electionhttp.CreateCandidateRequest{
			FirstName: name,
			LastName:  "Candidate",
		}, &candidate)
		require.Equal(t, http.StatusCreated, rec.Code)
		candidateIDs = append(candidateIDs, candidate.CandidateID)
	}
	return election.ElectionID, ballot.BallotID, candidateIDs
}

func TestVoteFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	electionID, ballotID, candidateIDs := seedElectionOverHTTP(t, srv)

	var eligibility electionhttp.EligibilityResponse
	rec := doJSON(t, srv, http.MethodGet, "/api/elections/"+electionID+"/eligibility", "acct-1", nil, &eligibility)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, eligibility.WindowOpen)
	assert.True(t, eligibility.Allowed)

	var vote electionhttp.VoteResponse
	rec = doJSON(t, srv, http.MethodPost, "/api/elections/"+electionID+"/votes", "acct-1", electionhttp.CastVoteRequest{
		Selections: []electionhttp.VoteSelection{
			{CandidateID: candidateIDs[0], Variant: "plurality"},
		},
	}, &vote)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, electionID, vote.ElectionID)
	assert.False(t, vote.Anonymous)
	require.Len(t, vote.Entries, 1)
	assert.Zero(t, vote.Entries[0].Points)

	rec = doJSON(t, srv, http.MethodGet, "/api/elections/"+electionID+"/eligibility", "acct-1", nil, &eligibility)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, eligibility.HasVoted)
	assert.False(t, eligibility.Allowed)

	var stats electionhttp.StatisticsResponse
	rec = doJSON(t, srv, http.MethodGet, "/api/elections/"+electionID+"/statistics", "", nil, &stats)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, stats.Rows, 1)
	assert.Equal(t, []int{1, 0}, stats.Rows[0].Points)

	var ballotStats electionhttp.BallotStatsResponse
	rec = doJSON(t, srv, http.MethodGet, "/api/ballots/"+ballotID+"/stats", "", nil, &ballotStats)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ballotStats.Items, 2)
	assert.Equal(t, 1, ballotStats.Items[0].Total)
	assert.Zero(t, ballotStats.Items[1].Total)

	var details electionhttp.VoteDetailsResponse
	rec = doJSON(t, srv, http.MethodGet, "/api/votes/"+vote.VoteID, "", nil, &details)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, details.Ballots, 1)
	require.Len(t, details.Ballots[0].Entries, 1)
	assert.Equal(t, candidateIDs[0], details.Ballots[0].Entries[0].CandidateID)
}

func TestCastVoteRequiresUserHeader(t *testing.T) {
	srv := newTestServer(t)
	electionID, _, candidateIDs := seedElectionOverHTTP(t, srv)

	var errResp electionhttp.ErrorResponse
	rec := doJSON(t, srv, http.MethodPost, "/api/elections/"+electionID+"/votes", "", electionhttp.CastVoteRequest{
		Selections: []electionhttp.VoteSelection{{CandidateID: candidateIDs[0], Variant: "plurality"}},
	}, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "missing_user", errResp.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/elections/"+electionID+"/eligibility", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSecondVoteIsForbidden(t *testing.T) {
	srv := newTestServer(t)
	electionID, _, candidateIDs := seedElectionOverHTTP(t, srv)

	body := electionhttp.CastVoteRequest{
		Selections: []electionhttp.VoteSelection{{CandidateID: candidateIDs[0], Variant: "plurality"}},
	}
	rec := doJSON(t, srv, http.MethodPost, "/api/elections/"+electionID+"/votes", "acct-1", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/elections/"+electionID+"/votes", "acct-1", body, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var errResp electionhttp.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "voting_not_allowed", errResp.Code)
}

func TestVoterOffAllowListIsForbidden(t *testing.T) {
	srv := newTestServer(t)
	electionID, _, candidateIDs := seedElectionOverHTTP(t, srv, "acct-1")

	rec := doJSON(t, srv, http.MethodPost, "/api/elections/"+electionID+"/votes", "acct-9", electionhttp.CastVoteRequest{
		Selections: []electionhttp.VoteSelection{{CandidateID: candidateIDs[0], Variant: "plurality"}},
	}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVariantMismatchIsUnprocessable(t *testing.T) {
	srv := newTestServer(t)
	electionID, _, candidateIDs := seedElectionOverHTTP(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/elections/"+electionID+"/votes", "acct-1", electionhttp.CastVoteRequest{
		Selections: []electionhttp.VoteSelection{{CandidateID: candidateIDs[0], Variant: "preferential", Points: 2}},
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDisassociateOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	electionID, _, candidateIDs := seedElectionOverHTTP(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/elections/"+electionID+"/votes", "acct-1", electionhttp.CastVoteRequest{
		Selections: []electionhttp.VoteSelection{{CandidateID: candidateIDs[0], Variant: "plurality"}},
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/elections/"+electionID+"/disassociate", "", electionhttp.DisassociateRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp electionhttp.DisassociateResponse
	rec = doJSON(t, srv, http.MethodPost, "/api/elections/"+electionID+"/disassociate", "", electionhttp.DisassociateRequest{Confirm: true}, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), resp.VotesCleared)

	// Tallies survive, the voter link does not.
	var stats electionhttp.StatisticsResponse
	rec = doJSON(t, srv, http.MethodGet, "/api/elections/"+electionID+"/statistics", "", nil, &stats)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, stats.Rows, 1)
	assert.True(t, stats.Rows[0].Anonymous)

	var eligibility electionhttp.EligibilityResponse
	rec = doJSON(t, srv, http.MethodGet, "/api/elections/"+electionID+"/eligibility", "acct-1", nil, &eligibility)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, eligibility.HasVoted)
}

func TestUnknownElectionIsNotFound(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/elections/missing", "", nil, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var errResp electionhttp.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "election_not_found", errResp.Code)
}

func TestLatestElectionOverHTTP(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/elections/latest", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	electionID, _, _ := seedElectionOverHTTP(t, srv)

	var detail electionhttp.ElectionDetailResponse
	rec = doJSON(t, srv, http.MethodGet, "/api/elections/latest", "", nil, &detail)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, electionID, detail.Election.ElectionID)
	require.Len(t, detail.Ballots, 1)
	assert.Len(t, detail.Ballots[0].Candidates, 2)
}

func TestAddVotersReturnsNoContent(t *testing.T) {
	srv := newTestServer(t)
	electionID, _, _ := seedElectionOverHTTP(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/elections/"+electionID+"/voters", "", electionhttp.AddVotersRequest{
		AccountIDs: []string{"acct-1", "acct-2"},
	}, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/elections", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp electionhttp.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "invalid_json", errResp.Code)
}

func TestBiographiesOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	electionID, ballotID, _ := seedElectionOverHTTP(t, srv)

	rec := doJSON(t, srv, http.MethodPost, "/api/ballots/"+ballotID+"/candidates", "", electionhttp.CreateCandidateRequest{
		FirstName: "Edsger",
		LastName:  "Dijkstra",
		Biography: "Known for shortest paths.",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp electionhttp.BiographiesResponse
	rec = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/elections/%s/biographies", electionID), "", nil, &resp)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, resp.Ballots, 1)
	require.Len(t, resp.Ballots[0].Candidates, 1)
	assert.Equal(t, "Edsger Dijkstra", resp.Ballots[0].Candidates[0].DisplayName)
}
