package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type CreateElectionRequest struct {
	Name          string    `json:"name"`
	Introduction  string    `json:"introduction,omitempty"`
	VoteStart     time.Time `json:"vote_start"`
	VoteEnd       time.Time `json:"vote_end"`
	AllowedVoters []string  `json:"allowed_voters,omitempty"`
}

type ElectionResponse struct {
	ElectionID   string    `json:"election_id"`
	Name         string    `json:"name"`
	Introduction string    `json:"introduction,omitempty"`
	VoteStart    time.Time `json:"vote_start"`
	VoteEnd      time.Time `json:"vote_end"`
}

type ElectionDetailResponse struct {
	Election ElectionResponse          `json:"election"`
	Ballots  []BallotCandidatesSection `json:"ballots"`
}

type CreateBallotRequest struct {
	Method         string `json:"method"`
	SeatsAvailable int    `json:"seats_available"`
	Description    string `json:"description,omitempty"`
}

type BallotResponse struct {
	BallotID       string `json:"ballot_id"`
	ElectionID     string `json:"election_id"`
	Method         string `json:"method"`
	SeatsAvailable int    `json:"seats_available"`
	Description    string `json:"description,omitempty"`
}

type CreateCandidateRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Institution string `json:"institution,omitempty"`
	Incumbent   bool   `json:"incumbent,omitempty"`
	WriteIn     bool   `json:"write_in,omitempty"`
	Biography   string `json:"biography,omitempty"`
}

type CandidateResponse struct {
	CandidateID string `json:"candidate_id"`
	BallotID    string `json:"ballot_id"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Institution string `json:"institution,omitempty"`
	Incumbent   bool   `json:"incumbent,omitempty"`
	WriteIn     bool   `json:"write_in,omitempty"`
	Biography   string `json:"biography,omitempty"`
	DisplayName string `json:"display_name"`
}

type BallotCandidatesSection struct {
	Ballot     BallotResponse      `json:"ballot"`
	Candidates []CandidateResponse `json:"candidates"`
}

type AddVotersRequest struct {
	AccountIDs []string `json:"account_ids"`
}

type EligibilityResponse struct {
	WindowOpen bool `json:"window_open"`
	OnList     bool `json:"on_list"`
	HasVoted   bool `json:"has_voted"`
	Allowed    bool `json:"allowed"`
}

type VoteSelection struct {
	CandidateID string `json:"candidate_id"`
	Variant     string `json:"variant"`
	Points      int    `json:"points,omitempty"`
}

type CastVoteRequest struct {
	Selections []VoteSelection `json:"selections"`
}

type VoteEntryResponse struct {
	EntryID     string `json:"entry_id"`
	CandidateID string `json:"candidate_id"`
	Variant     string `json:"variant"`
	Points      int    `json:"points"`
}

type VoteResponse struct {
	VoteID     string              `json:"vote_id"`
	ElectionID string              `json:"election_id"`
	Anonymous  bool                `json:"anonymous"`
	CreatedAt  time.Time           `json:"created_at"`
	Entries    []VoteEntryResponse `json:"entries"`
}

type DisassociateRequest struct {
	Confirm bool `json:"confirm"`
}

type DisassociateResponse struct {
	ElectionID   string `json:"election_id"`
	VotesCleared int64  `json:"votes_cleared"`
}

type VoteTallyRowResponse struct {
	VoteID    string `json:"vote_id"`
	Anonymous bool   `json:"anonymous"`
	Points    []int  `json:"points"`
}

type StatisticsResponse struct {
	ElectionID string                 `json:"election_id"`
	Ballots    []BallotResponse       `json:"ballots"`
	Candidates []CandidateResponse    `json:"candidates"`
	Rows       []VoteTallyRowResponse `json:"rows"`
}

type SpreadsheetResponse struct {
	ElectionID string                    `json:"election_id"`
	Ballots    []BallotCandidatesSection `json:"ballots"`
	Rows       []VoteTallyRowResponse    `json:"rows"`
}

type BiographiesResponse struct {
	ElectionID string                    `json:"election_id"`
	Ballots    []BallotCandidatesSection `json:"ballots"`
}

type CandidateStatResponse struct {
	Candidate CandidateResponse `json:"candidate"`
	Total     int               `json:"total"`
}

type BallotStatsResponse struct {
	BallotID      string                  `json:"ballot_id"`
	Method        string                  `json:"method"`
	HasIncumbents bool                    `json:"has_incumbents"`
	Items         []CandidateStatResponse `json:"items"`
}

type VoteBallotEntries struct {
	Ballot  BallotResponse      `json:"ballot"`
	Entries []VoteEntryResponse `json:"entries"`
}

type VoteDetailsResponse struct {
	VoteID     string              `json:"vote_id"`
	ElectionID string              `json:"election_id"`
	Anonymous  bool                `json:"anonymous"`
	CreatedAt  time.Time           `json:"created_at"`
	Ballots    []VoteBallotEntries `json:"ballots"`
}
