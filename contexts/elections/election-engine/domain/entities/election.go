package entities

import (
	"strings"
	"time"
)

type BallotMethod string

const (
	MethodPlurality    BallotMethod = "plurality"
	MethodPreferential BallotMethod = "preferential"
)

func (m BallotMethod) Valid() bool {
	return m == MethodPlurality || m == MethodPreferential
}

type Election struct {
	ElectionID   string
	Name         string
	Introduction string
	VoteStart    time.Time
	VoteEnd      time.Time
	CreatedAt    time.Time
}

// VotingAllowed reports whether the vote window is open at the given instant.
// The window is start-inclusive and end-exclusive.
func (e Election) VotingAllowed(now time.Time) bool {
	return !now.Before(e.VoteStart) && now.Before(e.VoteEnd)
}

type Ballot struct {
	BallotID       string
	ElectionID     string
	Method         BallotMethod
	SeatsAvailable int
	Description    string
	CreatedAt      time.Time
}

type Candidate struct {
	CandidateID string
	BallotID    string
	FirstName   string
	LastName    string
	Institution string
	Incumbent   bool
	WriteIn     bool
	Biography   string
	CreatedAt   time.Time
}

func (c Candidate) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// DisplayName composes the listing form: incumbents carry a leading asterisk,
// write-ins are marked as such, otherwise the institution is appended.
func (c Candidate) DisplayName() string {
	name := c.FullName()
	if c.Incumbent {
		name = "*" + name
	}
	if c.WriteIn {
		return name + " (write-in)"
	}
	if c.Institution != "" {
		return name + " (" + c.Institution + ")"
	}
	return name
}

// Vote is one voter's submission for an election. AccountID is a weak
// reference: it is cleared by account disassociation and never restored.
type Vote struct {
	VoteID     string
	ElectionID string
	AccountID  string
	CreatedAt  time.Time
}

func (v Vote) Anonymous() bool {
	return v.AccountID == ""
}

type VoteEntry struct {
	EntryID     string
	VoteID      string
	CandidateID string
	Variant     BallotMethod
	Points      int
	CreatedAt   time.Time
}

// TallyValue is the entry's contribution to its candidate's total: one for a
// plurality selection, the recorded point value for a preferential one.
func (e VoteEntry) TallyValue() int {
	if e.Variant == MethodPreferential {
		return e.Points
	}
	return 1
}

// PointsForCandidates resolves the numeric value the entries recorded for each
// candidate, in the given candidate order. Unselected candidates yield zero.
// Candidates may span multiple ballots of mixed methods.
func PointsForCandidates(entries []VoteEntry, candidates []Candidate) []int {
	totals := make(map[string]int, len(entries))
	for _, entry := range entries {
		totals[entry.CandidateID] += entry.TallyValue()
	}
	points := make([]int, 0, len(candidates))
	for _, candidate := range candidates {
		points = append(points, totals[candidate.CandidateID])
	}
	return points
}

type CandidateStat struct {
	Candidate Candidate
	Total     int
}

type BallotCandidates struct {
	Ballot     Ballot
	Candidates []Candidate
}

type VoteDetail struct {
	Ballot  Ballot
	Entries []VoteEntry
}

type VoteTallyRow struct {
	Vote   Vote
	Points []int
}

type ElectionStatistics struct {
	Ballots    []Ballot
	Candidates []Candidate
	Rows       []VoteTallyRow
}
