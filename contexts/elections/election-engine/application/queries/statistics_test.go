package queries

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ballotbox/contexts/elections/election-engine/adapters/memory"
	"ballotbox/contexts/elections/election-engine/domain/entities"
	domainerrors "ballotbox/contexts/elections/election-engine/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStatisticsUseCase(store *memory.Store) StatisticsUseCase {
	return StatisticsUseCase{
		Elections: store,
		Votes:     store,
	}
}

func seedElection(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SaveElection(ctx, entities.Election{
		ElectionID: "e1",
		Name:       "Council 2026",
		VoteStart:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		VoteEnd:    time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
	}))
}

func castVote(t *testing.T, store *memory.Store, voteID string, accountID string, entries ...entities.VoteEntry) {
	t.Helper()
	for i := range entries {
		entries[i].EntryID = fmt.Sprintf("%s-en%d", voteID, i)
		entries[i].VoteID = voteID
	}
	require.NoError(t, store.CreateVote(context.Background(), entities.Vote{
		VoteID:     voteID,
		ElectionID: "e1",
		AccountID:  accountID,
	}, entries))
}

func statTotals(stats []entities.CandidateStat) []int {
	totals := make([]int, 0, len(stats))
	for _, stat := range stats {
		totals = append(totals, stat.Total)
	}
	return totals
}

func TestCandidateStatsPluralityTally(t *testing.T) {
	store := memory.NewStore()
	seedElection(t, store)
	ctx := context.Background()
	require.NoError(t, store.SaveBallot(ctx, entities.Ballot{BallotID: "b1", ElectionID: "e1", Method: entities.MethodPlurality, SeatsAvailable: 6}))
	for _, id := range []string{"c1", "c2", "c3"} {
		require.NoError(t, store.SaveCandidate(ctx, entities.Candidate{CandidateID: id, BallotID: "b1"}))
	}
	uc := newStatisticsUseCase(store)

	castVote(t, store, "v1", "acct-1", entities.VoteEntry{CandidateID: "c1", Variant: entities.MethodPlurality})

	stats, err := uc.CandidateStats(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 0, 0}, statTotals(stats))

	castVote(t, store, "v2", "acct-2",
		entities.VoteEntry{CandidateID: "c2", Variant: entities.MethodPlurality},
		entities.VoteEntry{CandidateID: "c3", Variant: entities.MethodPlurality},
	)

	stats, err = uc.CandidateStats(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 1}, statTotals(stats))
}

func TestCandidateStatsPreferentialTally(t *testing.T) {
	store := memory.NewStore()
	seedElection(t, store)
	ctx := context.Background()
	require.NoError(t, store.SaveBallot(ctx, entities.Ballot{BallotID: "b1", ElectionID: "e1", Method: entities.MethodPreferential, SeatsAvailable: 1}))
	require.NoError(t, store.SaveCandidate(ctx, entities.Candidate{CandidateID: "c1", BallotID: "b1"}))
	require.NoError(t, store.SaveCandidate(ctx, entities.Candidate{CandidateID: "c2", BallotID: "b1"}))
	uc := newStatisticsUseCase(store)

	castVote(t, store, "v1", "acct-1", entities.VoteEntry{CandidateID: "c1", Variant: entities.MethodPreferential, Points: 2})

	stats, err := uc.CandidateStats(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, statTotals(stats))

	castVote(t, store, "v2", "acct-2",
		entities.VoteEntry{CandidateID: "c1", Variant: entities.MethodPreferential, Points: 1},
		entities.VoteEntry{CandidateID: "c2", Variant: entities.MethodPreferential, Points: 2},
	)

	stats, err = uc.CandidateStats(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 2}, statTotals(stats))
}

func TestCandidateStatsIdempotentReads(t *testing.T) {
	store := memory.NewStore()
	seedElection(t, store)
	ctx := context.Background()
	require.NoError(t, store.SaveBallot(ctx, entities.Ballot{BallotID: "b1", ElectionID: "e1", Method: entities.MethodPlurality, SeatsAvailable: 1}))
	require.NoError(t, store.SaveCandidate(ctx, entities.Candidate{CandidateID: "c1", BallotID: "b1"}))
	castVote(t, store, "v1", "acct-1", entities.VoteEntry{CandidateID: "c1", Variant: entities.MethodPlurality})
	uc := newStatisticsUseCase(store)

	first, err := uc.CandidateStats(ctx, "b1")
	require.NoError(t, err)
	second, err := uc.CandidateStats(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func seedMixedBallots(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SaveBallot(ctx, entities.Ballot{BallotID: "b-plu", ElectionID: "e1", Method: entities.MethodPlurality, SeatsAvailable: 2}))
	require.NoError(t, store.SaveBallot(ctx, entities.Ballot{BallotID: "b-pref", ElectionID: "e1", Method: entities.MethodPreferential, SeatsAvailable: 1}))
	for _, id := range []string{"pl-c1", "pl-c2", "pl-c3"} {
		require.NoError(t, store.SaveCandidate(ctx, entities.Candidate{CandidateID: id, BallotID: "b-plu"}))
	}
	for _, id := range []string{"pr-c1", "pr-c2"} {
		require.NoError(t, store.SaveCandidate(ctx, entities.Candidate{CandidateID: id, BallotID: "b-pref"}))
	}
}

func TestFullStatisticsMixedBallots(t *testing.T) {
	store := memory.NewStore()
	seedElection(t, store)
	seedMixedBallots(t, store)
	uc := newStatisticsUseCase(store)
	ctx := context.Background()

	castVote(t, store, "v1", "acct-1",
		entities.VoteEntry{CandidateID: "pl-c1", Variant: entities.MethodPlurality},
		entities.VoteEntry{CandidateID: "pr-c1", Variant: entities.MethodPreferential, Points: 2},
		entities.VoteEntry{CandidateID: "pr-c2", Variant: entities.MethodPreferential, Points: 3},
	)

	stats, err := uc.FullStatistics(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, stats.Rows, 1)
	assert.Equal(t, "v1", stats.Rows[0].Vote.VoteID)
	assert.Equal(t, []int{1, 0, 0, 2, 3}, stats.Rows[0].Points)

	ballotIDs := make([]string, 0, len(stats.Ballots))
	for _, ballot := range stats.Ballots {
		ballotIDs = append(ballotIDs, ballot.BallotID)
	}
	candidateIDs := make([]string, 0, len(stats.Candidates))
	for _, candidate := range stats.Candidates {
		candidateIDs = append(candidateIDs, candidate.CandidateID)
	}
	assert.Equal(t, []string{"b-plu", "b-pref"}, ballotIDs)
	assert.Equal(t, []string{"pl-c1", "pl-c2", "pl-c3", "pr-c1", "pr-c2"}, candidateIDs)

	castVote(t, store, "v2", "acct-2",
		entities.VoteEntry{CandidateID: "pl-c3", Variant: entities.MethodPlurality},
		entities.VoteEntry{CandidateID: "pl-c2", Variant: entities.MethodPlurality},
		entities.VoteEntry{CandidateID: "pr-c1", Variant: entities.MethodPreferential, Points: 3},
	)

	after, err := uc.FullStatistics(ctx, "e1")
	require.NoError(t, err)
	// Ballot and candidate lists are stable; new votes only append rows.
	assert.Equal(t, stats.Ballots, after.Ballots)
	assert.Equal(t, stats.Candidates, after.Candidates)
	require.Len(t, after.Rows, 2)
	assert.Equal(t, []int{1, 0, 0, 2, 3}, after.Rows[0].Points)
	assert.Equal(t, "v2", after.Rows[1].Vote.VoteID)
	assert.Equal(t, []int{0, 1, 1, 3, 0}, after.Rows[1].Points)
}

func TestVoteDetailsGroupsEntriesByBallot(t *testing.T) {
	store := memory.NewStore()
	seedElection(t, store)
	seedMixedBallots(t, store)
	uc := newStatisticsUseCase(store)
	ctx := context.Background()

	castVote(t, store, "v1", "acct-1",
		entities.VoteEntry{CandidateID: "pr-c2", Variant: entities.MethodPreferential, Points: 1},
	)

	vote, details, err := uc.VoteDetails(ctx, "v1")
	require.NoError(t, err)
	assert.Equal(t, "v1", vote.VoteID)
	require.Len(t, details, 2)
	// Skipped ballots still appear, with no entries.
	assert.Equal(t, "b-plu", details[0].Ballot.BallotID)
	assert.Empty(t, details[0].Entries)
	assert.Equal(t, "b-pref", details[1].Ballot.BallotID)
	require.Len(t, details[1].Entries, 1)
	assert.Equal(t, "pr-c2", details[1].Entries[0].CandidateID)
}

func TestSpreadsheetMatchesFullStatisticsRows(t *testing.T) {
	store := memory.NewStore()
	seedElection(t, store)
	seedMixedBallots(t, store)
	uc := newStatisticsUseCase(store)
	ctx := context.Background()

	castVote(t, store, "v1", "acct-1",
		entities.VoteEntry{CandidateID: "pl-c2", Variant: entities.MethodPlurality},
		entities.VoteEntry{CandidateID: "pr-c1", Variant: entities.MethodPreferential, Points: 2},
	)

	data, err := uc.Spreadsheet(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, data.Ballots, 2)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, []int{0, 1, 0, 2, 0}, data.Rows[0].Points)
}

func TestBiographiesFiltersCandidatesWithoutBios(t *testing.T) {
	store := memory.NewStore()
	seedElection(t, store)
	ctx := context.Background()
	require.NoError(t, store.SaveBallot(ctx, entities.Ballot{BallotID: "b1", ElectionID: "e1", Method: entities.MethodPlurality, SeatsAvailable: 1}))
	require.NoError(t, store.SaveBallot(ctx, entities.Ballot{BallotID: "b2", ElectionID: "e1", Method: entities.MethodPlurality, SeatsAvailable: 1}))
	require.NoError(t, store.SaveCandidate(ctx, entities.Candidate{CandidateID: "c1", BallotID: "b1", Biography: "Founder of things."}))
	require.NoError(t, store.SaveCandidate(ctx, entities.Candidate{CandidateID: "c2", BallotID: "b1"}))
	require.NoError(t, store.SaveCandidate(ctx, entities.Candidate{CandidateID: "c3", BallotID: "b2"}))
	uc := newStatisticsUseCase(store)

	items, err := uc.Biographies(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, items, 1, "ballots without biographies are omitted")
	assert.Equal(t, "b1", items[0].Ballot.BallotID)
	require.Len(t, items[0].Candidates, 1)
	assert.Equal(t, "c1", items[0].Candidates[0].CandidateID)
}

func TestHasIncumbents(t *testing.T) {
	store := memory.NewStore()
	seedElection(t, store)
	ctx := context.Background()
	require.NoError(t, store.SaveBallot(ctx, entities.Ballot{BallotID: "b1", ElectionID: "e1", Method: entities.MethodPlurality, SeatsAvailable: 1}))
	require.NoError(t, store.SaveCandidate(ctx, entities.Candidate{CandidateID: "c1", BallotID: "b1"}))
	uc := newStatisticsUseCase(store)

	has, err := uc.HasIncumbents(ctx, "b1")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.SaveCandidate(ctx, entities.Candidate{CandidateID: "c2", BallotID: "b1", Incumbent: true}))
	has, err = uc.HasIncumbents(ctx, "b1")
	require.NoError(t, err)
	assert.True(t, has)
}

func TestLatestElection(t *testing.T) {
	store := memory.NewStore()
	uc := newStatisticsUseCase(store)
	ctx := context.Background()

	_, err := uc.LatestElection(ctx)
	assert.ErrorIs(t, err, domainerrors.ErrNoCurrentElection)

	require.NoError(t, store.SaveElection(ctx, entities.Election{
		ElectionID: "e-old",
		VoteStart:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.SaveElection(ctx, entities.Election{
		ElectionID: "e-new",
		VoteStart:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}))

	view, err := uc.LatestElection(ctx)
	require.NoError(t, err)
	assert.Equal(t, "e-new", view.Election.ElectionID)
}

func TestDisassociationPreservesStatistics(t *testing.T) {
	store := memory.NewStore()
	seedElection(t, store)
	seedMixedBallots(t, store)
	uc := newStatisticsUseCase(store)
	ctx := context.Background()

	castVote(t, store, "v1", "acct-1",
		entities.VoteEntry{CandidateID: "pl-c1", Variant: entities.MethodPlurality},
	)

	before, err := uc.FullStatistics(ctx, "e1")
	require.NoError(t, err)

	cleared, err := store.DisassociateAccounts(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), cleared)

	after, err := uc.FullStatistics(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, after.Rows, len(before.Rows))
	assert.Equal(t, before.Rows[0].Points, after.Rows[0].Points)
	assert.True(t, after.Rows[0].Vote.Anonymous())

	voted, err := store.HasVoted(ctx, "e1", "acct-1")
	require.NoError(t, err)
	assert.False(t, voted)
}
