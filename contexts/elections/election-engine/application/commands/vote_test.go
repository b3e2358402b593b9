package commands

import (
	"context"
	"testing"
	"time"

	"ballotbox/contexts/elections/election-engine/adapters/memory"
	"ballotbox/contexts/elections/election-engine/domain/entities"
	domainerrors "ballotbox/contexts/elections/election-engine/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time {
	return c.now
}

var testNow = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func newVoteUseCase(t *testing.T, store *memory.Store) VoteUseCase {
	t.Helper()
	return VoteUseCase{
		Elections: store,
		Votes:     store,
		Outbox:    store,
		Clock:     fixedClock{now: testNow},
		IDGen:     store,
	}
}

func seedOpenElection(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.SaveElection(ctx, entities.Election{
		ElectionID: "e1",
		Name:       "Board 2026",
		VoteStart:  testNow.Add(-time.Hour),
		VoteEnd:    testNow.Add(time.Hour),
	}))
	require.NoError(t, store.SaveBallot(ctx, entities.Ballot{
		BallotID:       "b-plu",
		ElectionID:     "e1",
		Method:         entities.MethodPlurality,
		SeatsAvailable: 1,
	}))
	require.NoError(t, store.SaveBallot(ctx, entities.Ballot{
		BallotID:       "b-pref",
		ElectionID:     "e1",
		Method:         entities.MethodPreferential,
		SeatsAvailable: 2,
	}))
	require.NoError(t, store.SaveCandidate(ctx, entities.Candidate{CandidateID: "c1", BallotID: "b-plu", FirstName: "Ada", LastName: "Lovelace"}))
	require.NoError(t, store.SaveCandidate(ctx, entities.Candidate{CandidateID: "c2", BallotID: "b-pref", FirstName: "Alan", LastName: "Turing"}))
}

func TestCheckEligibilityOpenToAllWhenNoAllowList(t *testing.T) {
	store := memory.NewStore()
	seedOpenElection(t, store)
	uc := newVoteUseCase(t, store)

	eligibility, err := uc.CheckEligibility(context.Background(), "e1", "anyone")
	require.NoError(t, err)
	assert.True(t, eligibility.WindowOpen)
	assert.True(t, eligibility.OnList)
	assert.False(t, eligibility.HasVoted)
	assert.True(t, eligibility.Allowed)
}

func TestCheckEligibilityAllowListMembership(t *testing.T) {
	store := memory.NewStore()
	seedOpenElection(t, store)
	require.NoError(t, store.AddAllowedVoters(context.Background(), "e1", []string{"acct-1"}))
	uc := newVoteUseCase(t, store)

	eligibility, err := uc.CheckEligibility(context.Background(), "e1", "acct-1")
	require.NoError(t, err)
	assert.True(t, eligibility.Allowed)

	eligibility, err = uc.CheckEligibility(context.Background(), "e1", "acct-2")
	require.NoError(t, err)
	assert.True(t, eligibility.WindowOpen)
	assert.False(t, eligibility.OnList)
	assert.False(t, eligibility.Allowed)
}

func TestCheckEligibilityClosedWindow(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.SaveElection(ctx, entities.Election{
		ElectionID: "e-past",
		VoteStart:  testNow.Add(-48 * time.Hour),
		VoteEnd:    testNow.Add(-24 * time.Hour),
	}))
	uc := newVoteUseCase(t, store)

	eligibility, err := uc.CheckEligibility(ctx, "e-past", "acct-1")
	require.NoError(t, err)
	assert.False(t, eligibility.WindowOpen)
	assert.False(t, eligibility.Allowed)
}

func TestCheckEligibilityRequiresAccount(t *testing.T) {
	store := memory.NewStore()
	seedOpenElection(t, store)
	uc := newVoteUseCase(t, store)

	_, err := uc.CheckEligibility(context.Background(), "e1", "  ")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidVoteInput)
}

func TestCastVoteRecordsEntries(t *testing.T) {
	store := memory.NewStore()
	seedOpenElection(t, store)
	uc := newVoteUseCase(t, store)
	ctx := context.Background()

	result, err := uc.CastVote(ctx, CastVoteCommand{
		ElectionID: "e1",
		AccountID:  "acct-1",
		Selections: []Selection{
			{CandidateID: "c1", Variant: entities.MethodPlurality, Points: 7},
			{CandidateID: "c2", Variant: entities.MethodPreferential, Points: 3},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "e1", result.Vote.ElectionID)
	assert.Equal(t, "acct-1", result.Vote.AccountID)
	assert.Equal(t, testNow, result.Vote.CreatedAt)
	require.Len(t, result.Entries, 2)
	// Plurality selections never carry points, whatever the caller sent.
	assert.Equal(t, 0, result.Entries[0].Points)
	assert.Equal(t, 3, result.Entries[1].Points)

	voted, err := store.HasVoted(ctx, "e1", "acct-1")
	require.NoError(t, err)
	assert.True(t, voted)

	pending, err := store.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "vote.recorded", pending[0].EventType)
	assert.Equal(t, "e1", pending[0].PartitionKey)
}

func TestCastVoteSecondAttemptRefused(t *testing.T) {
	store := memory.NewStore()
	seedOpenElection(t, store)
	uc := newVoteUseCase(t, store)
	ctx := context.Background()

	_, err := uc.CastVote(ctx, CastVoteCommand{
		ElectionID: "e1",
		AccountID:  "acct-1",
		Selections: []Selection{{CandidateID: "c1", Variant: entities.MethodPlurality}},
	})
	require.NoError(t, err)

	_, err = uc.CastVote(ctx, CastVoteCommand{
		ElectionID: "e1",
		AccountID:  "acct-1",
		Selections: []Selection{{CandidateID: "c1", Variant: entities.MethodPlurality}},
	})
	assert.ErrorIs(t, err, domainerrors.ErrVotingNotAllowed)
}

func TestCastVoteRejectsEmptySubmission(t *testing.T) {
	store := memory.NewStore()
	seedOpenElection(t, store)
	uc := newVoteUseCase(t, store)

	_, err := uc.CastVote(context.Background(), CastVoteCommand{
		ElectionID: "e1",
		AccountID:  "acct-1",
	})
	assert.ErrorIs(t, err, domainerrors.ErrEmptyVote)
}

func TestCastVoteRejectsVariantMismatch(t *testing.T) {
	store := memory.NewStore()
	seedOpenElection(t, store)
	uc := newVoteUseCase(t, store)

	_, err := uc.CastVote(context.Background(), CastVoteCommand{
		ElectionID: "e1",
		AccountID:  "acct-1",
		Selections: []Selection{{CandidateID: "c1", Variant: entities.MethodPreferential, Points: 2}},
	})
	assert.ErrorIs(t, err, domainerrors.ErrBallotTypeMismatch)
}

func TestCastVoteRejectsUnknownCandidate(t *testing.T) {
	store := memory.NewStore()
	seedOpenElection(t, store)
	uc := newVoteUseCase(t, store)

	_, err := uc.CastVote(context.Background(), CastVoteCommand{
		ElectionID: "e1",
		AccountID:  "acct-1",
		Selections: []Selection{{CandidateID: "ghost", Variant: entities.MethodPlurality}},
	})
	assert.ErrorIs(t, err, domainerrors.ErrCandidateNotFound)
}

func TestCastVoteRefusedOutsideWindow(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, store.SaveElection(ctx, entities.Election{
		ElectionID: "e-future",
		VoteStart:  testNow.Add(24 * time.Hour),
		VoteEnd:    testNow.Add(48 * time.Hour),
	}))
	uc := newVoteUseCase(t, store)

	_, err := uc.CastVote(ctx, CastVoteCommand{
		ElectionID: "e-future",
		AccountID:  "acct-1",
		Selections: []Selection{{CandidateID: "c1", Variant: entities.MethodPlurality}},
	})
	assert.ErrorIs(t, err, domainerrors.ErrVotingNotAllowed)
}

func TestDisassociateRequiresConfirmation(t *testing.T) {
	store := memory.NewStore()
	seedOpenElection(t, store)
	uc := newVoteUseCase(t, store)

	_, err := uc.DisassociateAccounts(context.Background(), DisassociateCommand{ElectionID: "e1"})
	assert.ErrorIs(t, err, domainerrors.ErrConfirmationRequired)
}

func TestDisassociateClearsAccountsAndKeepsCounts(t *testing.T) {
	store := memory.NewStore()
	seedOpenElection(t, store)
	uc := newVoteUseCase(t, store)
	ctx := context.Background()

	for _, account := range []string{"acct-1", "acct-2"} {
		_, err := uc.CastVote(ctx, CastVoteCommand{
			ElectionID: "e1",
			AccountID:  account,
			Selections: []Selection{{CandidateID: "c1", Variant: entities.MethodPlurality}},
		})
		require.NoError(t, err)
	}

	cleared, err := uc.DisassociateAccounts(ctx, DisassociateCommand{ElectionID: "e1", Confirm: true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), cleared)

	votes, err := store.ListVotes(ctx, "e1")
	require.NoError(t, err)
	require.Len(t, votes, 2)
	for _, vote := range votes {
		assert.True(t, vote.Anonymous())
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	assert.Equal(t, "accounts.disassociated", pending[2].EventType)
}
