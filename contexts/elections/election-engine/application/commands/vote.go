package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "ballotbox/contexts/elections/election-engine/application"
	"ballotbox/contexts/elections/election-engine/domain/entities"
	domainerrors "ballotbox/contexts/elections/election-engine/domain/errors"
	"ballotbox/contexts/elections/election-engine/ports"
)

// Selection is one candidate pick inside a cast. Points is meaningful for
// preferential selections only; its range is deliberately unconstrained here
// and left to the submitting workflow.
type Selection struct {
	CandidateID string
	Variant     entities.BallotMethod
	Points      int
}

type CastVoteCommand struct {
	ElectionID string
	AccountID  string
	Selections []Selection
}

type CastVoteResult struct {
	Vote    entities.Vote
	Entries []entities.VoteEntry
}

type DisassociateCommand struct {
	ElectionID string
	Confirm    bool
}

// Eligibility is the gate result the voting workflow renders from.
type Eligibility struct {
	WindowOpen bool
	OnList     bool
	HasVoted   bool
	Allowed    bool
}

// VoteUseCase owns the eligibility/vote-recording state machine: it decides
// whether an account may cast, records the vote and its entries atomically,
// and performs account disassociation.
type VoteUseCase struct {
	Elections ports.ElectionRepository
	Votes     ports.VoteRepository
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

// CheckEligibility evaluates the voting gate for an account without writing
// anything: window open, allow-list membership (an empty list admits every
// account), and not having voted yet.
func (uc VoteUseCase) CheckEligibility(ctx context.Context, electionID string, accountID string) (Eligibility, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return Eligibility{}, domainerrors.ErrInvalidVoteInput
	}
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return Eligibility{}, err
	}
	return uc.eligibilityFor(ctx, election, accountID)
}

// CastVote validates eligibility and every selection, then records the vote
// and all entries as one transaction. The storage layer's uniqueness guarantee
// on (election, account) closes the race two concurrent casts would otherwise
// win together; the loser surfaces ErrDuplicateVote.
func (uc VoteUseCase) CastVote(ctx context.Context, cmd CastVoteCommand) (CastVoteResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	accountID := strings.TrimSpace(cmd.AccountID)
	if accountID == "" {
		return CastVoteResult{}, domainerrors.ErrInvalidVoteInput
	}

	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(cmd.ElectionID))
	if err != nil {
		return CastVoteResult{}, err
	}
	eligibility, err := uc.eligibilityFor(ctx, election, accountID)
	if err != nil {
		return CastVoteResult{}, err
	}
	if !eligibility.Allowed {
		logger.Warn("vote cast refused",
			"event", "vote_cast_refused",
			"module", "elections/election-engine",
			"layer", "application",
			"election_id", election.ElectionID,
			"account_id", accountID,
			"window_open", eligibility.WindowOpen,
			"on_list", eligibility.OnList,
			"has_voted", eligibility.HasVoted,
		)
		return CastVoteResult{}, domainerrors.ErrVotingNotAllowed
	}
	if len(cmd.Selections) == 0 {
		return CastVoteResult{}, domainerrors.ErrEmptyVote
	}

	ballots, err := uc.Elections.ListBallots(ctx, election.ElectionID)
	if err != nil {
		return CastVoteResult{}, err
	}
	ballotsByID := make(map[string]entities.Ballot, len(ballots))
	for _, ballot := range ballots {
		ballotsByID[ballot.BallotID] = ballot
	}
	candidates, err := uc.Elections.ListElectionCandidates(ctx, election.ElectionID)
	if err != nil {
		return CastVoteResult{}, err
	}
	candidatesByID := make(map[string]entities.Candidate, len(candidates))
	for _, candidate := range candidates {
		candidatesByID[candidate.CandidateID] = candidate
	}

	now := uc.now()
	voteID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return CastVoteResult{}, err
	}
	vote := entities.Vote{
		VoteID:     voteID,
		ElectionID: election.ElectionID,
		AccountID:  accountID,
		CreatedAt:  now,
	}

	entries := make([]entities.VoteEntry, 0, len(cmd.Selections))
	for _, selection := range cmd.Selections {
		candidate, ok := candidatesByID[strings.TrimSpace(selection.CandidateID)]
		if !ok {
			return CastVoteResult{}, domainerrors.ErrCandidateNotFound
		}
		ballot := ballotsByID[candidate.BallotID]
		if selection.Variant != ballot.Method {
			return CastVoteResult{}, domainerrors.ErrBallotTypeMismatch
		}
		points := 0
		if ballot.Method == entities.MethodPreferential {
			points = selection.Points
		}
		entryID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return CastVoteResult{}, err
		}
		entries = append(entries, entities.VoteEntry{
			EntryID:     entryID,
			VoteID:      vote.VoteID,
			CandidateID: candidate.CandidateID,
			Variant:     ballot.Method,
			Points:      points,
			CreatedAt:   now,
		})
	}

	if err := uc.Votes.CreateVote(ctx, vote, entries); err != nil {
		return CastVoteResult{}, err
	}
	if err := uc.appendEvent(ctx, "vote.recorded", election.ElectionID, now, map[string]any{
		"vote_id":     vote.VoteID,
		"election_id": election.ElectionID,
		"entry_count": len(entries),
		"occurred_at": now.Format(time.RFC3339),
	}); err != nil {
		return CastVoteResult{}, err
	}

	logger.Info("vote recorded",
		"event", "vote_recorded",
		"module", "elections/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"vote_id", vote.VoteID,
		"entry_count", len(entries),
	)
	return CastVoteResult{Vote: vote, Entries: entries}, nil
}

// DisassociateAccounts irreversibly severs every vote of the election from
// the account that cast it. Entries and vote counts are untouched; the
// operation runs as one transaction so statistics readers never observe a
// half-anonymized election.
func (uc VoteUseCase) DisassociateAccounts(ctx context.Context, cmd DisassociateCommand) (int64, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.Confirm {
		return 0, domainerrors.ErrConfirmationRequired
	}
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(cmd.ElectionID))
	if err != nil {
		return 0, err
	}

	cleared, err := uc.Votes.DisassociateAccounts(ctx, election.ElectionID)
	if err != nil {
		return 0, err
	}
	now := uc.now()
	if err := uc.appendEvent(ctx, "accounts.disassociated", election.ElectionID, now, map[string]any{
		"election_id": election.ElectionID,
		"vote_count":  cleared,
		"occurred_at": now.Format(time.RFC3339),
	}); err != nil {
		return 0, err
	}

	logger.Info("accounts disassociated",
		"event", "accounts_disassociated",
		"module", "elections/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"vote_count", cleared,
	)
	return cleared, nil
}

func (uc VoteUseCase) eligibilityFor(ctx context.Context, election entities.Election, accountID string) (Eligibility, error) {
	result := Eligibility{
		WindowOpen: election.VotingAllowed(uc.now()),
	}

	allowed, err := uc.Elections.CountAllowedVoters(ctx, election.ElectionID)
	if err != nil {
		return Eligibility{}, err
	}
	if allowed == 0 {
		// An empty allow-list means the election is open to every account.
		result.OnList = true
	} else {
		onList, err := uc.Elections.IsVoterAllowed(ctx, election.ElectionID, accountID)
		if err != nil {
			return Eligibility{}, err
		}
		result.OnList = onList
	}

	hasVoted, err := uc.Votes.HasVoted(ctx, election.ElectionID, accountID)
	if err != nil {
		return Eligibility{}, err
	}
	result.HasVoted = hasVoted

	result.Allowed = result.WindowOpen && result.OnList && !result.HasVoted
	return result, nil
}

func (uc VoteUseCase) appendEvent(
	ctx context.Context,
	eventType string,
	electionID string,
	occurredAt time.Time,
	data map[string]any,
) error {
	// Outbox is optional for pure read/test wiring, so nil is treated as no-op.
	if uc.Outbox == nil {
		return nil
	}
	eventID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newElectionEnvelope(eventID, eventType, electionID, occurredAt, data)
	if err != nil {
		return err
	}
	return uc.Outbox.AppendOutbox(ctx, envelope)
}

func (uc VoteUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}
