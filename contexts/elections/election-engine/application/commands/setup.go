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

// CreateElectionCommand is the write-model input for election creation.
type CreateElectionCommand struct {
	Name          string
	Introduction  string
	VoteStart     time.Time
	VoteEnd       time.Time
	AllowedVoters []string
}

type AddBallotCommand struct {
	ElectionID     string
	Method         entities.BallotMethod
	SeatsAvailable int
	Description    string
}

type AddCandidateCommand struct {
	BallotID    string
	FirstName   string
	LastName    string
	Institution string
	Incumbent   bool
	WriteIn     bool
	Biography   string
}

// SetupUseCase covers the administrative side of an election's lifecycle:
// elections, ballots, candidates and the allow-list are created before or
// during the window and are immutable afterwards from the engine's view.
type SetupUseCase struct {
	Elections ports.ElectionRepository
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func (uc SetupUseCase) CreateElection(ctx context.Context, cmd CreateElectionCommand) (entities.Election, error) {
	logger := application.ResolveLogger(uc.Logger)
	name := strings.TrimSpace(cmd.Name)
	if name == "" || cmd.VoteStart.IsZero() || cmd.VoteEnd.IsZero() || cmd.VoteEnd.Before(cmd.VoteStart) {
		logger.Warn("election create validation failed",
			"event", "election_create_validation_failed",
			"module", "elections/election-engine",
			"layer", "application",
			"name", name,
		)
		return entities.Election{}, domainerrors.ErrInvalidElectionInput
	}

	electionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Election{}, err
	}
	election := entities.Election{
		ElectionID:   electionID,
		Name:         name,
		Introduction: strings.TrimSpace(cmd.Introduction),
		VoteStart:    cmd.VoteStart.UTC(),
		VoteEnd:      cmd.VoteEnd.UTC(),
		CreatedAt:    uc.now(),
	}
	if err := uc.Elections.SaveElection(ctx, election); err != nil {
		return entities.Election{}, err
	}
	if voters := normalizeAccountIDs(cmd.AllowedVoters); len(voters) > 0 {
		if err := uc.Elections.AddAllowedVoters(ctx, electionID, voters); err != nil {
			return entities.Election{}, err
		}
	}

	logger.Info("election created",
		"event", "election_created",
		"module", "elections/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"name", election.Name,
	)
	return election, nil
}

func (uc SetupUseCase) AddBallot(ctx context.Context, cmd AddBallotCommand) (entities.Ballot, error) {
	logger := application.ResolveLogger(uc.Logger)
	if !cmd.Method.Valid() || cmd.SeatsAvailable < 1 {
		logger.Warn("ballot create validation failed",
			"event", "ballot_create_validation_failed",
			"module", "elections/election-engine",
			"layer", "application",
			"election_id", strings.TrimSpace(cmd.ElectionID),
			"method", string(cmd.Method),
		)
		return entities.Ballot{}, domainerrors.ErrInvalidBallotInput
	}
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(cmd.ElectionID))
	if err != nil {
		return entities.Ballot{}, err
	}

	ballotID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Ballot{}, err
	}
	ballot := entities.Ballot{
		BallotID:       ballotID,
		ElectionID:     election.ElectionID,
		Method:         cmd.Method,
		SeatsAvailable: cmd.SeatsAvailable,
		Description:    strings.TrimSpace(cmd.Description),
		CreatedAt:      uc.now(),
	}
	if err := uc.Elections.SaveBallot(ctx, ballot); err != nil {
		return entities.Ballot{}, err
	}

	logger.Info("ballot added",
		"event", "ballot_added",
		"module", "elections/election-engine",
		"layer", "application",
		"election_id", ballot.ElectionID,
		"ballot_id", ballot.BallotID,
		"method", string(ballot.Method),
	)
	return ballot, nil
}

func (uc SetupUseCase) AddCandidate(ctx context.Context, cmd AddCandidateCommand) (entities.Candidate, error) {
	logger := application.ResolveLogger(uc.Logger)
	firstName := strings.TrimSpace(cmd.FirstName)
	lastName := strings.TrimSpace(cmd.LastName)
	// Write-ins arrive without vetted name data; everyone else needs both names.
	if !cmd.WriteIn && (firstName == "" || lastName == "") {
		logger.Warn("candidate create validation failed",
			"event", "candidate_create_validation_failed",
			"module", "elections/election-engine",
			"layer", "application",
			"ballot_id", strings.TrimSpace(cmd.BallotID),
		)
		return entities.Candidate{}, domainerrors.ErrInvalidCandidateInput
	}
	ballot, err := uc.Elections.GetBallot(ctx, strings.TrimSpace(cmd.BallotID))
	if err != nil {
		return entities.Candidate{}, err
	}

	candidateID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Candidate{}, err
	}
	candidate := entities.Candidate{
		CandidateID: candidateID,
		BallotID:    ballot.BallotID,
		FirstName:   firstName,
		LastName:    lastName,
		Institution: strings.TrimSpace(cmd.Institution),
		Incumbent:   cmd.Incumbent,
		WriteIn:     cmd.WriteIn,
		Biography:   strings.TrimSpace(cmd.Biography),
		CreatedAt:   uc.now(),
	}
	if err := uc.Elections.SaveCandidate(ctx, candidate); err != nil {
		return entities.Candidate{}, err
	}

	logger.Info("candidate added",
		"event", "candidate_added",
		"module", "elections/election-engine",
		"layer", "application",
		"ballot_id", candidate.BallotID,
		"candidate_id", candidate.CandidateID,
	)
	return candidate, nil
}

func (uc SetupUseCase) AddAllowedVoters(ctx context.Context, electionID string, accountIDs []string) error {
	logger := application.ResolveLogger(uc.Logger)
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return err
	}
	voters := normalizeAccountIDs(accountIDs)
	if len(voters) == 0 {
		return domainerrors.ErrInvalidElectionInput
	}
	if err := uc.Elections.AddAllowedVoters(ctx, election.ElectionID, voters); err != nil {
		return err
	}
	logger.Info("allowed voters added",
		"event", "allowed_voters_added",
		"module", "elections/election-engine",
		"layer", "application",
		"election_id", election.ElectionID,
		"count", len(voters),
	)
	return nil
}

func (uc SetupUseCase) now() time.Time {
	now := time.Now().UTC()
	if uc.Clock != nil {
		now = uc.Clock.Now().UTC()
	}
	return now
}

func normalizeAccountIDs(accountIDs []string) []string {
	seen := make(map[string]struct{}, len(accountIDs))
	items := make([]string, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		accountID = strings.TrimSpace(accountID)
		if accountID == "" {
			continue
		}
		if _, ok := seen[accountID]; ok {
			continue
		}
		seen[accountID] = struct{}{}
		items = append(items, accountID)
	}
	return items
}
