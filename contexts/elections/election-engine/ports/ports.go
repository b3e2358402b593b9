package ports

import (
	"context"
	"encoding/json"
	"time"

	"ballotbox/contexts/elections/election-engine/domain/entities"
)

type ElectionRepository interface {
	SaveElection(ctx context.Context, election entities.Election) error
	GetElection(ctx context.Context, electionID string) (entities.Election, error)
	// LatestElection returns the election with the most recent window start.
	LatestElection(ctx context.Context) (entities.Election, bool, error)

	SaveBallot(ctx context.Context, ballot entities.Ballot) error
	GetBallot(ctx context.Context, ballotID string) (entities.Ballot, error)
	ListBallots(ctx context.Context, electionID string) ([]entities.Ballot, error)

	SaveCandidate(ctx context.Context, candidate entities.Candidate) error
	GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error)
	ListCandidates(ctx context.Context, ballotID string) ([]entities.Candidate, error)
	// ListElectionCandidates flattens candidates across the election's ballots,
	// ballots in creation order and candidates in creation order within each.
	ListElectionCandidates(ctx context.Context, electionID string) ([]entities.Candidate, error)

	AddAllowedVoters(ctx context.Context, electionID string, accountIDs []string) error
	CountAllowedVoters(ctx context.Context, electionID string) (int, error)
	IsVoterAllowed(ctx context.Context, electionID string, accountID string) (bool, error)
}

type VoteRepository interface {
	// CreateVote persists the vote and all of its entries as one transaction.
	// A second vote for the same (election, account) fails with ErrDuplicateVote
	// even when both writers passed the eligibility check concurrently.
	CreateVote(ctx context.Context, vote entities.Vote, entries []entities.VoteEntry) error
	GetVote(ctx context.Context, voteID string) (entities.Vote, error)
	HasVoted(ctx context.Context, electionID string, accountID string) (bool, error)
	ListVotes(ctx context.Context, electionID string) ([]entities.Vote, error)
	ListEntries(ctx context.Context, voteID string) ([]entities.VoteEntry, error)
	ListElectionEntries(ctx context.Context, electionID string) ([]entities.VoteEntry, error)
	// DisassociateAccounts clears the account reference of every vote in the
	// election in a single transaction and returns the number of votes touched.
	DisassociateAccounts(ctx context.Context, electionID string) (int64, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	SourceService string          `json:"source_service"`
	SchemaVersion int             `json:"schema_version"`
	PartitionKey  string          `json:"partition_key"`
	Data          json.RawMessage `json:"data"`
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
