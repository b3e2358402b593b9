package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"ballotbox/contexts/elections/election-engine/domain/entities"
	domainerrors "ballotbox/contexts/elections/election-engine/domain/errors"
	"ballotbox/contexts/elections/election-engine/ports"

	"github.com/google/uuid"
)

type electionRecord struct {
	election entities.Election
	seq      int64
}

type ballotRecord struct {
	ballot entities.Ballot
	seq    int64
}

type candidateRecord struct {
	candidate entities.Candidate
	seq       int64
}

type voteRecord struct {
	vote entities.Vote
	seq  int64
}

type entryRecord struct {
	entry entities.VoteEntry
	seq   int64
}

type outboxRecord struct {
	message   ports.OutboxMessage
	published bool
	seq       int64
}

// Store is the in-memory adapter backing unit tests and local wiring. Every
// record carries an insertion sequence so list operations replay creation
// order exactly, the way the relational adapter's identity columns do.
type Store struct {
	mu  sync.RWMutex
	seq int64

	elections  map[string]electionRecord
	ballots    map[string]ballotRecord
	candidates map[string]candidateRecord
	votes      map[string]voteRecord
	entries    map[string]entryRecord
	voters     map[string]map[string]struct{}
	outbox     map[string]outboxRecord
}

func NewStore() *Store {
	return &Store{
		elections:  make(map[string]electionRecord),
		ballots:    make(map[string]ballotRecord),
		candidates: make(map[string]candidateRecord),
		votes:      make(map[string]voteRecord),
		entries:    make(map[string]entryRecord),
		voters:     make(map[string]map[string]struct{}),
		outbox:     make(map[string]outboxRecord),
	}
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

func (s *Store) SaveElection(_ context.Context, election entities.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(election.ElectionID)
	record, ok := s.elections[key]
	if !ok {
		record = electionRecord{seq: s.nextSeq()}
	}
	record.election = election
	s.elections[key] = record
	return nil
}

func (s *Store) GetElection(_ context.Context, electionID string) (entities.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.elections[strings.TrimSpace(electionID)]
	if !ok {
		return entities.Election{}, domainerrors.ErrElectionNotFound
	}
	return record.election, nil
}

func (s *Store) LatestElection(_ context.Context) (entities.Election, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		latest electionRecord
		found  bool
	)
	for _, record := range s.elections {
		if !found ||
			record.election.VoteStart.After(latest.election.VoteStart) ||
			(record.election.VoteStart.Equal(latest.election.VoteStart) && record.seq > latest.seq) {
			latest = record
			found = true
		}
	}
	if !found {
		return entities.Election{}, false, nil
	}
	return latest.election, true, nil
}

func (s *Store) SaveBallot(_ context.Context, ballot entities.Ballot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(ballot.BallotID)
	record, ok := s.ballots[key]
	if !ok {
		record = ballotRecord{seq: s.nextSeq()}
	}
	record.ballot = ballot
	s.ballots[key] = record
	return nil
}

func (s *Store) GetBallot(_ context.Context, ballotID string) (entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.ballots[strings.TrimSpace(ballotID)]
	if !ok {
		return entities.Ballot{}, domainerrors.ErrBallotNotFound
	}
	return record.ballot, nil
}

func (s *Store) ListBallots(_ context.Context, electionID string) ([]entities.Ballot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	electionID = strings.TrimSpace(electionID)
	records := make([]ballotRecord, 0)
	for _, record := range s.ballots {
		if record.ballot.ElectionID == electionID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })
	items := make([]entities.Ballot, 0, len(records))
	for _, record := range records {
		items = append(items, record.ballot)
	}
	return items, nil
}

func (s *Store) SaveCandidate(_ context.Context, candidate entities.Candidate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.TrimSpace(candidate.CandidateID)
	record, ok := s.candidates[key]
	if !ok {
		record = candidateRecord{seq: s.nextSeq()}
	}
	record.candidate = candidate
	s.candidates[key] = record
	return nil
}

func (s *Store) GetCandidate(_ context.Context, candidateID string) (entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.candidates[strings.TrimSpace(candidateID)]
	if !ok {
		return entities.Candidate{}, domainerrors.ErrCandidateNotFound
	}
	return record.candidate, nil
}

func (s *Store) ListCandidates(_ context.Context, ballotID string) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.candidatesForBallot(strings.TrimSpace(ballotID)), nil
}

func (s *Store) ListElectionCandidates(_ context.Context, electionID string) ([]entities.Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	electionID = strings.TrimSpace(electionID)
	ballots := make([]ballotRecord, 0)
	for _, record := range s.ballots {
		if record.ballot.ElectionID == electionID {
			ballots = append(ballots, record)
		}
	}
	sort.Slice(ballots, func(i, j int) bool { return ballots[i].seq < ballots[j].seq })

	items := make([]entities.Candidate, 0)
	for _, ballot := range ballots {
		items = append(items, s.candidatesForBallot(ballot.ballot.BallotID)...)
	}
	return items, nil
}

func (s *Store) candidatesForBallot(ballotID string) []entities.Candidate {
	records := make([]candidateRecord, 0)
	for _, record := range s.candidates {
		if record.candidate.BallotID == ballotID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })
	items := make([]entities.Candidate, 0, len(records))
	for _, record := range records {
		items = append(items, record.candidate)
	}
	return items
}

func (s *Store) AddAllowedVoters(_ context.Context, electionID string, accountIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	electionID = strings.TrimSpace(electionID)
	set, ok := s.voters[electionID]
	if !ok {
		set = make(map[string]struct{})
		s.voters[electionID] = set
	}
	for _, accountID := range accountIDs {
		accountID = strings.TrimSpace(accountID)
		if accountID != "" {
			set[accountID] = struct{}{}
		}
	}
	return nil
}

func (s *Store) CountAllowedVoters(_ context.Context, electionID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.voters[strings.TrimSpace(electionID)]), nil
}

func (s *Store) IsVoterAllowed(_ context.Context, electionID string, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.voters[strings.TrimSpace(electionID)]
	if !ok {
		return false, nil
	}
	_, allowed := set[strings.TrimSpace(accountID)]
	return allowed, nil
}

func (s *Store) CreateVote(_ context.Context, vote entities.Vote, entries []entities.VoteEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accountID := strings.TrimSpace(vote.AccountID)
	if accountID != "" {
		for _, record := range s.votes {
			if record.vote.ElectionID == vote.ElectionID && record.vote.AccountID == accountID {
				return domainerrors.ErrDuplicateVote
			}
		}
	}

	s.votes[strings.TrimSpace(vote.VoteID)] = voteRecord{vote: vote, seq: s.nextSeq()}
	for _, entry := range entries {
		s.entries[strings.TrimSpace(entry.EntryID)] = entryRecord{entry: entry, seq: s.nextSeq()}
	}
	return nil
}

func (s *Store) GetVote(_ context.Context, voteID string) (entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.votes[strings.TrimSpace(voteID)]
	if !ok {
		return entities.Vote{}, domainerrors.ErrVoteNotFound
	}
	return record.vote, nil
}

func (s *Store) HasVoted(_ context.Context, electionID string, accountID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	electionID = strings.TrimSpace(electionID)
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return false, nil
	}
	for _, record := range s.votes {
		if record.vote.ElectionID == electionID && record.vote.AccountID == accountID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListVotes(_ context.Context, electionID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.votesForElection(strings.TrimSpace(electionID))
	items := make([]entities.Vote, 0, len(records))
	for _, record := range records {
		items = append(items, record.vote)
	}
	return items, nil
}

func (s *Store) ListEntries(_ context.Context, voteID string) ([]entities.VoteEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	voteID = strings.TrimSpace(voteID)
	records := make([]entryRecord, 0)
	for _, record := range s.entries {
		if record.entry.VoteID == voteID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })
	items := make([]entities.VoteEntry, 0, len(records))
	for _, record := range records {
		items = append(items, record.entry)
	}
	return items, nil
}

func (s *Store) ListElectionEntries(_ context.Context, electionID string) ([]entities.VoteEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	voteIDs := make(map[string]struct{})
	for _, record := range s.votesForElection(strings.TrimSpace(electionID)) {
		voteIDs[record.vote.VoteID] = struct{}{}
	}
	records := make([]entryRecord, 0)
	for _, record := range s.entries {
		if _, ok := voteIDs[record.entry.VoteID]; ok {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })
	items := make([]entities.VoteEntry, 0, len(records))
	for _, record := range records {
		items = append(items, record.entry)
	}
	return items, nil
}

func (s *Store) votesForElection(electionID string) []voteRecord {
	records := make([]voteRecord, 0)
	for _, record := range s.votes {
		if record.vote.ElectionID == electionID {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })
	return records
}

func (s *Store) DisassociateAccounts(_ context.Context, electionID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	electionID = strings.TrimSpace(electionID)
	var cleared int64
	for key, record := range s.votes {
		if record.vote.ElectionID != electionID || record.vote.AccountID == "" {
			continue
		}
		record.vote.AccountID = ""
		s.votes[key] = record
		cleared++
	}
	return cleared, nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := json.Marshal(envelope)
	if err != nil {
		return err
	}
	outboxID := strings.TrimSpace(envelope.EventID)
	if outboxID == "" {
		outboxID = uuid.NewString()
	}
	if existing, ok := s.outbox[outboxID]; ok {
		if !bytes.Equal(existing.message.Payload, payload) {
			return domainerrors.ErrConflict
		}
		return nil
	}
	createdAt := envelope.OccurredAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	s.outbox[outboxID] = outboxRecord{
		message: ports.OutboxMessage{
			OutboxID:     outboxID,
			EventType:    strings.TrimSpace(envelope.EventType),
			PartitionKey: strings.TrimSpace(envelope.PartitionKey),
			Payload:      payload,
			CreatedAt:    createdAt,
		},
		seq: s.nextSeq(),
	}
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	records := make([]outboxRecord, 0, len(s.outbox))
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		records = append(records, row)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].seq < records[j].seq })
	if len(records) > limit {
		records = records[:limit]
	}
	items := make([]ports.OutboxMessage, 0, len(records))
	for _, row := range records {
		items = append(items, row.message)
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.outbox[strings.TrimSpace(outboxID)]
	if !ok {
		return domainerrors.ErrConflict
	}
	row.published = true
	s.outbox[strings.TrimSpace(outboxID)] = row
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
