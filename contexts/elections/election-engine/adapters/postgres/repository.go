package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ballotbox/contexts/elections/election-engine/domain/entities"
	domainerrors "ballotbox/contexts/elections/election-engine/domain/errors"
	"ballotbox/contexts/elections/election-engine/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	outboxStatusPending   = "pending"
	outboxStatusPublished = "published"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) SaveElection(ctx context.Context, election entities.Election) error {
	row := electionModelFromEntity(election)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"name":         row.Name,
			"introduction": row.Introduction,
			"vote_start":   row.VoteStart,
			"vote_end":     row.VoteEnd,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("election_repo_save_election_failed", create.Error,
			"election_id", row.ID,
		)
	}
	return nil
}

func (r *Repository) GetElection(ctx context.Context, electionID string) (entities.Election, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(electionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, domainerrors.ErrElectionNotFound
		}
		return entities.Election{}, r.logError("election_repo_get_election_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) LatestElection(ctx context.Context) (entities.Election, bool, error) {
	var row electionModel
	err := r.db.WithContext(ctx).
		Order("vote_start DESC, seq DESC").
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Election{}, false, nil
		}
		return entities.Election{}, false, r.logError("election_repo_latest_election_failed", err)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) SaveBallot(ctx context.Context, ballot entities.Ballot) error {
	row := ballotModelFromEntity(ballot)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"method":          row.Method,
			"seats_available": row.SeatsAvailable,
			"description":     row.Description,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("election_repo_save_ballot_failed", create.Error,
			"ballot_id", row.ID,
			"election_id", row.ElectionID,
		)
	}
	return nil
}

func (r *Repository) GetBallot(ctx context.Context, ballotID string) (entities.Ballot, error) {
	var row ballotModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(ballotID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Ballot{}, domainerrors.ErrBallotNotFound
		}
		return entities.Ballot{}, r.logError("election_repo_get_ballot_failed", err,
			"ballot_id", strings.TrimSpace(ballotID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListBallots(ctx context.Context, electionID string) ([]entities.Ballot, error) {
	var rows []ballotModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("seq ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_ballots_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]entities.Ballot, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) SaveCandidate(ctx context.Context, candidate entities.Candidate) error {
	row := candidateModelFromEntity(candidate)
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"first_name":  row.FirstName,
			"last_name":   row.LastName,
			"institution": row.Institution,
			"incumbent":   row.Incumbent,
			"write_in":    row.WriteIn,
			"biography":   row.Biography,
		}),
	}).Create(&row)
	if create.Error != nil {
		return r.logError("election_repo_save_candidate_failed", create.Error,
			"candidate_id", row.ID,
			"ballot_id", row.BallotID,
		)
	}
	return nil
}

func (r *Repository) GetCandidate(ctx context.Context, candidateID string) (entities.Candidate, error) {
	var row candidateModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(candidateID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Candidate{}, domainerrors.ErrCandidateNotFound
		}
		return entities.Candidate{}, r.logError("election_repo_get_candidate_failed", err,
			"candidate_id", strings.TrimSpace(candidateID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) ListCandidates(ctx context.Context, ballotID string) ([]entities.Candidate, error) {
	var rows []candidateModel
	if err := r.db.WithContext(ctx).
		Where("ballot_id = ?", strings.TrimSpace(ballotID)).
		Order("seq ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_candidates_failed", err,
			"ballot_id", strings.TrimSpace(ballotID),
		)
	}
	return toCandidateEntities(rows), nil
}

func (r *Repository) ListElectionCandidates(ctx context.Context, electionID string) ([]entities.Candidate, error) {
	var rows []candidateModel
	err := r.db.WithContext(ctx).
		Table("candidates AS c").
		Select("c.*").
		Joins("JOIN ballots AS b ON b.id = c.ballot_id").
		Where("b.election_id = ?", strings.TrimSpace(electionID)).
		Order("b.seq ASC, c.seq ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("election_repo_list_election_candidates_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return toCandidateEntities(rows), nil
}

func (r *Repository) AddAllowedVoters(ctx context.Context, electionID string, accountIDs []string) error {
	electionID = strings.TrimSpace(electionID)
	rows := make([]electionVoterModel, 0, len(accountIDs))
	for _, accountID := range accountIDs {
		accountID = strings.TrimSpace(accountID)
		if accountID == "" {
			continue
		}
		rows = append(rows, electionVoterModel{
			ElectionID: electionID,
			AccountID:  accountID,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "election_id"}, {Name: "account_id"}},
		DoNothing: true,
	}).Create(&rows)
	if create.Error != nil {
		return r.logError("election_repo_add_allowed_voters_failed", create.Error,
			"election_id", electionID,
			"count", len(rows),
		)
	}
	return nil
}

func (r *Repository) CountAllowedVoters(ctx context.Context, electionID string) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&electionVoterModel{}).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Count(&count).Error; err != nil {
		return 0, r.logError("election_repo_count_allowed_voters_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return int(count), nil
}

func (r *Repository) IsVoterAllowed(ctx context.Context, electionID string, accountID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&electionVoterModel{}).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("account_id = ?", strings.TrimSpace(accountID)).
		Count(&count).Error; err != nil {
		return false, r.logError("election_repo_is_voter_allowed_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return count > 0, nil
}

// CreateVote inserts the vote and its entries in one transaction. The partial
// unique index on votes(election_id, account_id) is the authority on "one vote
// per account": a concurrent duplicate fails the insert with 23505 regardless
// of what the eligibility check observed.
func (r *Repository) CreateVote(ctx context.Context, vote entities.Vote, entries []entities.VoteEntry) error {
	voteRow := voteModelFromEntity(vote)
	entryRows := make([]voteEntryModel, 0, len(entries))
	for _, entry := range entries {
		entryRows = append(entryRows, voteEntryModelFromEntity(entry))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&voteRow).Error; err != nil {
			return err
		}
		if len(entryRows) == 0 {
			return nil
		}
		return tx.Create(&entryRows).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrDuplicateVote
		}
		return r.logError("election_repo_create_vote_failed", err,
			"vote_id", voteRow.ID,
			"election_id", voteRow.ElectionID,
		)
	}
	return nil
}

func (r *Repository) GetVote(ctx context.Context, voteID string) (entities.Vote, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voteID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, domainerrors.ErrVoteNotFound
		}
		return entities.Vote{}, r.logError("election_repo_get_vote_failed", err,
			"vote_id", strings.TrimSpace(voteID),
		)
	}
	return row.toEntity(), nil
}

func (r *Repository) HasVoted(ctx context.Context, electionID string, accountID string) (bool, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("account_id = ?", accountID).
		Count(&count).Error; err != nil {
		return false, r.logError("election_repo_has_voted_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return count > 0, nil
}

func (r *Repository) ListVotes(ctx context.Context, electionID string) ([]entities.Vote, error) {
	var rows []voteModel
	if err := r.db.WithContext(ctx).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Order("seq ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_votes_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	items := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) ListEntries(ctx context.Context, voteID string) ([]entities.VoteEntry, error) {
	var rows []voteEntryModel
	if err := r.db.WithContext(ctx).
		Where("vote_id = ?", strings.TrimSpace(voteID)).
		Order("seq ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_entries_failed", err,
			"vote_id", strings.TrimSpace(voteID),
		)
	}
	return toVoteEntryEntities(rows), nil
}

func (r *Repository) ListElectionEntries(ctx context.Context, electionID string) ([]entities.VoteEntry, error) {
	var rows []voteEntryModel
	err := r.db.WithContext(ctx).
		Table("vote_entries AS e").
		Select("e.*").
		Joins("JOIN votes AS v ON v.id = e.vote_id").
		Where("v.election_id = ?", strings.TrimSpace(electionID)).
		Order("e.seq ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("election_repo_list_election_entries_failed", err,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return toVoteEntryEntities(rows), nil
}

// DisassociateAccounts nulls the account reference of every attributed vote in
// one statement, so readers never see a partially anonymized election.
func (r *Repository) DisassociateAccounts(ctx context.Context, electionID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&voteModel{}).
		Where("election_id = ?", strings.TrimSpace(electionID)).
		Where("account_id IS NOT NULL").
		Update("account_id", nil)
	if result.Error != nil {
		return 0, r.logError("election_repo_disassociate_accounts_failed", result.Error,
			"election_id", strings.TrimSpace(electionID),
		)
	}
	return result.RowsAffected, nil
}

func (r *Repository) AppendOutbox(ctx context.Context, envelope ports.EventEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return r.logError("election_repo_append_outbox_marshal_failed", err,
			"event_id", strings.TrimSpace(envelope.EventID),
			"event_type", strings.TrimSpace(envelope.EventType),
		)
	}
	row := outboxModel{
		OutboxID:     strings.TrimSpace(envelope.EventID),
		EventType:    strings.TrimSpace(envelope.EventType),
		PartitionKey: strings.TrimSpace(envelope.PartitionKey),
		Payload:      payload,
		Status:       outboxStatusPending,
		CreatedAt:    envelope.OccurredAt.UTC(),
	}
	if row.OutboxID == "" {
		row.OutboxID = uuid.NewString()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "outbox_id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("election_repo_append_outbox_insert_failed", create.Error,
			"outbox_id", row.OutboxID,
		)
	}
	if create.RowsAffected > 0 {
		return nil
	}

	var existing outboxModel
	if err := r.db.WithContext(ctx).
		Select("payload").
		Where("outbox_id = ?", row.OutboxID).
		First(&existing).Error; err != nil {
		return r.logError("election_repo_append_outbox_load_existing_failed", err,
			"outbox_id", row.OutboxID,
		)
	}
	if !bytes.Equal(existing.Payload, row.Payload) {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("election_repo_list_pending_outbox_failed", err, "limit", limit)
	}
	items := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		items = append(items, ports.OutboxMessage{
			OutboxID:     row.OutboxID,
			EventType:    row.EventType,
			PartitionKey: row.PartitionKey,
			Payload:      append([]byte(nil), row.Payload...),
			CreatedAt:    row.CreatedAt.UTC(),
		})
	}
	return items, nil
}

func (r *Repository) MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&outboxModel{}).
		Where("outbox_id = ?", strings.TrimSpace(outboxID)).
		Updates(map[string]any{
			"status":       outboxStatusPublished,
			"published_at": publishedAt.UTC(),
		})
	if result.Error != nil {
		return r.logError("election_repo_mark_outbox_published_failed", result.Error,
			"outbox_id", strings.TrimSpace(outboxID),
		)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrConflict
	}
	return nil
}

func (r *Repository) logError(event string, err error, attrs ...any) error {
	fields := make([]any, 0, len(attrs)+8)
	fields = append(fields,
		"event", event,
		"module", "elections/election-engine",
		"layer", "adapter",
		"error", err.Error(),
	)
	fields = append(fields, attrs...)
	r.logger.Error("election repository operation failed", fields...)
	return err
}

type electionModel struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	Introduction string    `gorm:"column:introduction"`
	VoteStart    time.Time `gorm:"column:vote_start"`
	VoteEnd      time.Time `gorm:"column:vote_end"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	Seq          int64     `gorm:"column:seq;->"`
}

func (electionModel) TableName() string {
	return "elections"
}

func electionModelFromEntity(election entities.Election) electionModel {
	row := electionModel{
		ID:           strings.TrimSpace(election.ElectionID),
		Name:         strings.TrimSpace(election.Name),
		Introduction: election.Introduction,
		VoteStart:    election.VoteStart.UTC(),
		VoteEnd:      election.VoteEnd.UTC(),
		CreatedAt:    election.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m electionModel) toEntity() entities.Election {
	return entities.Election{
		ElectionID:   m.ID,
		Name:         m.Name,
		Introduction: m.Introduction,
		VoteStart:    m.VoteStart.UTC(),
		VoteEnd:      m.VoteEnd.UTC(),
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

type ballotModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	ElectionID     string    `gorm:"column:election_id"`
	Method         string    `gorm:"column:method"`
	SeatsAvailable int       `gorm:"column:seats_available"`
	Description    string    `gorm:"column:description"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	Seq            int64     `gorm:"column:seq;->"`
}

func (ballotModel) TableName() string {
	return "ballots"
}

func ballotModelFromEntity(ballot entities.Ballot) ballotModel {
	row := ballotModel{
		ID:             strings.TrimSpace(ballot.BallotID),
		ElectionID:     strings.TrimSpace(ballot.ElectionID),
		Method:         string(ballot.Method),
		SeatsAvailable: ballot.SeatsAvailable,
		Description:    ballot.Description,
		CreatedAt:      ballot.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m ballotModel) toEntity() entities.Ballot {
	return entities.Ballot{
		BallotID:       m.ID,
		ElectionID:     m.ElectionID,
		Method:         entities.BallotMethod(m.Method),
		SeatsAvailable: m.SeatsAvailable,
		Description:    m.Description,
		CreatedAt:      m.CreatedAt.UTC(),
	}
}

type candidateModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	BallotID    string    `gorm:"column:ballot_id"`
	FirstName   string    `gorm:"column:first_name"`
	LastName    string    `gorm:"column:last_name"`
	Institution string    `gorm:"column:institution"`
	Incumbent   bool      `gorm:"column:incumbent"`
	WriteIn     bool      `gorm:"column:write_in"`
	Biography   string    `gorm:"column:biography"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	Seq         int64     `gorm:"column:seq;->"`
}

func (candidateModel) TableName() string {
	return "candidates"
}

func candidateModelFromEntity(candidate entities.Candidate) candidateModel {
	row := candidateModel{
		ID:          strings.TrimSpace(candidate.CandidateID),
		BallotID:    strings.TrimSpace(candidate.BallotID),
		FirstName:   candidate.FirstName,
		LastName:    candidate.LastName,
		Institution: candidate.Institution,
		Incumbent:   candidate.Incumbent,
		WriteIn:     candidate.WriteIn,
		Biography:   candidate.Biography,
		CreatedAt:   candidate.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m candidateModel) toEntity() entities.Candidate {
	return entities.Candidate{
		CandidateID: m.ID,
		BallotID:    m.BallotID,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Institution: m.Institution,
		Incumbent:   m.Incumbent,
		WriteIn:     m.WriteIn,
		Biography:   m.Biography,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type electionVoterModel struct {
	ElectionID string `gorm:"column:election_id;primaryKey"`
	AccountID  string `gorm:"column:account_id;primaryKey"`
}

func (electionVoterModel) TableName() string {
	return "election_voters"
}

type voteModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ElectionID string    `gorm:"column:election_id"`
	AccountID  *string   `gorm:"column:account_id"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	Seq        int64     `gorm:"column:seq;->"`
}

func (voteModel) TableName() string {
	return "votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	row := voteModel{
		ID:         strings.TrimSpace(vote.VoteID),
		ElectionID: strings.TrimSpace(vote.ElectionID),
		CreatedAt:  vote.CreatedAt.UTC(),
	}
	// A disassociated vote has no account reference at all.
	if accountID := strings.TrimSpace(vote.AccountID); accountID != "" {
		row.AccountID = &accountID
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m voteModel) toEntity() entities.Vote {
	accountID := ""
	if m.AccountID != nil {
		accountID = strings.TrimSpace(*m.AccountID)
	}
	return entities.Vote{
		VoteID:     m.ID,
		ElectionID: m.ElectionID,
		AccountID:  accountID,
		CreatedAt:  m.CreatedAt.UTC(),
	}
}

type voteEntryModel struct {
	ID          string    `gorm:"column:id;primaryKey"`
	VoteID      string    `gorm:"column:vote_id"`
	CandidateID string    `gorm:"column:candidate_id"`
	Variant     string    `gorm:"column:variant"`
	Points      int       `gorm:"column:points"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	Seq         int64     `gorm:"column:seq;->"`
}

func (voteEntryModel) TableName() string {
	return "vote_entries"
}

func voteEntryModelFromEntity(entry entities.VoteEntry) voteEntryModel {
	row := voteEntryModel{
		ID:          strings.TrimSpace(entry.EntryID),
		VoteID:      strings.TrimSpace(entry.VoteID),
		CandidateID: strings.TrimSpace(entry.CandidateID),
		Variant:     string(entry.Variant),
		Points:      entry.Points,
		CreatedAt:   entry.CreatedAt.UTC(),
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	return row
}

func (m voteEntryModel) toEntity() entities.VoteEntry {
	return entities.VoteEntry{
		EntryID:     m.ID,
		VoteID:      m.VoteID,
		CandidateID: m.CandidateID,
		Variant:     entities.BallotMethod(m.Variant),
		Points:      m.Points,
		CreatedAt:   m.CreatedAt.UTC(),
	}
}

type outboxModel struct {
	OutboxID     string     `gorm:"column:outbox_id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	PartitionKey string     `gorm:"column:partition_key"`
	Payload      []byte     `gorm:"column:payload"`
	Status       string     `gorm:"column:status"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxModel) TableName() string {
	return "election_outbox"
}

func toCandidateEntities(rows []candidateModel) []entities.Candidate {
	items := make([]entities.Candidate, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func toVoteEntryEntities(rows []voteEntryModel) []entities.VoteEntry {
	items := make([]entities.VoteEntry, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ ports.ElectionRepository = (*Repository)(nil)
var _ ports.VoteRepository = (*Repository)(nil)
var _ ports.OutboxWriter = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
