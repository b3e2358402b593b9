package queries

import (
	"context"
	"strings"

	"ballotbox/contexts/elections/election-engine/domain/entities"
	domainerrors "ballotbox/contexts/elections/election-engine/domain/errors"
	"ballotbox/contexts/elections/election-engine/ports"
)

// ElectionView is the read model for rendering an election with its contests.
type ElectionView struct {
	Election entities.Election
	Ballots  []entities.BallotCandidates
}

// SpreadsheetData feeds the export collaborator: the ballot/candidate header
// plus one tally row per vote over the flattened candidate list.
type SpreadsheetData struct {
	Ballots []entities.BallotCandidates
	Rows    []entities.VoteTallyRow
}

// StatisticsUseCase derives per-candidate and per-voter tallies from the
// current vote snapshot. It holds no state of its own: every call recomputes
// from storage, so results always reflect committed votes.
type StatisticsUseCase struct {
	Elections ports.ElectionRepository
	Votes     ports.VoteRepository
}

func (uc StatisticsUseCase) Election(ctx context.Context, electionID string) (ElectionView, error) {
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return ElectionView{}, err
	}
	ballots, err := uc.ballotCandidates(ctx, election.ElectionID)
	if err != nil {
		return ElectionView{}, err
	}
	return ElectionView{Election: election, Ballots: ballots}, nil
}

func (uc StatisticsUseCase) LatestElection(ctx context.Context) (ElectionView, error) {
	election, found, err := uc.Elections.LatestElection(ctx)
	if err != nil {
		return ElectionView{}, err
	}
	if !found {
		return ElectionView{}, domainerrors.ErrNoCurrentElection
	}
	ballots, err := uc.ballotCandidates(ctx, election.ElectionID)
	if err != nil {
		return ElectionView{}, err
	}
	return ElectionView{Election: election, Ballots: ballots}, nil
}

// CandidateStats tallies one ballot: candidates in creation order, each with
// the number of selecting entries (plurality) or the sum of recorded points
// (preferential) across every vote of the owning election.
func (uc StatisticsUseCase) CandidateStats(ctx context.Context, ballotID string) ([]entities.CandidateStat, error) {
	ballot, err := uc.Elections.GetBallot(ctx, strings.TrimSpace(ballotID))
	if err != nil {
		return nil, err
	}
	candidates, err := uc.Elections.ListCandidates(ctx, ballot.BallotID)
	if err != nil {
		return nil, err
	}
	entries, err := uc.Votes.ListElectionEntries(ctx, ballot.ElectionID)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int, len(candidates))
	for _, entry := range entries {
		totals[entry.CandidateID] += entry.TallyValue()
	}
	stats := make([]entities.CandidateStat, 0, len(candidates))
	for _, candidate := range candidates {
		stats = append(stats, entities.CandidateStat{
			Candidate: candidate,
			Total:     totals[candidate.CandidateID],
		})
	}
	return stats, nil
}

// HasIncumbents reports whether any candidate on the ballot is an incumbent.
func (uc StatisticsUseCase) HasIncumbents(ctx context.Context, ballotID string) (bool, error) {
	ballot, err := uc.Elections.GetBallot(ctx, strings.TrimSpace(ballotID))
	if err != nil {
		return false, err
	}
	candidates, err := uc.Elections.ListCandidates(ctx, ballot.BallotID)
	if err != nil {
		return false, err
	}
	for _, candidate := range candidates {
		if candidate.Incumbent {
			return true, nil
		}
	}
	return false, nil
}

// FullStatistics assembles the whole election: ballots in creation order,
// candidates flattened across ballots, and one points row per vote in vote
// creation order. The ballot/candidate lists are unaffected by later votes;
// new votes only append rows.
func (uc StatisticsUseCase) FullStatistics(ctx context.Context, electionID string) (entities.ElectionStatistics, error) {
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return entities.ElectionStatistics{}, err
	}
	ballots, err := uc.Elections.ListBallots(ctx, election.ElectionID)
	if err != nil {
		return entities.ElectionStatistics{}, err
	}
	candidates, err := uc.Elections.ListElectionCandidates(ctx, election.ElectionID)
	if err != nil {
		return entities.ElectionStatistics{}, err
	}
	rows, err := uc.tallyRows(ctx, election.ElectionID, candidates)
	if err != nil {
		return entities.ElectionStatistics{}, err
	}
	return entities.ElectionStatistics{
		Ballots:    ballots,
		Candidates: candidates,
		Rows:       rows,
	}, nil
}

// VoteDetails lists one pair per ballot of the vote's election, in ballot
// creation order, with the vote's entries on that ballot in entry creation
// order. Ballots the vote skipped appear with an empty entries list.
func (uc StatisticsUseCase) VoteDetails(ctx context.Context, voteID string) (entities.Vote, []entities.VoteDetail, error) {
	vote, err := uc.Votes.GetVote(ctx, strings.TrimSpace(voteID))
	if err != nil {
		return entities.Vote{}, nil, err
	}
	ballots, err := uc.Elections.ListBallots(ctx, vote.ElectionID)
	if err != nil {
		return entities.Vote{}, nil, err
	}
	candidates, err := uc.Elections.ListElectionCandidates(ctx, vote.ElectionID)
	if err != nil {
		return entities.Vote{}, nil, err
	}
	entries, err := uc.Votes.ListEntries(ctx, vote.VoteID)
	if err != nil {
		return entities.Vote{}, nil, err
	}

	ballotByCandidate := make(map[string]string, len(candidates))
	for _, candidate := range candidates {
		ballotByCandidate[candidate.CandidateID] = candidate.BallotID
	}
	details := make([]entities.VoteDetail, 0, len(ballots))
	for _, ballot := range ballots {
		detail := entities.VoteDetail{Ballot: ballot, Entries: []entities.VoteEntry{}}
		for _, entry := range entries {
			if ballotByCandidate[entry.CandidateID] == ballot.BallotID {
				detail.Entries = append(detail.Entries, entry)
			}
		}
		details = append(details, detail)
	}
	return vote, details, nil
}

// Spreadsheet produces the export rows a formatting collaborator turns into a
// reviewable sheet.
func (uc StatisticsUseCase) Spreadsheet(ctx context.Context, electionID string) (SpreadsheetData, error) {
	election, err := uc.Elections.GetElection(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return SpreadsheetData{}, err
	}
	ballots, err := uc.ballotCandidates(ctx, election.ElectionID)
	if err != nil {
		return SpreadsheetData{}, err
	}
	candidates := flattenCandidates(ballots)
	rows, err := uc.tallyRows(ctx, election.ElectionID, candidates)
	if err != nil {
		return SpreadsheetData{}, err
	}
	return SpreadsheetData{Ballots: ballots, Rows: rows}, nil
}

// Biographies lists, per ballot, the candidates that carry a biography.
// Ballots without any are omitted.
func (uc StatisticsUseCase) Biographies(ctx context.Context, electionID string) ([]entities.BallotCandidates, error) {
	ballots, err := uc.ballotCandidates(ctx, strings.TrimSpace(electionID))
	if err != nil {
		return nil, err
	}
	items := make([]entities.BallotCandidates, 0, len(ballots))
	for _, ballot := range ballots {
		withBios := make([]entities.Candidate, 0, len(ballot.Candidates))
		for _, candidate := range ballot.Candidates {
			if candidate.Biography != "" {
				withBios = append(withBios, candidate)
			}
		}
		if len(withBios) > 0 {
			items = append(items, entities.BallotCandidates{Ballot: ballot.Ballot, Candidates: withBios})
		}
	}
	return items, nil
}

func (uc StatisticsUseCase) ballotCandidates(ctx context.Context, electionID string) ([]entities.BallotCandidates, error) {
	ballots, err := uc.Elections.ListBallots(ctx, electionID)
	if err != nil {
		return nil, err
	}
	items := make([]entities.BallotCandidates, 0, len(ballots))
	for _, ballot := range ballots {
		candidates, err := uc.Elections.ListCandidates(ctx, ballot.BallotID)
		if err != nil {
			return nil, err
		}
		items = append(items, entities.BallotCandidates{Ballot: ballot, Candidates: candidates})
	}
	return items, nil
}

func (uc StatisticsUseCase) tallyRows(
	ctx context.Context,
	electionID string,
	candidates []entities.Candidate,
) ([]entities.VoteTallyRow, error) {
	votes, err := uc.Votes.ListVotes(ctx, electionID)
	if err != nil {
		return nil, err
	}
	rows := make([]entities.VoteTallyRow, 0, len(votes))
	for _, vote := range votes {
		entries, err := uc.Votes.ListEntries(ctx, vote.VoteID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, entities.VoteTallyRow{
			Vote:   vote,
			Points: entities.PointsForCandidates(entries, candidates),
		})
	}
	return rows, nil
}

func flattenCandidates(ballots []entities.BallotCandidates) []entities.Candidate {
	items := make([]entities.Candidate, 0)
	for _, ballot := range ballots {
		items = append(items, ballot.Candidates...)
	}
	return items
}
