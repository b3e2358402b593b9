package httpadapter

import (
	"context"
	"log/slog"

	"ballotbox/contexts/elections/election-engine/application/commands"
	"ballotbox/contexts/elections/election-engine/application/queries"
	"ballotbox/contexts/elections/election-engine/domain/entities"
	httptransport "ballotbox/contexts/elections/election-engine/transport/http"
)

type Handler struct {
	Setup      commands.SetupUseCase
	Votes      commands.VoteUseCase
	Statistics queries.StatisticsUseCase
	Logger     *slog.Logger
}

func (h Handler) CreateElectionHandler(
	ctx context.Context,
	req httptransport.CreateElectionRequest,
) (httptransport.ElectionResponse, error) {
	election, err := h.Setup.CreateElection(ctx, commands.CreateElectionCommand{
		Name:          req.Name,
		Introduction:  req.Introduction,
		VoteStart:     req.VoteStart,
		VoteEnd:       req.VoteEnd,
		AllowedVoters: req.AllowedVoters,
	})
	if err != nil {
		return httptransport.ElectionResponse{}, err
	}
	return mapElection(election), nil
}

func (h Handler) AddBallotHandler(
	ctx context.Context,
	electionID string,
	req httptransport.CreateBallotRequest,
) (httptransport.BallotResponse, error) {
	ballot, err := h.Setup.AddBallot(ctx, commands.AddBallotCommand{
		ElectionID:     electionID,
		Method:         entities.BallotMethod(req.Method),
		SeatsAvailable: req.SeatsAvailable,
		Description:    req.Description,
	})
	if err != nil {
		return httptransport.BallotResponse{}, err
	}
	return mapBallot(ballot), nil
}

func (h Handler) AddCandidateHandler(
	ctx context.Context,
	ballotID string,
	req httptransport.CreateCandidateRequest,
) (httptransport.CandidateResponse, error) {
	candidate, err := h.Setup.AddCandidate(ctx, commands.AddCandidateCommand{
		BallotID:    ballotID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Institution: req.Institution,
		Incumbent:   req.Incumbent,
		WriteIn:     req.WriteIn,
		Biography:   req.Biography,
	})
	if err != nil {
		return httptransport.CandidateResponse{}, err
	}
	return mapCandidate(candidate), nil
}

func (h Handler) AddVotersHandler(
	ctx context.Context,
	electionID string,
	req httptransport.AddVotersRequest,
) error {
	return h.Setup.AddAllowedVoters(ctx, electionID, req.AccountIDs)
}

func (h Handler) ElectionHandler(ctx context.Context, electionID string) (httptransport.ElectionDetailResponse, error) {
	view, err := h.Statistics.Election(ctx, electionID)
	if err != nil {
		return httptransport.ElectionDetailResponse{}, err
	}
	return mapElectionView(view), nil
}

func (h Handler) LatestElectionHandler(ctx context.Context) (httptransport.ElectionDetailResponse, error) {
	view, err := h.Statistics.LatestElection(ctx)
	if err != nil {
		return httptransport.ElectionDetailResponse{}, err
	}
	return mapElectionView(view), nil
}

func (h Handler) EligibilityHandler(
	ctx context.Context,
	electionID string,
	userID string,
) (httptransport.EligibilityResponse, error) {
	eligibility, err := h.Votes.CheckEligibility(ctx, electionID, userID)
	if err != nil {
		return httptransport.EligibilityResponse{}, err
	}
	return httptransport.EligibilityResponse{
		WindowOpen: eligibility.WindowOpen,
		OnList:     eligibility.OnList,
		HasVoted:   eligibility.HasVoted,
		Allowed:    eligibility.Allowed,
	}, nil
}

func (h Handler) CastVoteHandler(
	ctx context.Context,
	electionID string,
	userID string,
	req httptransport.CastVoteRequest,
) (httptransport.VoteResponse, error) {
	selections := make([]commands.Selection, 0, len(req.Selections))
	for _, selection := range req.Selections {
		selections = append(selections, commands.Selection{
			CandidateID: selection.CandidateID,
			Variant:     entities.BallotMethod(selection.Variant),
			Points:      selection.Points,
		})
	}
	result, err := h.Votes.CastVote(ctx, commands.CastVoteCommand{
		ElectionID: electionID,
		AccountID:  userID,
		Selections: selections,
	})
	if err != nil {
		return httptransport.VoteResponse{}, err
	}
	return httptransport.VoteResponse{
		VoteID:     result.Vote.VoteID,
		ElectionID: result.Vote.ElectionID,
		Anonymous:  result.Vote.Anonymous(),
		CreatedAt:  result.Vote.CreatedAt,
		Entries:    mapEntries(result.Entries),
	}, nil
}

func (h Handler) DisassociateHandler(
	ctx context.Context,
	electionID string,
	req httptransport.DisassociateRequest,
) (httptransport.DisassociateResponse, error) {
	cleared, err := h.Votes.DisassociateAccounts(ctx, commands.DisassociateCommand{
		ElectionID: electionID,
		Confirm:    req.Confirm,
	})
	if err != nil {
		return httptransport.DisassociateResponse{}, err
	}
	return httptransport.DisassociateResponse{
		ElectionID:   electionID,
		VotesCleared: cleared,
	}, nil
}

func (h Handler) StatisticsHandler(ctx context.Context, electionID string) (httptransport.StatisticsResponse, error) {
	stats, err := h.Statistics.FullStatistics(ctx, electionID)
	if err != nil {
		return httptransport.StatisticsResponse{}, err
	}
	ballots := make([]httptransport.BallotResponse, 0, len(stats.Ballots))
	for _, ballot := range stats.Ballots {
		ballots = append(ballots, mapBallot(ballot))
	}
	candidates := make([]httptransport.CandidateResponse, 0, len(stats.Candidates))
	for _, candidate := range stats.Candidates {
		candidates = append(candidates, mapCandidate(candidate))
	}
	return httptransport.StatisticsResponse{
		ElectionID: electionID,
		Ballots:    ballots,
		Candidates: candidates,
		Rows:       mapTallyRows(stats.Rows),
	}, nil
}

func (h Handler) SpreadsheetHandler(ctx context.Context, electionID string) (httptransport.SpreadsheetResponse, error) {
	data, err := h.Statistics.Spreadsheet(ctx, electionID)
	if err != nil {
		return httptransport.SpreadsheetResponse{}, err
	}
	return httptransport.SpreadsheetResponse{
		ElectionID: electionID,
		Ballots:    mapBallotSections(data.Ballots),
		Rows:       mapTallyRows(data.Rows),
	}, nil
}

func (h Handler) BiographiesHandler(ctx context.Context, electionID string) (httptransport.BiographiesResponse, error) {
	ballots, err := h.Statistics.Biographies(ctx, electionID)
	if err != nil {
		return httptransport.BiographiesResponse{}, err
	}
	return httptransport.BiographiesResponse{
		ElectionID: electionID,
		Ballots:    mapBallotSections(ballots),
	}, nil
}

func (h Handler) BallotStatsHandler(ctx context.Context, ballotID string) (httptransport.BallotStatsResponse, error) {
	ballot, err := h.Statistics.Elections.GetBallot(ctx, ballotID)
	if err != nil {
		return httptransport.BallotStatsResponse{}, err
	}
	stats, err := h.Statistics.CandidateStats(ctx, ballotID)
	if err != nil {
		return httptransport.BallotStatsResponse{}, err
	}
	hasIncumbents, err := h.Statistics.HasIncumbents(ctx, ballotID)
	if err != nil {
		return httptransport.BallotStatsResponse{}, err
	}
	items := make([]httptransport.CandidateStatResponse, 0, len(stats))
	for _, stat := range stats {
		items = append(items, httptransport.CandidateStatResponse{
			Candidate: mapCandidate(stat.Candidate),
			Total:     stat.Total,
		})
	}
	return httptransport.BallotStatsResponse{
		BallotID:      ballot.BallotID,
		Method:        string(ballot.Method),
		HasIncumbents: hasIncumbents,
		Items:         items,
	}, nil
}

func (h Handler) VoteDetailsHandler(ctx context.Context, voteID string) (httptransport.VoteDetailsResponse, error) {
	vote, details, err := h.Statistics.VoteDetails(ctx, voteID)
	if err != nil {
		return httptransport.VoteDetailsResponse{}, err
	}
	ballots := make([]httptransport.VoteBallotEntries, 0, len(details))
	for _, detail := range details {
		ballots = append(ballots, httptransport.VoteBallotEntries{
			Ballot:  mapBallot(detail.Ballot),
			Entries: mapEntries(detail.Entries),
		})
	}
	return httptransport.VoteDetailsResponse{
		VoteID:     vote.VoteID,
		ElectionID: vote.ElectionID,
		Anonymous:  vote.Anonymous(),
		CreatedAt:  vote.CreatedAt,
		Ballots:    ballots,
	}, nil
}

func mapElection(election entities.Election) httptransport.ElectionResponse {
	return httptransport.ElectionResponse{
		ElectionID:   election.ElectionID,
		Name:         election.Name,
		Introduction: election.Introduction,
		VoteStart:    election.VoteStart,
		VoteEnd:      election.VoteEnd,
	}
}

func mapElectionView(view queries.ElectionView) httptransport.ElectionDetailResponse {
	return httptransport.ElectionDetailResponse{
		Election: mapElection(view.Election),
		Ballots:  mapBallotSections(view.Ballots),
	}
}

func mapBallot(ballot entities.Ballot) httptransport.BallotResponse {
	return httptransport.BallotResponse{
		BallotID:       ballot.BallotID,
		ElectionID:     ballot.ElectionID,
		Method:         string(ballot.Method),
		SeatsAvailable: ballot.SeatsAvailable,
		Description:    ballot.Description,
	}
}

func mapCandidate(candidate entities.Candidate) httptransport.CandidateResponse {
	return httptransport.CandidateResponse{
		CandidateID: candidate.CandidateID,
		BallotID:    candidate.BallotID,
		FirstName:   candidate.FirstName,
		LastName:    candidate.LastName,
		Institution: candidate.Institution,
		Incumbent:   candidate.Incumbent,
		WriteIn:     candidate.WriteIn,
		Biography:   candidate.Biography,
		DisplayName: candidate.DisplayName(),
	}
}

func mapBallotSections(ballots []entities.BallotCandidates) []httptransport.BallotCandidatesSection {
	sections := make([]httptransport.BallotCandidatesSection, 0, len(ballots))
	for _, ballot := range ballots {
		candidates := make([]httptransport.CandidateResponse, 0, len(ballot.Candidates))
		for _, candidate := range ballot.Candidates {
			candidates = append(candidates, mapCandidate(candidate))
		}
		sections = append(sections, httptransport.BallotCandidatesSection{
			Ballot:     mapBallot(ballot.Ballot),
			Candidates: candidates,
		})
	}
	return sections
}

func mapTallyRows(rows []entities.VoteTallyRow) []httptransport.VoteTallyRowResponse {
	items := make([]httptransport.VoteTallyRowResponse, 0, len(rows))
	for _, row := range rows {
		items = append(items, httptransport.VoteTallyRowResponse{
			VoteID:    row.Vote.VoteID,
			Anonymous: row.Vote.Anonymous(),
			Points:    row.Points,
		})
	}
	return items
}

func mapEntries(entries []entities.VoteEntry) []httptransport.VoteEntryResponse {
	items := make([]httptransport.VoteEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, httptransport.VoteEntryResponse{
			EntryID:     entry.EntryID,
			CandidateID: entry.CandidateID,
			Variant:     string(entry.Variant),
			Points:      entry.Points,
		})
	}
	return items
}
