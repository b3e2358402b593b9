package errors

import "errors"

var (
	ErrVotingNotAllowed      = errors.New("voting is not allowed for this account")
	ErrDuplicateVote         = errors.New("account has already voted in this election")
	ErrBallotTypeMismatch    = errors.New("entry variant does not match ballot method")
	ErrEmptyVote             = errors.New("vote contains no selections")
	ErrElectionNotFound      = errors.New("election not found")
	ErrNoCurrentElection     = errors.New("no current election")
	ErrBallotNotFound        = errors.New("ballot not found")
	ErrCandidateNotFound     = errors.New("candidate not found")
	ErrVoteNotFound          = errors.New("vote not found")
	ErrInvalidElectionInput  = errors.New("invalid election input")
	ErrInvalidBallotInput    = errors.New("invalid ballot input")
	ErrInvalidCandidateInput = errors.New("invalid candidate input")
	ErrInvalidVoteInput      = errors.New("invalid vote input")
	ErrConfirmationRequired  = errors.New("explicit confirmation is required")
	ErrConflict              = errors.New("conflicting write")
)
