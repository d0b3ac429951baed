package domain

type VoteSubmission struct {
	PollID      PollID `json:"-"`
	OptionIndex int    `json:"option_index"`
}

// NewVoteSubmission checks the index against the poll's options.
func NewVoteSubmission(poll Poll, optionIndex int) (VoteSubmission, error) {
	if optionIndex < 0 || optionIndex >= len(poll.Options) {
		return VoteSubmission{}, ErrInvalidOption
	}
	return VoteSubmission{PollID: poll.ID, OptionIndex: optionIndex}, nil
}
