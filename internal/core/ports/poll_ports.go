package ports

import (
	"context"

	"github.com/vncsmyrnk/pollweb/internal/core/domain"
)

// PollClient is the remote poll service as seen by the client. Every call
// reflects server state at call time.
type PollClient interface {
	ListPolls(ctx context.Context) ([]domain.Poll, error)
	GetPoll(ctx context.Context, id domain.PollID) (*domain.Poll, error)
	CreatePoll(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	SubmitVote(ctx context.Context, vote domain.VoteSubmission) error
}

type CreatePollInput struct {
	Title   string
	Options []string
}
