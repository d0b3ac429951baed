package services

import (
	"context"
	"errors"
	"sync"

	"github.com/vncsmyrnk/pollweb/internal/core/domain"
	"github.com/vncsmyrnk/pollweb/internal/core/ports"
)

// fakePollClient serves polls from memory and counts votes like the real
// service would.
type fakePollClient struct {
	mu        sync.Mutex
	polls     []domain.Poll
	listErr   error
	voteErr   error
	createErr error

	listCalls int
	votes     []domain.VoteSubmission
	created   []ports.CreatePollInput
}

func (f *fakePollClient) ListPolls(ctx context.Context) ([]domain.Poll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Poll, len(f.polls))
	for i, p := range f.polls {
		p.Votes = append([]int(nil), p.Votes...)
		out[i] = p
	}
	return out, nil
}

func (f *fakePollClient) GetPoll(ctx context.Context, id domain.PollID) (*domain.Poll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, p := range f.polls {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, domain.ErrPollNotFound
}

func (f *fakePollClient) CreatePoll(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, input)
	poll := domain.Poll{ID: "new", Title: input.Title, Options: input.Options, Votes: make([]int, len(input.Options))}
	f.polls = append(f.polls, poll)
	return &poll, nil
}

func (f *fakePollClient) SubmitVote(ctx context.Context, vote domain.VoteSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.votes = append(f.votes, vote)
	if f.voteErr != nil {
		return f.voteErr
	}
	for i := range f.polls {
		if f.polls[i].ID == vote.PollID {
			f.polls[i].Votes[vote.OptionIndex]++
			return nil
		}
	}
	return domain.ErrPollNotFound
}

type fakeAuthClient struct {
	token string
	err   error
	calls []ports.Credentials
}

func (f *fakeAuthClient) Login(ctx context.Context, creds ports.Credentials) (string, error) {
	f.calls = append(f.calls, creds)
	return f.token, f.err
}

func (f *fakeAuthClient) Register(ctx context.Context, creds ports.Credentials) (string, error) {
	f.calls = append(f.calls, creds)
	return f.token, f.err
}

type memoryStore struct {
	token  string
	set    bool
	getErr error
}

func (m *memoryStore) Get() (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	return m.token, m.set, nil
}

func (m *memoryStore) Set(token string) error {
	m.token, m.set = token, true
	return nil
}

func (m *memoryStore) Clear() error {
	m.token, m.set = "", false
	return nil
}

var errServiceDown = errors.New("service down")

func samplePolls() []domain.Poll {
	return []domain.Poll{
		{ID: "p1", Title: "Colour?", Options: []string{"Red", "Blue"}, Votes: []int{3, 1}},
		{ID: "p2", Title: "Lunch", Options: []string{"Pizza", "Salad", "Soup"}, Votes: []int{0, 0, 0}},
	}
}
