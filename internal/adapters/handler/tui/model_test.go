package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/pollweb/internal/core/domain"
	"github.com/vncsmyrnk/pollweb/internal/core/ports"
	"github.com/vncsmyrnk/pollweb/internal/core/services"
)

type stubClient struct {
	polls    []domain.Poll
	listErr  error
	voteErr  error
	votes    []domain.VoteSubmission
	sessions []*domain.Session
}

func (s *stubClient) ListPolls(ctx context.Context) ([]domain.Poll, error) {
	session, _ := domain.SessionFromContext(ctx)
	s.sessions = append(s.sessions, session)
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.Poll, len(s.polls))
	for i, p := range s.polls {
		p.Votes = append([]int(nil), p.Votes...)
		out[i] = p
	}
	return out, nil
}

func (s *stubClient) GetPoll(ctx context.Context, id domain.PollID) (*domain.Poll, error) {
	return nil, domain.ErrPollNotFound
}

func (s *stubClient) CreatePoll(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	return nil, errors.New("not supported")
}

func (s *stubClient) SubmitVote(ctx context.Context, vote domain.VoteSubmission) error {
	s.votes = append(s.votes, vote)
	if s.voteErr != nil {
		return s.voteErr
	}
	for i := range s.polls {
		if s.polls[i].ID == vote.PollID {
			s.polls[i].Votes[vote.OptionIndex]++
		}
	}
	return nil
}

func newClient() *stubClient {
	return &stubClient{polls: []domain.Poll{
		{ID: "p1", Title: "Colour?", Options: []string{"Red", "Blue"}, Votes: []int{3, 1}},
		{ID: "p2", Title: "Lunch", Options: []string{"Pizza", "Salad"}, Votes: []int{0, 0}},
	}}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds msg to the model and runs the resulting command, if any,
// returning the updated model and the message the command produced.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()

	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	if cmd == nil {
		return model, nil
	}
	return model, cmd()
}

func loaded(t *testing.T, client *stubClient) Model {
	t.Helper()

	m := New(context.Background(), client, &domain.Session{Token: "tok", Name: "alice"})
	cmd := m.Init()
	require.NotNil(t, cmd)
	assert.Equal(t, services.StateLoading, m.List().State())
	assert.Contains(t, m.View(), "Loading polls...")

	m, _ = step(t, m, cmd())
	require.Equal(t, services.StateSuccess, m.List().State())
	return m
}

func TestModelLoad(t *testing.T) {
	client := newClient()
	m := loaded(t, client)

	view := m.View()
	assert.Contains(t, view, "Poll App · alice")
	assert.Contains(t, view, "Colour?")
	assert.Contains(t, view, "> Red")
	assert.Contains(t, view, "75.0%  3 votes")

	require.Len(t, client.sessions, 1)
	require.NotNil(t, client.sessions[0])
	assert.Equal(t, "tok", client.sessions[0].Token)
}

func TestModelLoadFailure(t *testing.T) {
	client := &stubClient{listErr: errors.New("list polls: connection refused")}
	m := New(context.Background(), client, nil)

	m, _ = step(t, m, m.Init()())

	assert.Equal(t, services.StateFailure, m.List().State())
	assert.Contains(t, m.View(), "Error loading polls\nlist polls: connection refused")
}

func TestModelEmpty(t *testing.T) {
	m := loaded(t, &stubClient{})
	assert.True(t, m.List().IsEmpty())
	assert.Contains(t, m.View(), "No polls yet. Be the first to create a poll!")
}

func TestModelCursor(t *testing.T) {
	m := loaded(t, newClient())

	m, _ = step(t, m, key("k"))
	assert.Equal(t, 0, m.Cursor())

	for range 5 {
		m, _ = step(t, m, key("j"))
	}
	assert.Equal(t, 3, m.Cursor(), "cursor stops at the last option")

	m, _ = step(t, m, key("up"))
	assert.Equal(t, 2, m.Cursor())
}

func TestModelVote(t *testing.T) {
	client := newClient()
	m := loaded(t, client)

	m, _ = step(t, m, key("down"))
	m, msg := step(t, m, key("enter"))
	require.IsType(t, voteDoneMsg{}, msg)
	assert.True(t, m.List().Voting())
	assert.Equal(t, "Submitting vote...", m.Status())
	assert.Equal(t, []domain.VoteSubmission{{PollID: "p1", OptionIndex: 1}}, client.votes)

	m, msg = step(t, m, msg)
	require.IsType(t, pollsLoadedMsg{}, msg, "a recorded vote re-fetches the list")
	assert.False(t, m.List().Voting())
	assert.Equal(t, services.StateLoading, m.List().State())
	assert.Equal(t, "Vote recorded", m.Status())

	m, _ = step(t, m, msg)
	assert.Equal(t, []int{3, 2}, m.List().Polls()[0].Votes)
	assert.Contains(t, m.View(), "40.0%  2 votes")
}

func TestModelVoteWhileInFlight(t *testing.T) {
	client := newClient()
	m := loaded(t, client)

	next, cmd := m.Update(key("enter"))
	m = next.(Model)
	require.NotNil(t, cmd)

	m, msg := step(t, m, key("enter"))
	assert.Nil(t, msg)
	assert.Equal(t, "Still submitting the previous vote", m.Status())

	m, _ = step(t, m, key("r"))
	assert.Equal(t, services.StateSuccess, m.List().State(), "no refresh while a vote is outstanding")

	_ = cmd()
	assert.Len(t, client.votes, 1)
}

func TestModelVoteFailure(t *testing.T) {
	client := newClient()
	client.voteErr = errors.New("submit vote: unexpected status 500: boom")
	m := loaded(t, client)

	m, msg := step(t, m, key("enter"))
	m, next := step(t, m, msg)

	assert.Nil(t, next)
	assert.Equal(t, services.StateSuccess, m.List().State())
	assert.Equal(t, []int{3, 1}, m.List().Polls()[0].Votes)
	assert.Contains(t, m.View(), "Vote failed: submit vote: unexpected status 500: boom")
}

func TestModelRefreshAndQuit(t *testing.T) {
	client := newClient()
	m := loaded(t, client)

	m, msg := step(t, m, key("r"))
	require.IsType(t, pollsLoadedMsg{}, msg)
	assert.Equal(t, services.StateLoading, m.List().State())
	assert.Len(t, client.sessions, 2)

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
