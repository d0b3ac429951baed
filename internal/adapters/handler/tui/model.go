package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vncsmyrnk/pollweb/internal/core/domain"
	"github.com/vncsmyrnk/pollweb/internal/core/ports"
	"github.com/vncsmyrnk/pollweb/internal/core/services"
	"github.com/vncsmyrnk/pollweb/internal/logging"
)

type pollsLoadedMsg struct {
	polls []domain.Poll
	err   error
}

type voteDoneMsg struct {
	pollID      domain.PollID
	optionIndex int
	err         error
}

// Model is the poll list screen. All state changes happen in Update, on the
// program's event loop; network calls run as commands and report back as
// messages.
type Model struct {
	ctx     context.Context
	client  ports.PollClient
	session *domain.Session
	list    *services.PollList

	cursor int
	status string
}

func New(ctx context.Context, client ports.PollClient, session *domain.Session) Model {
	if session != nil {
		ctx = domain.ContextWithSession(ctx, session)
	}
	return Model{
		ctx:     ctx,
		client:  client,
		session: session,
		list:    services.NewPollList(),
	}
}

func (m Model) List() *services.PollList { return m.list }

func (m Model) Cursor() int { return m.cursor }

func (m Model) Status() string { return m.status }

func (m Model) Init() tea.Cmd {
	return m.fetch()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pollsLoadedMsg:
		m.list.Resolve(msg.polls, msg.err)
		if msg.err != nil {
			logging.Log.Errorf("failed to load polls: %v", msg.err)
		}
		m.cursor = clamp(m.cursor, 0, m.optionCount()-1)
		return m, nil

	case voteDoneMsg:
		if m.list.EndVote(msg.err) {
			m.status = "Vote recorded"
			return m, m.fetch()
		}
		logging.Log.Warnf("vote on poll %s option %d failed: %v", msg.pollID, msg.optionIndex, msg.err)
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < m.optionCount()-1 {
			m.cursor++
		}
	case "r":
		if m.list.State() != services.StateLoading && !m.list.Voting() {
			m.status = ""
			return m, m.fetch()
		}
	case "enter", " ":
		return m.voteAtCursor()
	}
	return m, nil
}

// voteAtCursor hands the highlighted option to its poll item, whose callback
// starts the vote on the list.
func (m Model) voteAtCursor() (tea.Model, tea.Cmd) {
	if m.list.State() != services.StateSuccess {
		return m, nil
	}
	pollIdx, optIdx, ok := m.locate(m.cursor)
	if !ok {
		return m, nil
	}

	var cmd tea.Cmd
	items := m.list.Items(func(id domain.PollID, optionIndex int) {
		vote, err := m.list.BeginVote(id, optionIndex)
		if err != nil {
			if errors.Is(err, domain.ErrVoteInFlight) {
				m.status = "Still submitting the previous vote"
			} else {
				m.status = "Vote rejected: " + err.Error()
			}
			return
		}
		m.status = "Submitting vote..."
		cmd = m.submit(vote)
	})
	items[pollIdx].Vote(optIdx)
	return m, cmd
}

func (m Model) fetch() tea.Cmd {
	m.list.Begin()
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		polls, err := client.ListPolls(ctx)
		return pollsLoadedMsg{polls: polls, err: err}
	}
}

func (m Model) submit(vote domain.VoteSubmission) tea.Cmd {
	ctx, client := m.ctx, m.client
	return func() tea.Msg {
		err := client.SubmitVote(ctx, vote)
		return voteDoneMsg{pollID: vote.PollID, optionIndex: vote.OptionIndex, err: err}
	}
}

func (m Model) optionCount() int {
	n := 0
	for _, p := range m.list.Polls() {
		n += len(p.Options)
	}
	return n
}

// locate maps a flat cursor position to a poll and one of its options.
func (m Model) locate(cursor int) (pollIdx, optIdx int, ok bool) {
	for i, p := range m.list.Polls() {
		if cursor < len(p.Options) {
			return i, cursor, true
		}
		cursor -= len(p.Options)
	}
	return 0, 0, false
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
