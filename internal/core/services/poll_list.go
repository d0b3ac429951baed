package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/vncsmyrnk/pollweb/internal/core/domain"
	"github.com/vncsmyrnk/pollweb/internal/core/ports"
	"github.com/vncsmyrnk/pollweb/internal/logging"
)

type ListState int

const (
	StateLoading ListState = iota
	StateSuccess
	StateFailure
)

func (s ListState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSuccess:
		return "success"
	case StateFailure:
		return "failure"
	default:
		return fmt.Sprintf("ListState(%d)", int(s))
	}
}

// PollList is the state of a poll list screen. It is owned by a single event
// loop (a terminal program or one HTTP request) and is not safe for
// concurrent use.
type PollList struct {
	state  ListState
	polls  []domain.Poll
	err    string
	notice string
	voting bool
}

func NewPollList() *PollList {
	return &PollList{state: StateLoading}
}

func (l *PollList) State() ListState { return l.state }

func (l *PollList) Polls() []domain.Poll { return l.polls }

// Err is the failure message, verbatim from the error that caused it.
func (l *PollList) Err() string { return l.err }

// Notice reports the last vote failure, if any.
func (l *PollList) Notice() string { return l.notice }

func (l *PollList) Voting() bool { return l.voting }

func (l *PollList) IsEmpty() bool {
	return l.state == StateSuccess && len(l.polls) == 0
}

// Begin puts the list back into Loading before a (re-)fetch.
func (l *PollList) Begin() {
	l.state = StateLoading
	l.err = ""
}

func (l *PollList) Resolve(polls []domain.Poll, err error) {
	if err != nil {
		l.state = StateFailure
		l.polls = nil
		l.err = err.Error()
		return
	}
	l.state = StateSuccess
	l.polls = polls
	l.err = ""
}

func (l *PollList) Find(id domain.PollID) (domain.Poll, bool) {
	for _, p := range l.polls {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Poll{}, false
}

// BeginVote validates the choice against the displayed poll and marks a vote
// as outstanding. Only one vote may be outstanding at a time.
func (l *PollList) BeginVote(id domain.PollID, optionIndex int) (domain.VoteSubmission, error) {
	if l.voting {
		return domain.VoteSubmission{}, domain.ErrVoteInFlight
	}
	poll, ok := l.Find(id)
	if !ok {
		return domain.VoteSubmission{}, domain.ErrPollNotFound
	}
	vote, err := domain.NewVoteSubmission(poll, optionIndex)
	if err != nil {
		return domain.VoteSubmission{}, err
	}
	l.voting = true
	l.notice = ""
	return vote, nil
}

// EndVote records the outcome of the outstanding vote and reports whether the
// list must be re-fetched. A failed vote leaves the displayed polls as they are.
func (l *PollList) EndVote(err error) bool {
	l.voting = false
	if err != nil {
		l.notice = "Vote failed: " + err.Error()
		return false
	}
	l.Begin()
	return true
}

func (l *PollList) Items(onVote func(id domain.PollID, optionIndex int)) []PollItem {
	items := make([]PollItem, len(l.polls))
	for i, p := range l.polls {
		id := p.ID
		items[i] = NewPollItem(p, func(optionIndex int) {
			if onVote != nil {
				onVote(id, optionIndex)
			}
		})
	}
	return items
}

// PollListService drives a PollList against the poll service for callers that
// can block on the network, such as HTTP handlers.
type PollListService struct {
	client ports.PollClient
}

func NewPollListService(client ports.PollClient) *PollListService {
	return &PollListService{client: client}
}

func (s *PollListService) Load(ctx context.Context, list *PollList) {
	list.Begin()
	polls, err := s.client.ListPolls(ctx)
	if err != nil {
		logging.Log.Errorf("failed to load polls: %v", err)
	}
	list.Resolve(polls, err)
}

// Vote submits a vote for a poll currently in the list and re-fetches the list
// on success so the tallies shown are the server's recount.
func (s *PollListService) Vote(ctx context.Context, list *PollList, id domain.PollID, optionIndex int) error {
	vote, err := list.BeginVote(id, optionIndex)
	if err != nil {
		return err
	}

	err = s.client.SubmitVote(ctx, vote)
	if !list.EndVote(err) {
		logging.Log.Warnf("vote on poll %s option %d failed: %v", id, optionIndex, err)
		return fmt.Errorf("failed to submit vote: %w", err)
	}

	s.Load(ctx, list)
	return nil
}

// IsClientError reports whether err stems from the caller's input rather than
// from the poll service.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrInvalidOption) ||
		errors.Is(err, domain.ErrPollNotFound) ||
		errors.Is(err, domain.ErrVoteInFlight)
}
