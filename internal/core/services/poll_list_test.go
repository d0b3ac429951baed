package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/pollweb/internal/core/domain"
)

func TestPollListStates(t *testing.T) {
	list := NewPollList()
	assert.Equal(t, StateLoading, list.State())
	assert.False(t, list.IsEmpty())

	list.Resolve(samplePolls(), nil)
	assert.Equal(t, StateSuccess, list.State())
	assert.Len(t, list.Polls(), 2)
	assert.Empty(t, list.Err())

	list.Begin()
	assert.Equal(t, StateLoading, list.State())

	list.Resolve(nil, errServiceDown)
	assert.Equal(t, StateFailure, list.State())
	assert.Equal(t, "service down", list.Err())
	assert.Nil(t, list.Polls())

	list.Begin()
	list.Resolve([]domain.Poll{}, nil)
	assert.True(t, list.IsEmpty())
	assert.Empty(t, list.Err())
}

func TestListStateString(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "success", StateSuccess.String())
	assert.Equal(t, "failure", StateFailure.String())
	assert.Equal(t, "ListState(9)", ListState(9).String())
}

func TestPollListBeginVote(t *testing.T) {
	list := NewPollList()
	list.Resolve(samplePolls(), nil)

	_, err := list.BeginVote("missing", 0)
	assert.ErrorIs(t, err, domain.ErrPollNotFound)

	_, err = list.BeginVote("p1", 2)
	assert.ErrorIs(t, err, domain.ErrInvalidOption)
	_, err = list.BeginVote("p1", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidOption)
	assert.False(t, list.Voting())

	vote, err := list.BeginVote("p1", 1)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteSubmission{PollID: "p1", OptionIndex: 1}, vote)
	assert.True(t, list.Voting())

	_, err = list.BeginVote("p2", 0)
	assert.ErrorIs(t, err, domain.ErrVoteInFlight)

	assert.True(t, list.EndVote(nil))
	assert.False(t, list.Voting())
	assert.Equal(t, StateLoading, list.State(), "a successful vote triggers a re-fetch")
}

func TestPollListEndVoteFailure(t *testing.T) {
	list := NewPollList()
	polls := samplePolls()
	list.Resolve(polls, nil)

	_, err := list.BeginVote("p1", 0)
	require.NoError(t, err)

	assert.False(t, list.EndVote(errServiceDown))
	assert.Equal(t, StateSuccess, list.State())
	assert.Equal(t, polls, list.Polls())
	assert.Equal(t, "Vote failed: service down", list.Notice())

	_, err = list.BeginVote("p1", 0)
	require.NoError(t, err)
	assert.Empty(t, list.Notice(), "a new vote clears the previous notice")
}

func TestPollListItems(t *testing.T) {
	list := NewPollList()
	list.Resolve(samplePolls(), nil)

	type call struct {
		id    domain.PollID
		index int
	}
	var calls []call
	items := list.Items(func(id domain.PollID, optionIndex int) {
		calls = append(calls, call{id, optionIndex})
	})

	require.Len(t, items, 2)
	items[1].Vote(2)
	items[0].Vote(0)
	assert.Equal(t, []call{{"p2", 2}, {"p1", 0}}, calls)
}

func TestPollListServiceLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		client := &fakePollClient{polls: samplePolls()}
		list := NewPollList()

		NewPollListService(client).Load(ctx, list)

		assert.Equal(t, StateSuccess, list.State())
		assert.Len(t, list.Polls(), 2)
	})

	t.Run("empty", func(t *testing.T) {
		client := &fakePollClient{}
		list := NewPollList()

		NewPollListService(client).Load(ctx, list)

		assert.Equal(t, StateSuccess, list.State())
		assert.True(t, list.IsEmpty())
	})

	t.Run("failure keeps the error message", func(t *testing.T) {
		client := &fakePollClient{listErr: &domain.NetworkError{Op: "list polls", StatusCode: 500, Err: errServiceDown}}
		list := NewPollList()

		NewPollListService(client).Load(ctx, list)

		assert.Equal(t, StateFailure, list.State())
		assert.Equal(t, "list polls: unexpected status 500: service down", list.Err())
	})
}

func TestPollListServiceVote(t *testing.T) {
	ctx := context.Background()

	t.Run("success re-fetches the recount", func(t *testing.T) {
		client := &fakePollClient{polls: samplePolls()}
		svc := NewPollListService(client)
		list := NewPollList()
		svc.Load(ctx, list)

		err := svc.Vote(ctx, list, "p1", 1)
		require.NoError(t, err)

		assert.Equal(t, []domain.VoteSubmission{{PollID: "p1", OptionIndex: 1}}, client.votes)
		assert.Equal(t, 2, client.listCalls)
		assert.Equal(t, StateSuccess, list.State())

		poll, ok := list.Find("p1")
		require.True(t, ok)
		assert.Equal(t, []int{3, 2}, poll.Votes)
	})

	t.Run("invalid option sends nothing", func(t *testing.T) {
		client := &fakePollClient{polls: samplePolls()}
		svc := NewPollListService(client)
		list := NewPollList()
		svc.Load(ctx, list)

		err := svc.Vote(ctx, list, "p1", 5)
		assert.ErrorIs(t, err, domain.ErrInvalidOption)
		assert.True(t, IsClientError(err))
		assert.Empty(t, client.votes)
		assert.Equal(t, 1, client.listCalls)
	})

	t.Run("failure keeps polls and sets a notice", func(t *testing.T) {
		client := &fakePollClient{polls: samplePolls(), voteErr: errServiceDown}
		svc := NewPollListService(client)
		list := NewPollList()
		svc.Load(ctx, list)

		err := svc.Vote(ctx, list, "p1", 0)
		assert.ErrorIs(t, err, errServiceDown)
		assert.False(t, IsClientError(err))
		assert.Equal(t, 1, client.listCalls, "no re-fetch after a failed vote")
		assert.Equal(t, StateSuccess, list.State())
		assert.Equal(t, []int{3, 1}, list.Polls()[0].Votes)
		assert.Equal(t, "Vote failed: service down", list.Notice())
		assert.False(t, list.Voting())
	})

	t.Run("second vote while one is outstanding", func(t *testing.T) {
		client := &fakePollClient{polls: samplePolls()}
		svc := NewPollListService(client)
		list := NewPollList()
		svc.Load(ctx, list)

		_, err := list.BeginVote("p1", 0)
		require.NoError(t, err)

		err = svc.Vote(ctx, list, "p2", 0)
		assert.ErrorIs(t, err, domain.ErrVoteInFlight)
		assert.Empty(t, client.votes)
	})
}
