package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/vncsmyrnk/pollweb/internal/core/domain"
	"github.com/vncsmyrnk/pollweb/internal/core/ports"
	"github.com/vncsmyrnk/pollweb/internal/logging"
)

const minPollOptions = 2

type PollDraft struct {
	Title   string
	Options []string
}

func NewPollDraft() *PollDraft {
	return &PollDraft{Options: make([]string, minPollOptions)}
}

func (d *PollDraft) AddOption() {
	d.Options = append(d.Options, "")
}

// Input trims the draft, drops blank options and checks what is left.
func (d *PollDraft) Input() (ports.CreatePollInput, error) {
	input := ports.CreatePollInput{Title: strings.TrimSpace(d.Title)}
	if input.Title == "" {
		return ports.CreatePollInput{}, fmt.Errorf("%w: title is required", domain.ErrInvalidPoll)
	}

	for _, opt := range d.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		input.Options = append(input.Options, opt)
	}
	if len(input.Options) < minPollOptions {
		return ports.CreatePollInput{}, fmt.Errorf("%w: at least two options are required", domain.ErrInvalidPoll)
	}
	return input, nil
}

type PollFormService struct {
	client ports.PollClient
}

func NewPollFormService(client ports.PollClient) *PollFormService {
	return &PollFormService{client: client}
}

func (s *PollFormService) Submit(ctx context.Context, draft *PollDraft) (*domain.Poll, error) {
	input, err := draft.Input()
	if err != nil {
		return nil, err
	}

	poll, err := s.client.CreatePoll(ctx, input)
	if err != nil {
		logging.Log.Errorf("failed to create poll %q: %v", input.Title, err)
		return nil, fmt.Errorf("failed to create poll: %w", err)
	}

	logging.Log.Infof("created poll %s", poll.ID)
	return poll, nil
}
