package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type PollID string

// UnmarshalJSON accepts both string and numeric ids.
func (id *PollID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = PollID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("poll id: %w", err)
	}
	*id = PollID(n.String())
	return nil
}

type Poll struct {
	ID        PollID    `json:"id"`
	Title     string    `json:"title"`
	Options   []string  `json:"options"`
	Votes     []int     `json:"votes"`
	CreatedAt time.Time `json:"created_at"`
}

var createdAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func (p *Poll) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID        PollID   `json:"id"`
		Title     string   `json:"title"`
		Question  string   `json:"question"`
		Options   []string `json:"options"`
		Votes     []int    `json:"votes"`
		CreatedAt string   `json:"created_at"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.ID = raw.ID
	p.Title = raw.Title
	if p.Title == "" {
		p.Title = raw.Question
	}
	p.Options = raw.Options
	p.Votes = raw.Votes
	p.CreatedAt = time.Time{}

	if s := strings.TrimSpace(raw.CreatedAt); s != "" {
		for _, layout := range createdAtLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				p.CreatedAt = t
				break
			}
		}
	}
	return nil
}

// VoteCount returns the votes recorded for option i, reading a missing entry as 0.
func (p Poll) VoteCount(i int) int {
	if i < 0 || i >= len(p.Votes) {
		return 0
	}
	return p.Votes[i]
}

func (p Poll) Validate() error {
	if len(p.Options) != len(p.Votes) {
		return fmt.Errorf("%w: %d options but %d vote counts", ErrInvalidPoll, len(p.Options), len(p.Votes))
	}
	for i, v := range p.Votes {
		if v < 0 {
			return fmt.Errorf("%w: negative vote count for option %d", ErrInvalidPoll, i)
		}
	}
	return nil
}

type OptionTally struct {
	Label      string
	Votes      int
	Percentage float64
}

type Tally struct {
	TotalVotes int
	Options    []OptionTally
}
