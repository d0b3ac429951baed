package services

import (
	"github.com/vncsmyrnk/pollweb/internal/core/domain"
)

const createdDateLayout = "Jan 2, 2006"

type OptionRow struct {
	Index          int
	Label          string
	Votes          int
	VotesText      string
	Percentage     float64
	PercentageText string
}

// PollItem is the view model of a single poll. It keeps no vote state of its
// own: Vote only hands the chosen index to the owner's callback.
type PollItem struct {
	ID          domain.PollID
	Title       string
	Options     []OptionRow
	TotalVotes  int
	CreatedText string

	onVote func(optionIndex int)
}

func NewPollItem(poll domain.Poll, onVote func(optionIndex int)) PollItem {
	tally := TallyPoll(poll)

	item := PollItem{
		ID:         poll.ID,
		Title:      poll.Title,
		Options:    make([]OptionRow, len(tally.Options)),
		TotalVotes: tally.TotalVotes,
		onVote:     onVote,
	}
	if !poll.CreatedAt.IsZero() {
		item.CreatedText = poll.CreatedAt.Local().Format(createdDateLayout)
	}

	for i, opt := range tally.Options {
		item.Options[i] = OptionRow{
			Index:          i,
			Label:          opt.Label,
			Votes:          opt.Votes,
			VotesText:      FormatVotes(opt.Votes),
			Percentage:     opt.Percentage,
			PercentageText: FormatPercentage(opt.Percentage),
		}
	}
	return item
}

func (p PollItem) TotalVotesText() string {
	return FormatVotes(p.TotalVotes)
}

func (p PollItem) Vote(optionIndex int) {
	if p.onVote != nil {
		p.onVote(optionIndex)
	}
}
