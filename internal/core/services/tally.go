package services

import (
	"fmt"

	"github.com/vncsmyrnk/pollweb/internal/core/domain"
)

// TallyPoll derives per-option counts and percentages. A poll without votes
// yields 0% for every option.
func TallyPoll(poll domain.Poll) domain.Tally {
	total := 0
	for _, v := range poll.Votes {
		total += v
	}

	tally := domain.Tally{
		TotalVotes: total,
		Options:    make([]domain.OptionTally, len(poll.Options)),
	}
	for i, label := range poll.Options {
		count := poll.VoteCount(i)
		percentage := 0.0
		if total > 0 {
			percentage = (float64(count) / float64(total)) * 100
		}
		tally.Options[i] = domain.OptionTally{
			Label:      label,
			Votes:      count,
			Percentage: percentage,
		}
	}
	return tally
}

func FormatPercentage(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func FormatVotes(n int) string {
	if n == 1 {
		return "1 vote"
	}
	return fmt.Sprintf("%d votes", n)
}
