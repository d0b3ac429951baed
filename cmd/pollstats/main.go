package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/vncsmyrnk/pollweb/internal/adapters/pollservice"
	"github.com/vncsmyrnk/pollweb/internal/config"
	"github.com/vncsmyrnk/pollweb/internal/core/domain"
	"github.com/vncsmyrnk/pollweb/internal/core/services"
	"github.com/vncsmyrnk/pollweb/internal/logging"
)

type optionStats struct {
	Option     string  `json:"option"`
	Votes      int     `json:"votes"`
	Percentage float64 `json:"percentage"`
}

type pollStats struct {
	ID         domain.PollID `json:"id"`
	Title      string        `json:"title"`
	TotalVotes int           `json:"total_votes"`
	Options    []optionStats `json:"options"`
}

func main() {
	conf, err := config.Load()
	if err != nil {
		logging.Log.Fatalf("failed to load config: %v", err)
	}

	var asJSON bool
	flag.StringVar(&conf.BaseURL, "poll-service", conf.BaseURL, "Poll service base URL")
	flag.BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	flag.Parse()

	logging.BootstrapLogger(conf.Level, os.Stderr)

	client, err := pollservice.NewClient(conf.BaseURL, conf.Timeout)
	if err != nil {
		logging.Log.Fatal(err)
	}

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	polls, err := client.ListPolls(ctx)
	if err != nil {
		logging.Log.Fatalf("Error listing polls: %v", err)
	}

	stats := summarize(polls)
	if asJSON {
		err = json.NewEncoder(os.Stdout).Encode(stats)
	} else {
		err = printTable(os.Stdout, stats)
	}
	if err != nil {
		logging.Log.Fatal(err)
	}
}

func summarize(polls []domain.Poll) []pollStats {
	out := make([]pollStats, 0, len(polls))
	for _, p := range polls {
		tally := services.TallyPoll(p)
		s := pollStats{ID: p.ID, Title: p.Title, TotalVotes: tally.TotalVotes}
		for _, opt := range tally.Options {
			s.Options = append(s.Options, optionStats{Option: opt.Label, Votes: opt.Votes, Percentage: opt.Percentage})
		}
		out = append(out, s)
	}
	return out
}

func printTable(w io.Writer, stats []pollStats) error {
	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, "No polls yet.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "POLL\tOPTION\tVOTES\tSHARE")
	for _, s := range stats {
		for _, opt := range s.Options {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", s.Title, opt.Option, opt.Votes, services.FormatPercentage(opt.Percentage))
		}
		fmt.Fprintf(tw, "%s\t(total)\t%d\t\n", s.Title, s.TotalVotes)
	}
	return tw.Flush()
}
