package command

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/macpulse-go/internal/cli/connection"
	"github.com/yndnr/macpulse-go/internal/cli/output"
)

// statsResult mirrors the server's GET /stats payload.
type statsResult struct {
	Cache struct {
		TotalEntries    int           `json:"total_entries"`
		ActiveEntries   int           `json:"active_entries"`
		StaleEntries    int           `json:"stale_entries"`
		TotalHeartbeats uint64        `json:"total_heartbeats"`
		OldestEntryAge  time.Duration `json:"oldest_entry_age"`
		NewestEntryAge  time.Duration `json:"newest_entry_age"`
		StaleThreshold  time.Duration `json:"stale_threshold"`
	} `json:"cache"`
	Operations map[string]struct {
		Invocations  uint64        `json:"invocations"`
		TotalElapsed time.Duration `json:"total_elapsed"`
		Mean         time.Duration `json:"mean"`
	} `json:"operations"`
	Aggregate struct {
		Invocations  uint64        `json:"invocations"`
		TotalElapsed time.Duration `json:"total_elapsed"`
		Mean         time.Duration `json:"mean"`
	} `json:"aggregate"`
}

// StatsCommand returns the stats command.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show cache and operation statistics",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Reset operation counters after reading them",
			},
			&cli.Int64Flag{
				Name:  "stale-threshold",
				Usage: "Stale threshold in seconds for the cache roll-up",
			},
		},
		Action: statsAction,
	}
}

func statsAction(c *cli.Context) error {
	client := Client(c)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var (
		resp *http.Response
		err  error
	)
	if c.Bool("reset") {
		resp, err = client.Post(ctx, "/stats/reset", nil)
	} else {
		path := "/stats"
		if secs := c.Int64("stale-threshold"); secs > 0 {
			path = fmt.Sprintf("/stats?stale_threshold_seconds=%d", secs)
		}
		resp, err = client.Get(ctx, path)
	}
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var stats statsResult
	if err := connection.ParseResponse(resp, &stats); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	if output.Format(flags.Output) == output.FormatJSON {
		return (&output.JSONFormatter{}).Format(os.Stdout, stats)
	}

	fmt.Printf("Cache\n")
	fmt.Printf("  Entries:          %d (%d active, %d stale)\n",
		stats.Cache.TotalEntries, stats.Cache.ActiveEntries, stats.Cache.StaleEntries)
	fmt.Printf("  Total heartbeats: %d\n", stats.Cache.TotalHeartbeats)
	fmt.Printf("  Oldest entry age: %s\n", stats.Cache.OldestEntryAge)
	fmt.Printf("  Newest entry age: %s\n", stats.Cache.NewestEntryAge)
	fmt.Printf("  Stale threshold:  %s\n\n", stats.Cache.StaleThreshold)

	table := output.NewTable("OPERATION", "INVOCATIONS", "TOTAL", "MEAN")
	names := make([]string, 0, len(stats.Operations))
	for name := range stats.Operations {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		op := stats.Operations[name]
		table.AddRow(name, op.Invocations, op.TotalElapsed, op.Mean)
	}
	table.AddRow("(all)", stats.Aggregate.Invocations, stats.Aggregate.TotalElapsed, stats.Aggregate.Mean)
	return table.Render(os.Stdout)
}
