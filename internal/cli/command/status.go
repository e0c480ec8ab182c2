package command

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/macpulse-go/internal/cli/connection"
	"github.com/yndnr/macpulse-go/internal/cli/output"
)

// StatusCommand returns the status command.
func StatusCommand() *cli.Command {
	return &cli.Command{
		Name:   "status",
		Usage:  "Check server health and version",
		Action: statusAction,
	}
}

func statusAction(c *cli.Context) error {
	client := Client(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/health")
	if err != nil {
		PrintError("health check failed: %v", err)
		return fmt.Errorf("server unreachable")
	}

	var health struct {
		Status  string `json:"status"`
		Service string `json:"service"`
		Version string `json:"version"`
		Devices int    `json:"devices"`
		Time    string `json:"time"`
	}
	if err := connection.ParseResponse(resp, &health); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	if output.Format(flags.Output) == output.FormatJSON {
		return (&output.JSONFormatter{}).Format(os.Stdout, health)
	}

	if health.Status == "healthy" {
		fmt.Printf("Server is healthy\n")
	} else {
		fmt.Printf("Server is unhealthy: %s\n", health.Status)
	}
	fmt.Printf("  Target:  %s\n", client.BaseURL())
	fmt.Printf("  Version: %s\n", health.Version)
	fmt.Printf("  Devices: %d\n", health.Devices)
	return nil
}
