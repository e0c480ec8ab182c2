package command

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/macpulse-go/internal/cli/connection"
	"github.com/yndnr/macpulse-go/internal/cli/output"
)

// deviceResult mirrors one device in server responses.
type deviceResult struct {
	MAC            string  `json:"mac"`
	DeviceID       string  `json:"device_id"`
	IPAddress      string  `json:"ip_address"`
	LastPort       *int    `json:"last_port"`
	LastSeen       int64   `json:"last_seen"`
	HeartbeatCount uint64  `json:"heartbeat_count"`
	AgeSeconds     float64 `json:"age_seconds"`
}

// DevicesCommand returns the devices subcommand group.
func DevicesCommand() *cli.Command {
	return &cli.Command{
		Name:    "devices",
		Aliases: []string{"dev"},
		Usage:   "Inspect and manage cached devices",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached devices",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "ip", Usage: "Filter by IP substring"},
					&cli.StringFlag{Name: "device", Usage: "Filter by device ID substring"},
					&cli.StringFlag{Name: "mac", Usage: "Filter by MAC substring"},
					&cli.Uint64Flag{Name: "min-heartbeats", Usage: "Minimum heartbeat count"},
					&cli.Int64Flag{Name: "older-than", Usage: "Minimum entry age in seconds"},
				},
				Action: devicesList,
			},
			{
				Name:      "get",
				Usage:     "Show one device by MAC address",
				ArgsUsage: "MAC",
				Action:    devicesGet,
			},
			{
				Name:      "remove",
				Usage:     "Remove one device by MAC address",
				ArgsUsage: "MAC",
				Action:    devicesRemove,
			},
			{
				Name:  "purge",
				Usage: "Bulk-remove devices matching all given criteria",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "max-age", Usage: "Remove entries older than this many seconds"},
					&cli.Uint64Flag{Name: "min-heartbeats", Usage: "Remove entries with at least this many heartbeats"},
					&cli.StringSliceFlag{Name: "ip", Usage: "IP substring pattern (repeatable)"},
					&cli.StringSliceFlag{Name: "mac", Usage: "MAC substring pattern (repeatable)"},
					&cli.StringSliceFlag{Name: "device", Usage: "Device ID substring pattern (repeatable)"},
				},
				Action: devicesPurge,
			},
		},
	}
}

func devicesList(c *cli.Context) error {
	client := Client(c)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	query := url.Values{}
	if v := c.String("ip"); v != "" {
		query.Set("ip", v)
	}
	if v := c.String("device"); v != "" {
		query.Set("device", v)
	}
	if v := c.String("mac"); v != "" {
		query.Set("mac", v)
	}
	if v := c.Uint64("min-heartbeats"); v > 0 {
		query.Set("min_heartbeats", strconv.FormatUint(v, 10))
	}
	if v := c.Int64("older-than"); v > 0 {
		query.Set("older_than_seconds", strconv.FormatInt(v, 10))
	}

	path := "/devices"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	resp, err := client.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var list struct {
		Items []deviceResult `json:"items"`
		Total int            `json:"total"`
	}
	if err := connection.ParseResponse(resp, &list); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	if output.Format(flags.Output) == output.FormatJSON {
		return (&output.JSONFormatter{}).Format(os.Stdout, list)
	}

	table := output.NewTable("MAC", "DEVICE", "IP", "HEARTBEATS", "AGE")
	for _, d := range list.Items {
		table.AddRow(d.MAC, d.DeviceID, d.IPAddress, d.HeartbeatCount,
			(time.Duration(d.AgeSeconds*float64(time.Second))).Round(time.Second))
	}
	if err := table.Render(os.Stdout); err != nil {
		return err
	}
	fmt.Printf("\n%d device(s)\n", list.Total)
	return nil
}

func devicesGet(c *cli.Context) error {
	mac := c.Args().First()
	if mac == "" {
		return fmt.Errorf("MAC address argument is required")
	}

	client := Client(c)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.Get(ctx, "/devices/"+url.PathEscape(mac))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var device deviceResult
	if err := connection.ParseResponse(resp, &device); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	if output.Format(flags.Output) == output.FormatJSON {
		return (&output.JSONFormatter{}).Format(os.Stdout, device)
	}

	fmt.Printf("MAC:             %s\n", device.MAC)
	fmt.Printf("Device ID:       %s\n", device.DeviceID)
	fmt.Printf("IP address:      %s\n", device.IPAddress)
	if device.LastPort != nil {
		fmt.Printf("Last port:       %d\n", *device.LastPort)
	}
	fmt.Printf("Last seen:       %s\n", time.UnixMilli(device.LastSeen).Format(time.RFC3339))
	fmt.Printf("Heartbeats:      %d\n", device.HeartbeatCount)
	fmt.Printf("Age:             %s\n", (time.Duration(device.AgeSeconds * float64(time.Second))).Round(time.Second))
	return nil
}

func devicesRemove(c *cli.Context) error {
	mac := c.Args().First()
	if mac == "" {
		return fmt.Errorf("MAC address argument is required")
	}

	client := Client(c)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := client.Delete(ctx, "/devices/"+url.PathEscape(mac))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Removed bool          `json:"removed"`
		Device  *deviceResult `json:"device"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	if output.Format(flags.Output) == output.FormatJSON {
		return (&output.JSONFormatter{}).Format(os.Stdout, result)
	}

	if result.Removed {
		fmt.Printf("Removed %s\n", mac)
	} else {
		fmt.Printf("No entry for %s\n", mac)
	}
	return nil
}

func devicesPurge(c *cli.Context) error {
	body := map[string]any{}
	if v := c.Int64("max-age"); v > 0 {
		body["max_age_seconds"] = v
	}
	if v := c.Uint64("min-heartbeats"); v > 0 {
		body["min_heartbeats"] = v
	}
	if v := c.StringSlice("ip"); len(v) > 0 {
		body["ip_patterns"] = v
	}
	if v := c.StringSlice("mac"); len(v) > 0 {
		body["mac_patterns"] = v
	}
	if v := c.StringSlice("device"); len(v) > 0 {
		body["device_patterns"] = v
	}

	if len(body) == 0 {
		return fmt.Errorf("at least one criterion is required (the server removes nothing otherwise)")
	}

	client := Client(c)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	resp, err := client.Post(ctx, "/devices/purge", body)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	var result struct {
		Removed int `json:"removed"`
	}
	if err := connection.ParseResponse(resp, &result); err != nil {
		return err
	}

	flags := ParseGlobalFlags(c)
	if output.Format(flags.Output) == output.FormatJSON {
		return (&output.JSONFormatter{}).Format(os.Stdout, result)
	}

	fmt.Printf("Removed %d device(s)\n", result.Removed)
	return nil
}
