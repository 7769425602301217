package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"aes256-go/pkg/log"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"
)

var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTimeSpec accepts a duration before now ("90m", "2d", "1w") or an
// absolute timestamp in one of timeFormats.
func parseTimeSpec(spec string) (time.Time, error) {
	if d, err := parseAgo(spec); err == nil {
		return time.Now().Add(-d), nil
	}
	for _, layout := range timeFormats {
		if ts, err := time.ParseInLocation(layout, spec, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time specification %q: use a duration such as '1h' or '2d', or a timestamp such as '2024-10-27T15:04:05Z'", spec)
}

func parseAgo(spec string) (time.Duration, error) {
	unit := map[byte]time.Duration{'d': 24 * time.Hour, 'w': 7 * 24 * time.Hour}
	if n := len(spec); n > 1 {
		if mult, ok := unit[spec[n-1]]; ok {
			v, err := strconv.Atoi(spec[:n-1])
			if err != nil || v < 0 {
				return 0, fmt.Errorf("bad duration %q", spec)
			}
			return time.Duration(v) * mult, nil
		}
	}
	return time.ParseDuration(spec)
}

var logsCommand = &cli.Command{
	Name:      "logs",
	Usage:     "Retrieve JSON log entries from the SQLite log database",
	UsageText: "aes256 logs [--last|--since|--between] [mode options]",
	Description: `Reads the database written when log.sink is "sqlite". Modes:
--last (default) the N most recent entries, --since entries after --start,
--between entries between --start and --end. Times are durations before now
("5m", "2d", "1w") or timestamps ("2024-10-27T15:04:05Z", "2024-10-27").`,
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "dbfile", Aliases: []string{"f"}, Usage: "SQLite log database `PATH` (default from config)"},
		&cli.BoolFlag{Name: "pretty", Aliases: []string{"p"}, Usage: "Human-readable output instead of raw JSON"},
		&cli.BoolFlag{Name: "last", Usage: "Mode: the most recent N entries (default)"},
		&cli.BoolFlag{Name: "since", Usage: "Mode: entries since --start"},
		&cli.BoolFlag{Name: "between", Usage: "Mode: entries between --start and --end"},
		&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Usage: "Entries for --last `NUMBER`", Value: 100},
		&cli.StringFlag{Name: "start", Aliases: []string{"s"}, Usage: "Start `TIME_SPEC` for --since/--between"},
		&cli.StringFlag{Name: "end", Aliases: []string{"e"}, Usage: "End `TIME_SPEC` for --between"},
		&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Usage: "Max entries for --since/--between `NUMBER`", Value: 1000},
	},
	Action: logsCmd,
}

func logsCmd(c *cli.Context) error {
	isSince, isBetween := c.Bool("since"), c.Bool("between")
	modes := 0
	for _, set := range []bool{c.Bool("last"), isSince, isBetween} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return cli.Exit("Error: only one of --last, --since, --between can be given.", 1)
	}

	dbFile := c.String("dbfile")
	if dbFile == "" {
		dbFile = configFrom(c).Log.DBFile
	}
	if err := log.Init(dbFile); err != nil && !errors.Is(err, log.ErrAlreadyInitialized) {
		return cli.Exit(fmt.Sprintf("Error opening log database: %v", err), 1)
	}

	var results []log.LogEntry
	var err error
	switch {
	case isSince:
		if !c.IsSet("start") {
			return cli.Exit("Error: --start (-s) is required for --since.", 1)
		}
		start, perr := parseTimeSpec(c.String("start"))
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		results, err = log.GetLogsSince(start, c.Int("limit"))
	case isBetween:
		if !c.IsSet("start") || !c.IsSet("end") {
			return cli.Exit("Error: --start (-s) and --end (-e) are required for --between.", 1)
		}
		start, perr := parseTimeSpec(c.String("start"))
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		end, perr := parseTimeSpec(c.String("end"))
		if perr != nil {
			return cli.Exit(perr.Error(), 1)
		}
		if start.After(end) {
			fmt.Fprintf(c.App.ErrWriter, "Warning: start %s is after end %s.\n", start.Format(time.RFC3339), end.Format(time.RFC3339))
		}
		results, err = log.GetLogsBetween(start, end, c.Int("limit"))
	default:
		if c.Int("count") <= 0 {
			return cli.Exit("Error: --count (-n) must be positive.", 1)
		}
		results, err = log.GetLastNLogs(c.Int("count"))
	}
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error retrieving logs: %v", err), 1)
	}
	if len(results) == 0 {
		fmt.Fprintln(c.App.ErrWriter, "No log entries found matching the criteria.")
		return nil
	}

	if c.Bool("pretty") {
		cw := zerolog.ConsoleWriter{Out: c.App.Writer, TimeFormat: time.RFC3339}
		for _, entry := range results {
			if _, err := cw.Write([]byte(entry.LogData)); err != nil {
				fmt.Fprintln(c.App.Writer, strings.TrimSpace(entry.LogData))
			}
		}
		return nil
	}
	for _, entry := range results {
		fmt.Fprintln(c.App.Writer, strings.TrimSpace(entry.LogData))
	}
	return nil
}
