package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/acorn-hc/acorn-sports/internal/calendar"
	"github.com/acorn-hc/acorn-sports/internal/config"
	"github.com/acorn-hc/acorn-sports/internal/game"
	"github.com/acorn-hc/acorn-sports/internal/logger"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// AppFactory builds the App for a command run
type AppFactory func(ctx context.Context) (*App, error)

type options struct {
	format  string
	verbose bool
	out     io.Writer
	factory AppFactory
	app     *App
}

// now is the reference point for relative date ranges, in the home timezone
func (o *options) now() time.Time {
	return time.Now().In(o.app.Config.Location())
}

// DefaultFactory loads configuration from the environment and wires real collaborators
func DefaultFactory(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.SetDefault(logger.New(logger.ParseLevel(cfg.LogLevel), os.Stderr))
	return NewApp(ctx, cfg, Deps{})
}

// NewRootCmd creates the root command. factory may be nil to use DefaultFactory.
func NewRootCmd(factory AppFactory, out io.Writer) *cobra.Command {
	if factory == nil {
		factory = DefaultFactory
	}
	if out == nil {
		out = os.Stdout
	}
	o := &options{out: out, factory: factory}

	cmd := &cobra.Command{
		Use:   "acorn-sports",
		Short: "Scrape and normalize athletics schedules",
		Long: `A CLI tool for the athletics site schedules.
Discovers schedule exports, normalizes each sport's games and serves them as JSON or iCalendar.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			format := OutputFormat(strings.ToLower(o.format))
			if format != FormatText && format != FormatJSON {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", o.format)
			}
			o.format = string(format)

			app, err := o.factory(cmd.Context())
			if err != nil {
				return fmt.Errorf("initializing: %w", err)
			}
			if o.verbose {
				logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
			}
			o.app = app
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.app != nil {
				o.app.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&o.format, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&o.verbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(
		newSportsCmd(o),
		newScheduleCmd(o),
		newGameCmd(o),
		newUpcomingCmd(o),
		newIDsCmd(o),
		newICSCmd(o),
		newServeCmd(o),
	)
	return cmd
}

func newSportsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sports",
		Short: "List every sport by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return WriteOutput(o.out, o.app.Registry.Categories(), OutputFormat(o.format), o.verbose)
		},
	}
}

func newScheduleCmd(o *options) *cobra.Command {
	var (
		sortOrder string
		filters   filterFlags
	)
	cmd := &cobra.Command{
		Use:   "schedule <slug>",
		Short: "Show one sport's schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := parseSortOrder(sortOrder)
			if err != nil {
				return err
			}
			f, err := filters.build(o.now())
			if err != nil {
				return err
			}
			if _, ok := o.app.Registry.BySlug(args[0]); !ok {
				return fmt.Errorf("unknown sport: %s", args[0])
			}
			s := o.app.Schedules.GetSchedule(cmd.Context(), args[0])
			s.Games = f.Apply(s.Games)
			sortGames(s.Games, order)
			return WriteOutput(o.out, s, OutputFormat(o.format), o.verbose)
		},
	}
	cmd.Flags().StringVar(&sortOrder, "sort", string(SortByDate), "Sort games by: date, opponent or venue")
	filters.register(cmd, false)
	return cmd
}

func newGameCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "game <slug> <id>",
		Short: "Show a single game",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, link, ok := o.app.Schedules.FindGame(cmd.Context(), args[0], args[1])
			if !ok {
				return fmt.Errorf("game %s not found in %s", args[1], args[0])
			}
			return WriteOutput(o.out, GameDetail{Game: g, Sport: link, Path: game.GamePath(link.Slug, g.ID)}, OutputFormat(o.format), o.verbose)
		},
	}
}

func newUpcomingCmd(o *options) *cobra.Command {
	var (
		limit   int
		filters filterFlags
	)
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show upcoming games across every sport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := filters.build(o.now())
			if err != nil {
				return err
			}
			if !f.IsEmpty() {
				logger.Debug("Filtering upcoming games", logger.Fields{"filter": f.String()})
			}
			games := o.app.Upcoming.GetFilteredGames(cmd.Context(), f, limit)
			return WriteOutput(o.out, games, OutputFormat(o.format), o.verbose)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of games")
	filters.register(cmd, true)
	return cmd
}

func newIDsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ids",
		Short: "Discover the schedule export ID for each sport",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return WriteOutput(o.out, ScheduleIDs(o.app.Resolver.Resolve(cmd.Context())), OutputFormat(o.format), o.verbose)
		},
	}
}

func newICSCmd(o *options) *cobra.Command {
	var (
		allUpcoming bool
		limit       int
		outPath     string
		filters     filterFlags
	)
	cmd := &cobra.Command{
		Use:   "ics [slug]",
		Short: "Export a schedule or the upcoming games as iCalendar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := o.app.Config
			opts := calendar.Options{SiteURL: cfg.BaseURL, Location: cfg.Location()}
			f, err := filters.build(o.now())
			if err != nil {
				return err
			}

			var entries []calendar.Entry
			switch {
			case allUpcoming:
				opts.Name = "Upcoming Games"
				entries = calendar.FromUpcoming(o.app.Upcoming.GetFilteredGames(cmd.Context(), f, limit))
			case len(args) == 1:
				link, ok := o.app.Registry.BySlug(args[0])
				if !ok {
					return fmt.Errorf("unknown sport: %s", args[0])
				}
				opts.Name = link.Label
				schedule := o.app.Schedules.GetSchedule(cmd.Context(), args[0])
				schedule.Games = f.Apply(schedule.Games)
				entries = calendar.FromSchedule(schedule)
			default:
				return fmt.Errorf("a sport slug or --upcoming is required")
			}

			return writeFile(o.out, outPath, calendar.GenerateICS(entries, opts))
		},
	}
	cmd.Flags().BoolVar(&allUpcoming, "upcoming", false, "Export upcoming games across every sport")
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum number of upcoming games")
	cmd.Flags().StringVar(&outPath, "out", "", "Write to this file instead of stdout")
	filters.register(cmd, true)
	return cmd
}

// writeFile writes body to path, or to w when path is empty. A leading ~ expands
// to the home directory.
func writeFile(w io.Writer, path, body string) error {
	if path == "" {
		_, err := io.WriteString(w, body)
		return err
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return fmt.Errorf("expanding path: %w", err)
	}
	if dir := filepath.Dir(expanded); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
	}
	if err := os.WriteFile(expanded, []byte(body), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", expanded, err)
	}
	logger.Info("Wrote calendar", logger.Fields{"path": expanded, "bytes": len(body)})
	return nil
}

// Execute runs the CLI. SIGINT and SIGTERM cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(nil, nil).ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
