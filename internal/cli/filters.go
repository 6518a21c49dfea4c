package cli

import (
	"time"

	"github.com/acorn-hc/acorn-sports/internal/filter"
	"github.com/spf13/cobra"
)

// filterFlags holds the game filter flags shared by schedule, upcoming and ics
type filterFlags struct {
	sports    []string
	opponents []string
	venue     string
	weekends  bool
	dates     string
}

func (ff *filterFlags) register(cmd *cobra.Command, withSport bool) {
	if withSport {
		cmd.Flags().StringSliceVar(&ff.sports, "sport", nil, "Only these sport slugs (repeatable or comma-separated)")
	}
	cmd.Flags().StringSliceVar(&ff.opponents, "opponent", nil, "Only opponents containing this text")
	cmd.Flags().StringVar(&ff.venue, "venue", "", "Only home or away games")
	cmd.Flags().BoolVar(&ff.weekends, "weekends", false, "Only Saturday and Sunday games")
	cmd.Flags().StringVar(&ff.dates, "dates", "", "Date range such as 'Mar 1-15', 'Nov 20 - Jan 10' or 'March'")
}

func (ff *filterFlags) build(now time.Time) (*filter.Filter, error) {
	f := filter.New()
	f.Sports = ff.sports
	f.Opponents = ff.opponents
	f.WeekendsOnly = ff.weekends

	venue, err := filter.ParseVenue(ff.venue)
	if err != nil {
		return nil, err
	}
	f.Venue = venue

	if ff.dates != "" {
		from, to, err := filter.ParseDateRange(ff.dates, now)
		if err != nil {
			return nil, err
		}
		f.DateFrom, f.DateTo = from, to
	}
	return f, nil
}
