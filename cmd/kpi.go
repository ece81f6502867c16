package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetquote/core/quotelog"
	"github.com/kilianp07/fleetquote/infra/kpi"
	"github.com/kilianp07/fleetquote/jobs/kpibackfill"
)

var kpiOpts struct {
	db      string
	vehicle string
	from    string
	to      string
}

var kpiCmd = &cobra.Command{
	Use:   "kpi",
	Short: "Daily quote KPIs per vehicle",
}

var kpiBackfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Rebuild KPIs from the quote log",
	RunE:  runKPIBackfill,
}

var kpiShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the KPIs of a vehicle",
	RunE:  runKPIShow,
}

func init() {
	kpiCmd.PersistentFlags().StringVar(&kpiOpts.db, "db", "", "KPI database, defaults to kpi.path")
	kpiCmd.PersistentFlags().StringVar(&kpiOpts.from, "from", "", "first day, YYYY-MM-DD")
	kpiCmd.PersistentFlags().StringVar(&kpiOpts.to, "to", "", "last day, YYYY-MM-DD")
	kpiShowCmd.Flags().StringVar(&kpiOpts.vehicle, "vehicle", "", "vehicle id")
	_ = kpiShowCmd.MarkFlagRequired("vehicle")
	kpiCmd.AddCommand(kpiBackfillCmd, kpiShowCmd)
	rootCmd.AddCommand(kpiCmd)
}

func kpiRange() (time.Time, time.Time, error) {
	var from, to time.Time
	var err error
	if kpiOpts.from != "" {
		if from, err = time.Parse(time.DateOnly, kpiOpts.from); err != nil {
			return from, to, fmt.Errorf("--from: %w", err)
		}
	}
	if kpiOpts.to != "" {
		if to, err = time.Parse(time.DateOnly, kpiOpts.to); err != nil {
			return from, to, fmt.Errorf("--to: %w", err)
		}
	}
	return from, to, nil
}

func openKPIStore() (*kpi.SQLiteStore, error) {
	path := kpiOpts.db
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return nil, err
		}
		path = cfg.KPI.Path
	}
	if path == "" {
		return nil, errors.New("no KPI database: set --db or kpi.path")
	}
	return kpi.NewSQLiteStore(path)
}

func runKPIBackfill(cmd *cobra.Command, args []string) error {
	from, to, err := kpiRange()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := quotelog.NewStore(cfg.QuoteLog)
	if err != nil {
		return err
	}
	defer log.Close()
	store, err := openKPIStore()
	if err != nil {
		return err
	}
	defer store.Close()

	q := quotelog.Query{Start: from}
	if !to.IsZero() {
		q.End = to.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	n, err := kpibackfill.Backfill(cmd.Context(), store, log, q)
	if err != nil {
		return fmt.Errorf("backfill after %d quotes: %w", n, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d quotes backfilled\n", n)
	return nil
}

func runKPIShow(cmd *cobra.Command, args []string) error {
	from, to, err := kpiRange()
	if err != nil {
		return err
	}
	if to.IsZero() {
		to = time.Now().UTC()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	store, err := openKPIStore()
	if err != nil {
		return err
	}
	defer store.Close()
	recs, err := store.Query(kpiOpts.vehicle, from, to)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tQUOTES\tDISTANCE_KM\tREVENUE\tREVENUE_PER_KM\tMINIMUM_SHARE")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", r.Date.Format(time.DateOnly), r.Quotes,
			strconv.FormatFloat(r.DistanceKm, 'f', -1, 64),
			strconv.FormatFloat(r.Revenue, 'f', 2, 64),
			strconv.FormatFloat(r.RevenuePerKm(), 'f', 2, 64),
			strconv.FormatFloat(r.MinimumShare(), 'f', 2, 64))
	}
	return tw.Flush()
}
