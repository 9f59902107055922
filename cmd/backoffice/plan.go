package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/servicedesk/backoffice/internal/core/billing"
)

var planFlags struct {
	total    float64
	count    int
	date     string
	interval int
	edit     int
	amount   float64
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print an installment schedule without touching the database",
	Long: `plan splits a total into installments the same way order creation does.

With --edit the given installment (1-based) is set to --amount and the
remainder is spread over the others, as the installment edit endpoint does.

Example:
  backoffice plan --total 100 --count 3 --date 2026-01-10
  backoffice plan --total 100 --count 3 --edit 1 --amount 40`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		contract := time.Now().UTC()
		if planFlags.date != "" {
			t, err := time.Parse("2006-01-02", planFlags.date)
			if err != nil {
				return fmt.Errorf("--date must be YYYY-MM-DD: %w", err)
			}
			contract = t
		}

		if planFlags.count < 1 || planFlags.count > billing.MaxInstallments {
			return fmt.Errorf("--count must be between 1 and %d", billing.MaxInstallments)
		}
		schedule, err := billing.Allocate(billing.AmountOf(planFlags.total), planFlags.count, contract, billing.EveryDays(planFlags.interval))
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("edit") {
			schedule, err = billing.Redistribute(schedule, planFlags.edit-1, billing.AmountOf(planFlags.amount))
			if err != nil {
				return err
			}
		}
		return printSchedule(cmd.OutOrStdout(), schedule)
	},
}

func init() {
	f := planCmd.Flags()
	f.Float64Var(&planFlags.total, "total", 0, "order total")
	f.IntVar(&planFlags.count, "count", 1, "number of installments")
	f.StringVar(&planFlags.date, "date", "", "contract date (YYYY-MM-DD, default today)")
	f.IntVar(&planFlags.interval, "interval", 30, "days between installments")
	f.IntVar(&planFlags.edit, "edit", 0, "installment to override (1-based)")
	f.Float64Var(&planFlags.amount, "amount", 0, "amount for the edited installment")
	_ = planCmd.MarkFlagRequired("total")
}

func printSchedule(w io.Writer, schedule []billing.Installment) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tDUE\tAMOUNT\t")
	for _, in := range schedule {
		fmt.Fprintf(tw, "%d\t%s\t%s\t\n", in.Sequence, in.DueDate.Format("2006-01-02"), in.Amount)
	}
	fmt.Fprintf(tw, "\tTOTAL\t%s\t\n", billing.Sum(schedule))
	return tw.Flush()
}
