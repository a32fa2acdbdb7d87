package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclemark/internal/api"
	"github.com/terraincognita07/cyclemark/internal/models"
	"github.com/terraincognita07/cyclemark/internal/services"
)

func addCycles(topLevel *cobra.Command, env *commandEnv) {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "cycles",
		Short: "Show completed cycles and the forecast for the next one.",
		Example: `
cyclemark cycles
cyclemark cycles --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, closeStore, err := env.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			history, err := services.NewCycleHistoryService(store, env.calculator(), env.logger).Load(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(api.NewCyclesView(history))
			}
			printCycles(cmd.OutOrStdout(), history)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print cycles as JSON")

	topLevel.AddCommand(cmd)
}

func printCycles(out io.Writer, history services.CycleHistory) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint, color.Italic)

	if len(history.Completed) == 0 && history.Predicted == nil {
		_, _ = faint.Fprintln(out, "not enough completed periods for a forecast yet")
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(
		bold.Sprint("Cycle"),
		bold.Sprint("Start"),
		bold.Sprint("Length"),
		bold.Sprint("Period"),
		bold.Sprint("Fertile"),
		bold.Sprint("Ovulation"),
		bold.Sprint("Luteal"),
		bold.Sprint("Next start"),
	)
	for index, analysis := range history.Completed {
		addCycleRow(tbl, strconv.Itoa(index+1), analysis.CyclePhases, analysis.CycleLength)
	}
	if history.Predicted != nil {
		forecast := color.New(color.FgHiMagenta).Sprint("forecast")
		addCycleRow(tbl, forecast, history.Predicted.CyclePhases, history.Predicted.CycleLength)
	}
	tbl.RightAlign(2)

	_, _ = fmt.Fprintln(out, tbl)
	if history.HasAverage {
		_, _ = fmt.Fprintf(out, "\nAverage cycle length: %d days\n", history.AverageCycleLength)
	}
}

func addCycleRow(tbl *uitable.Table, label string, phases services.CyclePhases, cycleLength int) {
	ovulation := "-"
	if !phases.OvulationDay.IsZero() {
		ovulation = shortDay(phases.OvulationDay)
	}
	if !phases.Exact {
		ovulation += "*"
	}
	tbl.AddRow(
		label,
		phases.PeriodStart.Format(models.DateLayout),
		strconv.Itoa(cycleLength),
		dayRange(phases.PeriodStart, phases.PeriodEnd),
		dayRange(phases.OvulationStart, phases.OvulationEnd),
		ovulation,
		dayRange(phases.LutealStart, phases.LutealEnd),
		phases.CycleEnd.Format(models.DateLayout),
	)
}

func dayRange(start time.Time, end time.Time) string {
	if end.Before(start) {
		return "-"
	}
	return shortDay(start) + ".." + shortDay(end)
}

func shortDay(day time.Time) string {
	return day.Format("Jan 2")
}
