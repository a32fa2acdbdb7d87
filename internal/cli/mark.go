package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclemark/internal/models"
	"github.com/terraincognita07/cyclemark/internal/services"
)

func addMark(topLevel *cobra.Command, env *commandEnv) {
	cmd := &cobra.Command{
		Use:   "mark <start> [<end>]",
		Short: "Record a period from start to end (inclusive).",
		Example: `
cyclemark mark 2024-01-01 2024-01-05
cyclemark mark 2024-02-14
`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDayArg(args[0])
			if err != nil {
				return err
			}
			end := start
			if len(args) == 2 {
				if end, err = parseDayArg(args[1]); err != nil {
					return err
				}
			}

			store, closeStore, err := env.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			result, err := services.NewPeriodClickService(store, env.logger).MarkPeriod(cmd.Context(), start, end)
			if errors.Is(err, services.ErrDayAlreadyMarked) {
				return fmt.Errorf("%w; unmark it first", err)
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Marked period %s..%s (%d days, group %d)\n",
				start.Format(models.DateLayout), end.Format(models.DateLayout), len(result.Records), result.GroupID)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addUnmark(topLevel *cobra.Command, env *commandEnv) {
	cmd := &cobra.Command{
		Use:   "unmark <date>",
		Short: "Delete the whole period that contains date.",
		Example: `
cyclemark unmark 2024-01-03
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDayArg(args[0])
			if err != nil {
				return err
			}

			store, closeStore, err := env.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			result, err := services.NewPeriodClickService(store, env.logger).UnmarkDay(cmd.Context(), day)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Removed period group %d\n", result.GroupID)
			return nil
		},
	}

	topLevel.AddCommand(cmd)
}

func addDeleteAll(topLevel *cobra.Command, env *commandEnv) {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every recorded period.",
		Example: `
cyclemark delete-all --yes
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !confirmed {
				return errors.New("refusing to delete all records without --yes")
			}

			store, closeStore, err := env.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			if err := services.NewPeriodClickService(store, env.logger).DeleteAll(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "All period records deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm deleting all records")

	topLevel.AddCommand(cmd)
}
