package cli

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclemark/internal/config"
	"github.com/terraincognita07/cyclemark/internal/db"
	"github.com/terraincognita07/cyclemark/internal/logger"
	"github.com/terraincognita07/cyclemark/internal/models"
	"github.com/terraincognita07/cyclemark/internal/services"
)

// commandEnv is filled in by the root command before any subcommand runs.
type commandEnv struct {
	cfg    *config.Config
	logger *logrus.Logger
}

func New() *cobra.Command {
	env := &commandEnv{}

	cmd := &cobra.Command{
		Use:           "cyclemark",
		Short:         "Track periods and forecast cycle phases.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return env.load(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	AddCommands(cmd, env)
	return cmd
}

func AddCommands(topLevel *cobra.Command, env *commandEnv) {
	addServe(topLevel, env)
	addMark(topLevel, env)
	addUnmark(topLevel, env)
	addCycles(topLevel, env)
	addDeleteAll(topLevel, env)
	addHashPassphrase(topLevel, env)
	addToken(topLevel, env)
}

func (env *commandEnv) load(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	env.cfg = cfg
	env.logger = logrus.New()
	logger.Configure(env.logger, cmd.ErrOrStderr(), cfg.LogLevel, cfg.Environment)
	return nil
}

// openStore returns the configured period store and a function releasing it.
func (env *commandEnv) openStore() (services.PeriodRecordStore, func(), error) {
	switch env.cfg.DBDriver {
	case config.DriverDiskv:
		return db.NewDiskPeriodStore(env.cfg.DiskvPath), func() {}, nil
	default:
		database, err := db.OpenSQLite(env.cfg.DBPath, env.logger)
		if err != nil {
			return nil, nil, fmt.Errorf("database init failed: %w", err)
		}
		sqlDB, err := database.DB()
		if err != nil {
			return nil, nil, fmt.Errorf("open sql db: %w", err)
		}
		closeStore := func() {
			if err := sqlDB.Close(); err != nil {
				env.logger.WithError(err).Warn("close database failed")
			}
		}
		return db.NewRepositories(database).PeriodRecords, closeStore, nil
	}
}

func (env *commandEnv) calculator() services.CycleCalculator {
	return services.NewCycleCalculator(env.cfg.LutealDays, env.cfg.DefaultPeriodDuration)
}

func parseDayArg(raw string) (time.Time, error) {
	day, err := models.ParseCalendarDay(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return day, nil
}
