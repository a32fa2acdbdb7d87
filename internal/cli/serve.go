package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/cyclemark/internal/api"
	"github.com/terraincognita07/cyclemark/internal/notify"
	"github.com/terraincognita07/cyclemark/internal/scheduler"
	"github.com/terraincognita07/cyclemark/internal/services"
)

const shutdownTimeout = 10 * time.Second

func addServe(topLevel *cobra.Command, env *commandEnv) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder scheduler.",
		Example: `
cyclemark serve
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return env.serve(cmd.Context())
		},
	}

	topLevel.AddCommand(cmd)
}

func (env *commandEnv) serve(ctx context.Context) error {
	cfg := env.cfg
	if err := cfg.RequireServerSecrets(); err != nil {
		return err
	}

	store, closeStore, err := env.openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	handler, err := api.NewHandler(store, api.HandlerOptions{
		SecretKey:           cfg.SecretKey,
		OwnerPassphraseHash: cfg.OwnerPassphraseHash,
		Location:            cfg.Location,
		Calculator:          env.calculator(),
		Logger:              env.logger,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	accessLog := env.logger.WriterLevel(logrus.InfoLevel)
	defer accessLog.Close()
	app := api.NewApp(handler, accessLog)

	jobs, err := env.reminderScheduler(store)
	if err != nil {
		return err
	}
	jobs.Start()
	defer jobs.Stop()

	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			env.logger.WithError(err).Error("server shutdown failed")
		}
	}()

	env.logger.WithFields(logrus.Fields{
		"port":      cfg.Port,
		"db_driver": cfg.DBDriver,
		"tz":        cfg.Location.String(),
	}).Info("cyclemark listening")
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func (env *commandEnv) reminderScheduler(store services.PeriodRecordStore) (*scheduler.Scheduler, error) {
	cfg := env.cfg

	var notifier services.Notifier = notify.NewLogNotifier(env.logger)
	if cfg.TelegramEnabled() {
		telegram, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			return nil, fmt.Errorf("telegram init failed: %w", err)
		}
		notifier = telegram
	}

	history := services.NewCycleHistoryService(store, env.calculator(), env.logger)
	reminders := services.NewReminderService(history, notifier, services.ReminderSettings{
		PeriodReminderDays: cfg.PeriodReminderDays,
		NotifyFertility:    cfg.NotifyOvulation,
		Location:           cfg.Location,
	}, env.logger)

	jobs := scheduler.New(cfg.Location, env.logger)
	if err := jobs.Add("cycle reminders", cfg.ReminderCron, reminders); err != nil {
		return nil, fmt.Errorf("schedule reminders: %w", err)
	}
	return jobs, nil
}
