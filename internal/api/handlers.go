package api

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclemark/internal/config"
	"github.com/terraincognita07/cyclemark/internal/models"
	"github.com/terraincognita07/cyclemark/internal/services"
)

func NewHandler(store services.PeriodRecordStore, options HandlerOptions) (*Handler, error) {
	if store == nil {
		return nil, errors.New("period record store is required")
	}
	if err := config.ValidateSecretKey(options.SecretKey); err != nil {
		return nil, err
	}
	if options.OwnerPassphraseHash == "" {
		return nil, config.ErrOwnerPassphraseMissing
	}

	location := options.Location
	if location == nil {
		location = time.UTC
	}
	logger := options.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	calculator := services.NewCycleCalculator(options.Calculator.LutealDays, options.Calculator.DefaultPeriodDuration)
	if options.Calculator == (services.CycleCalculator{}) {
		calculator = services.NewCycleCalculator(models.DefaultLutealDays, models.DefaultPeriodDurationDays)
	}

	clicks := services.NewPeriodClickService(store, logger)
	return &Handler{
		store:          store,
		clicks:         clicks,
		session:        services.NewPeriodSession(clicks),
		history:        services.NewCycleHistoryService(store, calculator, logger),
		secretKey:      []byte(options.SecretKey),
		passphraseHash: []byte(options.OwnerPassphraseHash),
		location:       location,
		loginLimiter:   newAttemptLimiter(),
		logger:         logger,
		now:            time.Now,
	}, nil
}
