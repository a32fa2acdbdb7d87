package api

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/terraincognita07/cyclemark/internal/services"
)

type Handler struct {
	store          services.PeriodRecordStore
	clicks         *services.PeriodClickService
	session        *services.PeriodSession
	history        *services.CycleHistoryService
	secretKey      []byte
	passphraseHash []byte
	location       *time.Location
	loginLimiter   *attemptLimiter
	logger         logrus.FieldLogger
	now            func() time.Time
}

// HandlerOptions carries the settings NewHandler needs besides the store.
type HandlerOptions struct {
	SecretKey           string
	OwnerPassphraseHash string
	Location            *time.Location
	Calculator          services.CycleCalculator
	Logger              logrus.FieldLogger
}

const (
	defaultAuthTokenTTL = 7 * 24 * time.Hour
	ownerSubject        = "owner"

	loginAttemptLimit  = 5
	loginAttemptWindow = 15 * time.Minute
)

type authClaims struct {
	jwt.RegisteredClaims
}

type loginInput struct {
	Passphrase string `json:"passphrase" form:"passphrase"`
}
