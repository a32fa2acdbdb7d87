package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/terraincognita07/cyclemark/internal/security"
)

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
)

// IssueOwnerToken signs an HS256 bearer token for the owner.
func IssueOwnerToken(secretKey []byte, ttl time.Duration, now time.Time) (string, error) {
	if ttl <= 0 {
		ttl = defaultAuthTokenTTL
	}
	tokenID, err := security.NewTokenID()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	claims := authClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Subject:   ownerSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey)
}

func (handler *Handler) verifyToken(rawToken string) (*authClaims, error) {
	if rawToken == "" {
		return nil, errMissingToken
	}

	claims := &authClaims{}
	token, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return handler.secretKey, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(handler.now),
	)
	if err != nil || !token.Valid {
		return nil, errInvalidToken
	}
	if claims.Subject != ownerSubject {
		return nil, errInvalidToken
	}
	return claims, nil
}
