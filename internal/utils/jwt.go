package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/avelkov/go-access-gate/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateSessionToken creates a signed HMAC-SHA256 session JWT carrying the
// principal snapshot.
//
// The token includes the following claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the user ID encoded as a string
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): originalIssuedAt plus sessionTTL
//   - orig_iat:        the original issuance time of the session
//
// The expiry is always computed from originalIssuedAt, so re-signing on
// refresh can never slide the ceiling forward. For a brand-new session pass
// the current time as originalIssuedAt.
func GenerateSessionToken(issuer string, principal models.Principal, originalIssuedAt time.Time, sessionTTL time.Duration, signKey string) (models.Session, error) {
	if issuer == "" || sessionTTL == 0 || signKey == "" {
		return models.Session{}, errors.New("invalid params for generating session token")
	}

	now := time.Now()
	expiresAt := originalIssuedAt.Add(sessionTTL)

	claims := &models.SessionClaims{
		Username:         principal.Username,
		Roles:            principal.Roles,
		Permissions:      principal.Permissions.Codes(),
		OriginalIssuedAt: jwt.NewNumericDate(originalIssuedAt),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(principal.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.Session{}, fmt.Errorf("error occurred during signing session token: %w", err)
	}

	return models.Session{
		SignedString:     tokenString,
		UserID:           principal.UserID,
		Username:         principal.Username,
		Roles:            principal.Roles,
		Permissions:      principal.Permissions,
		IssuedAt:         now,
		OriginalIssuedAt: originalIssuedAt,
		ExpiresAt:        expiresAt,
	}, nil
}

// ValidateAndParseSessionToken validates a raw session JWT and rebuilds the
// session snapshot from its claims.
//
// Validation includes:
//   - Signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided issuer
//   - Expiration (exp) claim check
//   - Subject (sub) claim presence and conversion to int64 user ID
func ValidateAndParseSessionToken(tokenString, signKey, issuer string) (models.Session, error) {
	var claims models.SessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(signKey), nil
	}, jwt.WithIssuer(issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Session{}, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}
	if !token.Valid {
		return models.Session{}, errors.New("invalid token")
	}

	userIDStr, err := claims.GetSubject()
	if err != nil || userIDStr == "" {
		return models.Session{}, errors.New("missing subject in token")
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return models.Session{}, fmt.Errorf("error occurred converting subject to user ID: %w", err)
	}

	session := models.Session{
		SignedString: tokenString,
		UserID:       userID,
		Username:     claims.Username,
		Roles:        claims.Roles,
		Permissions:  models.NewPermissionSet(claims.Permissions...),
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}
	if claims.OriginalIssuedAt != nil {
		session.OriginalIssuedAt = claims.OriginalIssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}

	return session, nil
}
