package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/avelkov/go-access-gate/internal/config"
	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/store"
	"github.com/avelkov/go-access-gate/internal/utils"
	"github.com/avelkov/go-access-gate/models"
)

// sessionService is the concrete implementation of [SessionService].
//
// Sessions are stateless HS256 JWTs. The expiry ceiling is computed from the
// original issuance time carried in the claims, so chained refreshes can
// never extend a session past its first-issuance ceiling.
type sessionService struct {
	userRepository store.UserRepository
	resolver       PermissionResolver
	audit          AuditService
	signKey        string
	issuer         string
	sessionTTL     time.Duration
	logger         *logger.Logger
}

// NewSessionService constructs a [SessionService] with signing parameters
// from the application config and the session lifetime from the policy.
func NewSessionService(
	userRepository store.UserRepository,
	resolver PermissionResolver,
	audit AuditService,
	app config.App,
	policy config.Policy,
	logger *logger.Logger,
) SessionService {
	return &sessionService{
		userRepository: userRepository,
		resolver:       resolver,
		audit:          audit,
		signKey:        app.TokenSignKey,
		issuer:         app.TokenIssuer,
		sessionTTL:     policy.SessionTTL,
		logger:         logger,
	}
}

// Issue opens a new session for the principal. The expiry is issuance time
// plus the fixed session lifetime; it does not slide on later refreshes.
func (s *sessionService) Issue(ctx context.Context, principal models.Principal) (models.Session, error) {
	log := logger.FromContext(ctx)

	session, err := utils.GenerateSessionToken(s.issuer, principal, time.Now(), s.sessionTTL, s.signKey)
	if err != nil {
		log.Err(err).Int64("user_id", principal.UserID).Msg("failed to issue session token")
		return models.Session{}, fmt.Errorf("failed to issue session token: %w", err)
	}

	return session, nil
}

// Parse validates a raw token and rebuilds its session snapshot. Any
// validation failure (expired, wrong issuer, bad signature, malformed) is
// normalised to [ErrInvalidOrExpiredToken].
func (s *sessionService) Parse(ctx context.Context, raw string) (models.Session, error) {
	session, err := utils.ValidateAndParseSessionToken(raw, s.signKey, s.issuer)
	if err != nil {
		return models.Session{}, ErrInvalidOrExpiredToken
	}

	return session, nil
}

// Refresh produces a new session snapshot from a still-valid token.
//
// The account's active flag is re-read and permissions are re-resolved from
// current store state, so a role revoked after issuance is absent from the
// refreshed token even though the old token has not expired. The new expiry
// is recomputed from the ORIGINAL issuance time.
//
// Returned errors:
//   - [ErrInvalidOrExpiredToken] when the presented token fails validation.
//   - [ErrAccountInactive] when the user was deactivated or removed since
//     issuance, regardless of remaining token lifetime.
func (s *sessionService) Refresh(ctx context.Context, raw string) (models.Session, error) {
	log := logger.FromContext(ctx)

	current, err := s.Parse(ctx, raw)
	if err != nil {
		return models.Session{}, err
	}

	user, err := s.userRepository.FindUserByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNoUserWasFound) {
			return models.Session{}, ErrAccountInactive
		}
		log.Err(err).Int64("user_id", current.UserID).Msg("user lookup failed during refresh")
		return models.Session{}, fmt.Errorf("user lookup failed during refresh: %w", err)
	}
	if !user.Active {
		return models.Session{}, ErrAccountInactive
	}

	roles, permissions, err := s.resolver.Resolve(ctx, user.UserID)
	if err != nil {
		return models.Session{}, err
	}

	principal := models.Principal{
		UserID:      user.UserID,
		Username:    user.Username,
		Roles:       roles,
		Permissions: permissions,
	}

	refreshed, err := utils.GenerateSessionToken(s.issuer, principal, current.OriginalIssuedAt, s.sessionTTL, s.signKey)
	if err != nil {
		log.Err(err).Int64("user_id", user.UserID).Msg("failed to re-sign session token")
		return models.Session{}, fmt.Errorf("failed to re-sign session token: %w", err)
	}

	if err := s.audit.Record(ctx, user.Username, models.AuditActionSessionRefreshed, "session", strconv.FormatInt(user.UserID, 10), models.AuditOutcomeSuccess); err != nil {
		return models.Session{}, err
	}

	return refreshed, nil
}

// SignOut audits an explicit logout. Tokens are stateless, so there is
// nothing to revoke server-side; the client discards its copy.
func (s *sessionService) SignOut(ctx context.Context, raw string) error {
	session, err := s.Parse(ctx, raw)
	if err != nil {
		return err
	}

	return s.audit.Record(ctx, session.Username, models.AuditActionLogout, "session", strconv.FormatInt(session.UserID, 10), models.AuditOutcomeSuccess)
}
