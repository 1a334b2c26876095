package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/models"
)

// resetTokenRepository is the PostgreSQL-backed implementation of
// [ResetTokenRepository]. Only digests of token secrets are ever stored; the
// plaintext secret exists solely in the issuance response.
type resetTokenRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewResetTokenRepository constructs a [ResetTokenRepository] backed by the
// provided database connection and logger.
func NewResetTokenRepository(db *DB, logger *logger.Logger) ResetTokenRepository {
	logger.Debug().Msg("creating reset token repository")
	return &resetTokenRepository{
		db:     db,
		logger: logger,
	}
}

// CreateResetToken persists a new token bound to one user.
func (r *resetTokenRepository) CreateResetToken(ctx context.Context, token models.ResetToken) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, createResetToken,
		token.TokenID, token.UserID, token.Digest, token.IssuedAt, token.ExpiresAt)
	if err != nil {
		log.Err(err).Str("func", "*resetTokenRepository.CreateResetToken").Int64("user_id", token.UserID).Msg("failed to insert reset token")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapTransient(err))
	}

	return nil
}

// ConsumeResetToken deletes and returns the unexpired token with the given
// digest in one statement. The DELETE ... RETURNING form makes consumption
// indivisible: a second consumer of the same digest, an expired token and a
// never-issued digest all produce [ErrResetTokenNotFound].
func (r *resetTokenRepository) ConsumeResetToken(ctx context.Context, digest string) (models.ResetToken, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, consumeResetToken, digest)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*resetTokenRepository.ConsumeResetToken").Msg("failed to consume reset token")
		return models.ResetToken{}, fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapTransient(err))
	}

	var token models.ResetToken
	err := row.Scan(&token.TokenID, &token.UserID, &token.Digest, &token.IssuedAt, &token.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ResetToken{}, ErrResetTokenNotFound
		}
		log.Err(err).Str("func", "*resetTokenRepository.ConsumeResetToken").Msg("error: scanning error")
		return models.ResetToken{}, fmt.Errorf("%w: %w", ErrScanningRow, r.db.wrapTransient(err))
	}

	return token, nil
}

// PurgeExpiredResetTokens removes tokens past their expiry and returns the
// number of rows removed.
func (r *resetTokenRepository) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, purgeExpiredResetTokens)
	if err != nil {
		log.Err(err).Str("func", "*resetTokenRepository.PurgeExpiredResetTokens").Msg("failed to purge expired reset tokens")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapTransient(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*resetTokenRepository.PurgeExpiredResetTokens").Msg("failed to read affected rows")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}
