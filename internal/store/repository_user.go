package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles account lookup and credential/lockout mutations against the
// "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// FindUserByIdentifier retrieves a user record whose username or email equals
// the provided identifier.
//
// Error handling:
//   - No matching row → [ErrNoUserWasFound].
//   - Transient driver failure → wrapped as [ErrStoreUnavailable].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserByIdentifier(ctx context.Context, identifier string) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findUserByIdentifier, identifier)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.FindUserByIdentifier").Msg("error: row is nil")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", r.db.wrapTransient(err))
	}

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByIdentifier").Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, r.db.wrapTransient(err))
	}

	return user, nil
}

// FindUserByID retrieves a user record by primary key.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, findUserByID, userID)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.FindUserByID").Int64("user_id", userID).Msg("error: row is nil")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", r.db.wrapTransient(err))
	}

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByID").Int64("user_id", userID).Msg("error: scanning error")
		return models.User{}, fmt.Errorf("%w: %w", ErrScanningRow, r.db.wrapTransient(err))
	}

	return user, nil
}

// RecordFailedAttempt increments the failed-login counter and applies the
// lock transition in a single statement, returning the post-update state.
//
// The counter is committed before this method returns: a process crash right
// after cannot lose the attempt.
func (r *userRepository) RecordFailedAttempt(ctx context.Context, userID int64, threshold int, lockFor time.Duration) (models.LockoutState, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, recordFailedAttempt, userID, threshold, lockFor.Seconds())
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.RecordFailedAttempt").Int64("user_id", userID).Msg("failed to record failed login attempt")
		return models.LockoutState{}, fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapTransient(err))
	}

	var state models.LockoutState
	if err := row.Scan(&state.FailedAttempts, &state.Locked, &state.LockExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.LockoutState{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.RecordFailedAttempt").Int64("user_id", userID).Msg("error: scanning error")
		return models.LockoutState{}, fmt.Errorf("%w: %w", ErrScanningRow, r.db.wrapTransient(err))
	}

	return state, nil
}

// ClearLockout resets the failed-login counter and lifts the lock.
func (r *userRepository) ClearLockout(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, clearLockout, userID); err != nil {
		log.Err(err).Str("func", "*userRepository.ClearLockout").Int64("user_id", userID).Msg("failed to clear lockout state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapTransient(err))
	}

	return nil
}

// ClearExpiredLocks lifts every lock whose expiry has elapsed and returns the
// number of accounts affected.
func (r *userRepository) ClearExpiredLocks(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, clearExpiredLocks)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ClearExpiredLocks").Msg("failed to clear expired locks")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapTransient(err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.ClearExpiredLocks").Msg("failed to read affected rows")
		return 0, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return affected, nil
}

// UpdateUser applies a partial update of the given column/value pairs and
// bumps updated_at.
//
// Returns [ErrBuildingSQLQuery] when the field map is empty.
func (r *userRepository) UpdateUser(ctx context.Context, userID int64, fields map[string]any) error {
	log := logger.FromContext(ctx)

	if len(fields) == 0 {
		return fmt.Errorf("%w: no fields to update", ErrBuildingSQLQuery)
	}

	query, args, err := squirrel.Update(models.User{}.TableName()).
		SetMap(fields).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Int64("user_id", userID).Msg("failed to build update query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateUser").Int64("user_id", userID).Msg("failed to execute update")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapTransient(err))
	}

	return nil
}

// UpdatePasswordHash installs a new password digest with its expiry and
// clears the must-change-password flag.
func (r *userRepository) UpdatePasswordHash(ctx context.Context, userID int64, digest string, expiresAt time.Time) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, updatePasswordHash, userID, digest, expiresAt); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdatePasswordHash").Int64("user_id", userID).Msg("failed to update password hash")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapTransient(err))
	}

	return nil
}

// AppendPasswordHistory records a digest in the user's password history.
func (r *userRepository) AppendPasswordHistory(ctx context.Context, userID int64, digest string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, appendPasswordHistory, userID, digest); err != nil {
		log.Err(err).Str("func", "*userRepository.AppendPasswordHistory").Int64("user_id", userID).Msg("failed to append password history")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapTransient(err))
	}

	return nil
}

// RecentPasswordDigests returns up to limit most recent history digests,
// newest first.
func (r *userRepository) RecentPasswordDigests(ctx context.Context, userID int64, limit int) ([]string, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, recentPasswordDigests, userID, limit)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.RecentPasswordDigests").Int64("user_id", userID).Msg("failed to query password history")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.wrapTransient(err))
	}
	defer rows.Close()

	digests := make([]string, 0, limit)
	for rows.Next() {
		var digest string
		if scanErr := rows.Scan(&digest); scanErr != nil {
			log.Err(scanErr).Str("func", "*userRepository.RecentPasswordDigests").Int64("user_id", userID).Msg("failed to scan history row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		digests = append(digests, digest)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*userRepository.RecentPasswordDigests").Int64("user_id", userID).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, r.db.wrapTransient(rowsErr))
	}

	return digests, nil
}

// scanUser reads the full users column set from a single-row result.
func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.UserID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.PasswordExpiresAt,
		&user.MustChangePassword,
		&user.Active,
		&user.EmailVerified,
		&user.FailedLoginAttempts,
		&user.Locked,
		&user.LockExpiresAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}
