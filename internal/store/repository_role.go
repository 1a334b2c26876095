package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/models"
)

// roleRepository is the PostgreSQL-backed implementation of [RoleRepository].
type roleRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewRoleRepository constructs a [RoleRepository] backed by the provided
// database connection and logger.
func NewRoleRepository(db *DB, logger *logger.Logger) RoleRepository {
	logger.Debug().Msg("creating role repository")
	return &roleRepository{
		db:     db,
		logger: logger,
	}
}

// FindActiveRoleAssignments returns the user's active role assignments.
// Inactive assignments are filtered out by the query itself.
func (r *roleRepository) FindActiveRoleAssignments(ctx context.Context, userID int64) ([]models.RoleAssignment, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, findActiveRoleAssignments, userID)
	if err != nil {
		log.Err(err).Str("func", "*roleRepository.FindActiveRoleAssignments").Int64("user_id", userID).Msg("failed to query role assignments")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.wrapTransient(err))
	}
	defer rows.Close()

	assignments := make([]models.RoleAssignment, 0, 4)
	for rows.Next() {
		var assignment models.RoleAssignment
		scanErr := rows.Scan(
			&assignment.AssignmentID,
			&assignment.UserID,
			&assignment.RoleCode,
			&assignment.Active,
			&assignment.AssignedBy,
			&assignment.AssignedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*roleRepository.FindActiveRoleAssignments").Int64("user_id", userID).Msg("failed to scan role assignment row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		assignments = append(assignments, assignment)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*roleRepository.FindActiveRoleAssignments").Int64("user_id", userID).Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, r.db.wrapTransient(rowsErr))
	}

	return assignments, nil
}

// FindRoleByCode resolves a role together with its full permission set.
//
// The query LEFT JOINs role_permissions, so a role with no permissions still
// comes back with an empty set rather than [ErrRoleNotFound].
func (r *roleRepository) FindRoleByCode(ctx context.Context, code string) (models.Role, error) {
	log := logger.FromContext(ctx)

	rows, err := r.db.QueryContext(ctx, findRoleByCode, code)
	if err != nil {
		log.Err(err).Str("func", "*roleRepository.FindRoleByCode").Str("role_code", code).Msg("failed to query role")
		return models.Role{}, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.wrapTransient(err))
	}
	defer rows.Close()

	var (
		role  models.Role
		found bool
	)
	role.Permissions = models.NewPermissionSet()

	for rows.Next() {
		var permission sql.NullString
		if scanErr := rows.Scan(&role.RoleID, &role.Code, &role.Name, &permission); scanErr != nil {
			log.Err(scanErr).Str("func", "*roleRepository.FindRoleByCode").Str("role_code", code).Msg("failed to scan role row")
			return models.Role{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		found = true
		if permission.Valid {
			role.Permissions.Add(permission.String)
		}
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*roleRepository.FindRoleByCode").Str("role_code", code).Msg("error occurred during rows iteration")
		return models.Role{}, fmt.Errorf("%w: %w", ErrScanningRows, r.db.wrapTransient(rowsErr))
	}

	if !found {
		return models.Role{}, ErrRoleNotFound
	}

	return role, nil
}
