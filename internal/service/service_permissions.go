package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/store"
	"github.com/avelkov/go-access-gate/models"
)

// permissionResolver is the concrete implementation of [PermissionResolver].
type permissionResolver struct {
	roleRepository store.RoleRepository
	logger         *logger.Logger
}

// NewPermissionResolver constructs a [PermissionResolver] over the given
// role repository.
func NewPermissionResolver(roleRepository store.RoleRepository, logger *logger.Logger) PermissionResolver {
	return &permissionResolver{
		roleRepository: roleRepository,
		logger:         logger,
	}
}

// Resolve reads the user's active role assignments and flattens each role's
// permission codes into a set union. A wildcard code in any role makes the
// resolved set grant everything; [models.PermissionSet.Has] checks the
// wildcard before set membership.
//
// The result reflects current store state at call time and must not be
// cached by callers beyond the single issuance or refresh that requested it.
func (p *permissionResolver) Resolve(ctx context.Context, userID int64) ([]string, models.PermissionSet, error) {
	log := logger.FromContext(ctx)

	assignments, err := p.roleRepository.FindActiveRoleAssignments(ctx, userID)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Msg("failed to load role assignments")
		return nil, nil, fmt.Errorf("failed to load role assignments: %w", err)
	}

	roles := make([]string, 0, len(assignments))
	permissions := models.NewPermissionSet()

	for _, assignment := range assignments {
		role, err := p.roleRepository.FindRoleByCode(ctx, assignment.RoleCode)
		if err != nil {
			log.Err(err).Int64("user_id", userID).Str("role_code", assignment.RoleCode).Msg("failed to resolve assigned role")
			return nil, nil, fmt.Errorf("failed to resolve assigned role %q: %w", assignment.RoleCode, err)
		}

		roles = append(roles, role.Code)
		for _, code := range role.Permissions.Codes() {
			permissions.Add(code)
		}
	}

	sort.Strings(roles)
	return roles, permissions, nil
}
