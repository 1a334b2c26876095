package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/internal/store"
	"github.com/avelkov/go-access-gate/internal/utils"
	"github.com/avelkov/go-access-gate/models"
)

// auditService is the concrete implementation of [AuditService].
//
// Record is synchronous on purpose: the callers' contract is that no
// security-relevant response leaves the service before its audit entry is
// committed, so a failed append fails the guarded operation.
type auditService struct {
	auditRepository store.AuditRepository
	uuidGenerator   *utils.UUIDGenerator
	logger          *logger.Logger
}

// NewAuditService constructs an [AuditService] over the given repository.
func NewAuditService(auditRepository store.AuditRepository, logger *logger.Logger) AuditService {
	return &auditService{
		auditRepository: auditRepository,
		uuidGenerator:   utils.NewUUIDGenerator(),
		logger:          logger,
	}
}

// Record commits one audit entry and returns only once it is durable.
func (a *auditService) Record(ctx context.Context, actor, action, resourceType, resourceID, outcome string) error {
	log := logger.FromContext(ctx)

	entry := models.AuditEntry{
		EntryID:      a.uuidGenerator.Generate(),
		CreatedAt:    time.Now(),
		Actor:        actor,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Outcome:      outcome,
	}

	if err := a.auditRepository.Append(ctx, entry); err != nil {
		log.Err(err).
			Str("action", action).
			Str("actor", actor).
			Msg("failed to commit audit entry")
		return fmt.Errorf("failed to commit audit entry: %w", err)
	}

	log.Info().
		Str("action", action).
		Str("actor", actor).
		Str("outcome", outcome).
		Msg("audit entry recorded")

	return nil
}

// Find returns audit entries matching the filter, newest first.
func (a *auditService) Find(ctx context.Context, filter store.AuditFilter) ([]models.AuditEntry, error) {
	entries, err := a.auditRepository.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit entries: %w", err)
	}
	return entries, nil
}
