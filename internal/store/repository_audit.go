package store

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/models"
)

// auditRepository is the PostgreSQL-backed implementation of
// [AuditRepository]. The audit_entries table is append-only; this type never
// issues UPDATE or DELETE against it.
type auditRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewAuditRepository constructs an [AuditRepository] backed by the provided
// database connection and logger.
func NewAuditRepository(db *DB, logger *logger.Logger) AuditRepository {
	logger.Debug().Msg("creating audit repository")
	return &auditRepository{
		db:     db,
		logger: logger,
	}
}

// Append durably commits one audit entry. An error here means the entry was
// NOT recorded; callers decide whether the guarded operation may proceed.
func (r *auditRepository) Append(ctx context.Context, entry models.AuditEntry) error {
	log := logger.FromContext(ctx)

	_, err := r.db.ExecContext(ctx, appendAuditEntry,
		entry.EntryID, entry.CreatedAt, entry.Actor, entry.Action,
		entry.ResourceType, entry.ResourceID, entry.Outcome)
	if err != nil {
		log.Err(err).
			Str("func", "*auditRepository.Append").
			Str("action", entry.Action).
			Str("actor", entry.Actor).
			Msg("failed to append audit entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, r.db.wrapTransient(err))
	}

	return nil
}

// Find returns entries matching the filter, newest first. Zero-valued filter
// fields place no constraint on the result.
func (r *auditRepository) Find(ctx context.Context, filter AuditFilter) ([]models.AuditEntry, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildAuditQuery(filter)
	if err != nil {
		log.Err(err).Str("func", "*auditRepository.Find").Msg("failed to build audit query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*auditRepository.Find").Msg("failed to query audit entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, r.db.wrapTransient(err))
	}
	defer rows.Close()

	entries := make([]models.AuditEntry, 0, 50)
	for rows.Next() {
		var entry models.AuditEntry
		scanErr := rows.Scan(
			&entry.EntryID,
			&entry.CreatedAt,
			&entry.Actor,
			&entry.Action,
			&entry.ResourceType,
			&entry.ResourceID,
			&entry.Outcome,
		)
		if scanErr != nil {
			log.Err(scanErr).Str("func", "*auditRepository.Find").Msg("failed to scan audit row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		entries = append(entries, entry)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).Str("func", "*auditRepository.Find").Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, r.db.wrapTransient(rowsErr))
	}

	return entries, nil
}

// buildAuditQuery assembles the filtered SELECT for [auditRepository.Find].
func buildAuditQuery(filter AuditFilter) (string, []any, error) {
	builder := squirrel.Select("entry_id", "created_at", "actor", "action", "resource_type", "resource_id", "outcome").
		From(models.AuditEntry{}.TableName()).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Actor != "" {
		builder = builder.Where(squirrel.Eq{"actor": filter.Actor})
	}
	if filter.Action != "" {
		builder = builder.Where(squirrel.Eq{"action": filter.Action})
	}
	if filter.ResourceType != "" {
		builder = builder.Where(squirrel.Eq{"resource_type": filter.ResourceType})
	}
	if !filter.Since.IsZero() {
		builder = builder.Where(squirrel.GtOrEq{"created_at": filter.Since})
	}
	if !filter.Until.IsZero() {
		builder = builder.Where(squirrel.Lt{"created_at": filter.Until})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	return builder.ToSql()
}
