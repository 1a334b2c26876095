package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/avelkov/go-access-gate/internal/logger"
	"github.com/avelkov/go-access-gate/models"
	"github.com/jackc/pgerrcode"
)

func newTestAuditRepo(t *testing.T) (*auditRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.NewLogger("test")
	repo := &auditRepository{
		db:     &DB{DB: db, logger: l, errorClassifier: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock, db
}

func TestAuditAppend_Success(t *testing.T) {
	repo, mock, db := newTestAuditRepo(t)
	defer db.Close()

	entry := models.AuditEntry{
		EntryID:      "9a1b2c3d-0000-1111-2222-333344445555",
		CreatedAt:    time.Now(),
		Actor:        "jdoe",
		Action:       models.AuditActionLoginSuccess,
		ResourceType: "user",
		ResourceID:   "1",
		Outcome:      models.AuditOutcomeSuccess,
	}

	mock.ExpectExec("INSERT INTO audit_entries").
		WithArgs(entry.EntryID, entry.CreatedAt, entry.Actor, entry.Action, entry.ResourceType, entry.ResourceID, entry.Outcome).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Append(context.Background(), entry); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAuditAppend_TransientError(t *testing.T) {
	repo, mock, db := newTestAuditRepo(t)
	defer db.Close()

	mock.ExpectExec("INSERT INTO audit_entries").
		WillReturnError(pgError(pgerrcode.ConnectionException))

	err := repo.Append(context.Background(), models.AuditEntry{Action: models.AuditActionLoginFailure})
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestAuditFind_FiltersApplied(t *testing.T) {
	repo, mock, db := newTestAuditRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"entry_id", "created_at", "actor", "action", "resource_type", "resource_id", "outcome"}).
		AddRow("id-1", now, "jdoe", models.AuditActionLoginFailure, "user", "1", models.AuditOutcomeFailure)

	mock.ExpectQuery("SELECT entry_id").
		WithArgs("jdoe", models.AuditActionLoginFailure).
		WillReturnRows(rows)

	entries, err := repo.Find(context.Background(), AuditFilter{
		Actor:  "jdoe",
		Action: models.AuditActionLoginFailure,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Outcome != models.AuditOutcomeFailure {
		t.Errorf("expected FAILURE outcome, got %s", entries[0].Outcome)
	}
}

func TestAuditFind_NoFilter(t *testing.T) {
	repo, mock, db := newTestAuditRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT entry_id").
		WillReturnRows(sqlmock.NewRows([]string{"entry_id", "created_at", "actor", "action", "resource_type", "resource_id", "outcome"}))

	entries, err := repo.Find(context.Background(), AuditFilter{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %d", len(entries))
	}
}

func TestBuildAuditQuery_TimeWindowAndLimit(t *testing.T) {
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := since.Add(24 * time.Hour)

	query, args, err := buildAuditQuery(AuditFilter{Since: since, Until: until, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(query, "created_at >=") || !strings.Contains(query, "created_at <") {
		t.Errorf("expected time window predicates, got %s", query)
	}
	if !strings.Contains(query, "LIMIT 10") {
		t.Errorf("expected LIMIT clause, got %s", query)
	}
	if len(args) != 2 {
		t.Errorf("expected 2 args, got %d", len(args))
	}
}
