package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrNoUserWasFound is returned when a query expected to match at least one
	// user record produces an empty result set.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrRoleNotFound is returned when a role lookup by code matches no record.
	ErrRoleNotFound = errors.New("role was not found")

	// ErrResetTokenNotFound is returned when a reset-token consume targets a
	// token that does not exist, has already been consumed, or has expired.
	// The three cases are deliberately indistinguishable to callers.
	ErrResetTokenNotFound = errors.New("reset token was not found")

	// ErrStoreUnavailable is returned when a database operation fails for a
	// transient reason (connection loss, deadlock rollback, statement or
	// context timeout). The whole request is safe to retry; no counter was
	// advanced and no token was consumed.
	ErrStoreUnavailable = errors.New("store temporarily unavailable")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. an empty field map for a partial update).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when executing a DML statement
	// (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
