package store

const (
	userColumns = `user_id, username, email, password_hash, password_expires_at,
    must_change_password, active, email_verified,
    failed_login_attempts, locked, lock_expires_at, created_at, updated_at`

	findUserByIdentifier = `SELECT ` + userColumns + `
    FROM users
    WHERE username = $1 OR email = $1;`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE user_id = $1;`

	// The increment and the conditional lock transition are a single
	// statement so concurrent failed attempts on one account serialize on
	// the row and no update is ever lost.
	recordFailedAttempt = `UPDATE users
    SET failed_login_attempts = failed_login_attempts + 1,
        locked = failed_login_attempts + 1 >= $2,
        lock_expires_at = CASE
            WHEN failed_login_attempts + 1 >= $2
                THEN now() + make_interval(secs => $3)
            ELSE lock_expires_at
        END,
        updated_at = now()
    WHERE user_id = $1
    RETURNING failed_login_attempts, locked, lock_expires_at;`

	clearLockout = `UPDATE users
    SET failed_login_attempts = 0, locked = FALSE, lock_expires_at = NULL, updated_at = now()
    WHERE user_id = $1;`

	clearExpiredLocks = `UPDATE users
    SET failed_login_attempts = 0, locked = FALSE, lock_expires_at = NULL, updated_at = now()
    WHERE locked AND lock_expires_at <= now();`

	updatePasswordHash = `UPDATE users
    SET password_hash = $2, password_expires_at = $3, must_change_password = FALSE, updated_at = now()
    WHERE user_id = $1;`

	appendPasswordHistory = `INSERT INTO password_history (user_id, digest)
    VALUES ($1, $2);`

	recentPasswordDigests = `SELECT digest
    FROM password_history
    WHERE user_id = $1
    ORDER BY created_at DESC
    LIMIT $2;`

	findActiveRoleAssignments = `SELECT assignment_id, user_id, role_code, active, assigned_by, assigned_at
    FROM role_assignments
    WHERE user_id = $1 AND active;`

	findRoleByCode = `SELECT r.role_id, r.code, r.name, p.permission_code
    FROM roles r
    LEFT JOIN role_permissions p ON p.role_id = r.role_id
    WHERE r.code = $1;`

	createResetToken = `INSERT INTO reset_tokens (token_id, user_id, digest, issued_at, expires_at)
    VALUES ($1, $2, $3, $4, $5);`

	// DELETE ... RETURNING makes check-and-invalidate indivisible: of two
	// concurrent redemptions with the same digest exactly one gets the row.
	consumeResetToken = `DELETE FROM reset_tokens
    WHERE digest = $1 AND expires_at > now()
    RETURNING token_id, user_id, digest, issued_at, expires_at;`

	purgeExpiredResetTokens = `DELETE FROM reset_tokens
    WHERE expires_at <= now();`

	appendAuditEntry = `INSERT INTO audit_entries (entry_id, created_at, actor, action, resource_type, resource_id, outcome)
    VALUES ($1, $2, $3, $4, $5, $6, $7);`
)
