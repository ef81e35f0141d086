package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrEmailAlreadyExists is returned when signup hits the unique e-mail
	// constraint.
	ErrEmailAlreadyExists = errors.New("email already exists")

	// ErrNoUserWasFound is returned when a lookup matches no user.
	ErrNoUserWasFound = errors.New("no user was found")

	// ErrCorruptDocument is returned when a stored weight document cannot be
	// decoded.
	ErrCorruptDocument = errors.New("stored weight document is corrupt")
)

// Low-level database operation errors. These wrap the driver error when a SQL
// operation fails before any domain logic can be applied.
var (
	// ErrBuildingSQLQuery is returned when squirrel cannot build a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a query fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the driver cannot start a
	// transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing fails. The
	// transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrScanningRow is returned when scanning a result row fails.
	ErrScanningRow = errors.New("failed to scan row")
)
