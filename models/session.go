package models

// GuestOwner is the local cache namespace of the anonymous session.
const GuestOwner = "guest"

// Session singleton keys persisted by the client next to the month entries.
const (
	SessionKeyToken        = "wt_token"
	SessionKeyRefreshToken = "wt_refresh"
	SessionKeyUser         = "wt_user"
	SessionKeyMigrated     = "wt_migrated"
	SessionKeyLastUserID   = "lastLoggedInUserId"
)

// MigrationFlag records whether reconciliation already ran for the current
// authenticated session. The zero value means it has not.
type MigrationFlag string

const (
	MigrationUnset MigrationFlag = ""
	MigrationDone  MigrationFlag = "true"
	MigrationSkip  MigrationFlag = "skip"
)

// Completed reports whether reconciliation must not run again.
func (f MigrationFlag) Completed() bool {
	return f == MigrationDone || f == MigrationSkip
}

// SessionState is the authentication state of the client.
type SessionState int

const (
	SessionLoading SessionState = iota
	SessionAnonymous
	SessionAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionLoading:
		return "loading"
	case SessionAnonymous:
		return "anonymous"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}
