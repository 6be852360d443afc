package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrLoginRejected    = errors.New("portal rejected the login credentials")
	ErrLoginTimeout     = errors.New("login did not resolve before the deadline")
	ErrSessionExpired   = errors.New("cached session is older than its TTL")
	ErrNoRows           = errors.New("no tender rows found on listing page")
	ErrNotFound         = errors.New("project not found in search")
	ErrMissingProjectID = errors.New("record has no project id")
	ErrConnectionLost   = errors.New("browser connection lost")
	ErrInvalidURL       = errors.New("invalid portal URL")
	ErrNoCredentials    = errors.New("no stored portal credentials")
	ErrDuplicateRecord  = errors.New("project id already persisted")
)

// AuthError wraps a failure to establish an authenticated portal session.
// It is always fatal to the containing job.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("portal authentication failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("portal authentication failed: %s", e.Reason)
}

func (e *AuthError) Unwrap() error { return e.Err }

// NavigationError wraps a navigation or selector-wait timeout. Fatal is set
// when it occurred before any row was enumerated; afterwards it degrades the
// affected candidate only.
type NavigationError struct {
	URL   string
	Err   error
	Fatal bool
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("navigation failed for %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ExtractError wraps a row-level extraction failure. Never fatal; the
// candidate is counted as failed and the job continues.
type ExtractError struct {
	ProjectID string
	Err       error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extraction failed for project %s: %v", e.ProjectID, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// PersistError wraps a backend rejection on insert, correlated by project id.
type PersistError struct {
	ProjectID string
	Err       error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("insert failed for project %s: %v", e.ProjectID, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// IsJobFatal is the single policy point deciding which errors abort a whole
// run. Everything else is a per-candidate outcome folded into the summary.
func IsJobFatal(err error) bool {
	if err == nil {
		return false
	}
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return true
	}
	var navErr *NavigationError
	if errors.As(err, &navErr) {
		return navErr.Fatal
	}
	return errors.Is(err, ErrNoRows) ||
		errors.Is(err, ErrLoginRejected) ||
		errors.Is(err, ErrLoginTimeout)
}
