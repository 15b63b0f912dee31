package lifecycle

import (
	"errors"
)

// Kind classifies a domain failure so transports can map it without parsing text.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidState
	KindValidation
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindInvalidState:
		return "invalid_state"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a domain failure with a stable Code. Operations returning an
// *Error have not written anything.
type Error struct {
	Kind Kind
	Code string
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Msg: msg}
}

var (
	ErrUserNotFound              = newError(KindNotFound, "user_not_found", "user not found")
	ErrAssetNotFound             = newError(KindNotFound, "asset_not_found", "asset not found")
	ErrLoanRequestNotFound       = newError(KindNotFound, "loan_request_not_found", "loan request not found")
	ErrDamageReportNotFound      = newError(KindNotFound, "damage_report_not_found", "damage report not found")
	ErrMaintenanceRecordNotFound = newError(KindNotFound, "maintenance_record_not_found", "maintenance record not found")

	ErrUserInactive      = newError(KindInvalidState, "user_inactive", "user account is inactive")
	ErrAssetUnavailable  = newError(KindInvalidState, "asset_unavailable", "asset is not available for borrowing")
	ErrInvalidTransition = newError(KindInvalidState, "invalid_transition", "status transition is not allowed")
	ErrStaleAssetVersion = newError(KindInvalidState, "stale_asset_version", "asset was modified concurrently, retry later")

	ErrInvalidDateRange    = newError(KindValidation, "invalid_date_range", "return date must be after borrow date")
	ErrBorrowDateInPast    = newError(KindValidation, "borrow_date_in_past", "borrow date cannot be in the past")
	ErrInvalidStatus       = newError(KindValidation, "invalid_status", "unknown status value")
	ErrInvalidSeverity     = newError(KindValidation, "invalid_severity", "unknown severity value")
	ErrInvalidMaintenance  = newError(KindValidation, "invalid_maintenance_type", "unknown maintenance type")
	ErrMissingRequiredData = newError(KindValidation, "missing_field", "required field is missing")

	ErrLoanConflict = newError(KindConflict, "loan_conflict", "asset is already requested or booked for the specified date range")
)

// ErrNoRecord is returned by a Tx when a lookup by id finds nothing.
var ErrNoRecord = errors.New("record not found")

// ErrStaleVersion is returned by a Tx when a guarded asset write lost a race.
// Store implementations also wrap serialization failures in it.
var ErrStaleVersion = errors.New("asset version conflict")

// KindOf reports the Kind of err, KindInternal for non-domain errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// AsError extracts the domain error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
