package inspection

import "errors"

// Domain errors for the inspection package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, inspection.ErrInspectionNotFound) {
//	    // handle not found case
//	}
var (
	// ErrInspectionNotFound is returned when an inspection ID does not exist.
	ErrInspectionNotFound = errors.New("inspection: not found")

	// ErrResultNotFound is returned when recording against a device that
	// is not part of the inspection's snapshot.
	ErrResultNotFound = errors.New("inspection: device not part of inspection")

	// ErrInvalidStatus is returned when a result status is not
	// NOT_TESTED, PASS, FAIL or NA.
	ErrInvalidStatus = errors.New("inspection: invalid result status")

	// ErrCommentRequired is returned when a FAIL result carries no comment.
	ErrCommentRequired = errors.New("inspection: comment is required when status is FAIL")

	// ErrInvalidOverallStatus is returned when finalising with a status
	// other than PASSED or FAILED.
	ErrInvalidOverallStatus = errors.New("inspection: overall status must be PASSED or FAILED")
)
