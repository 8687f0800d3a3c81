package service

import "errors"

var (
	// ErrSearcherRequired is returned when a controller is built without a searcher.
	ErrSearcherRequired = errors.New("searcher required")

	// ErrStaleOutcome is returned when an outcome does not belong to the latest submission.
	ErrStaleOutcome = errors.New("outcome superseded by a newer submission")
)
