package common

import "errors"

// Tagged failures returned by the core services. Handlers translate these to
// status codes; no core operation panics past its caller.
var (
	// Stock take lifecycle
	ErrStockTakeAlreadyOpen = errors.New("an open stock take already exists for this company and warehouse")
	ErrInvalidManager       = errors.New("manager is not permitted to open a stock take for this warehouse")

	// Count staging and submission
	ErrStockTakeNotOpen    = errors.New("stock take does not exist or is not open")
	ErrBinMismatch         = errors.New("bin location does not belong to the stock take's warehouse")
	ErrManagerNotPermitted = errors.New("manager is not permitted to count for this warehouse")
	ErrNothingToSubmit     = errors.New("no unsubmitted counts exist for this bin and stock take")
	ErrAlreadySubmitted    = errors.New("count has already been submitted and cannot be deleted")

	// Access grants
	ErrDuplicateGrant = errors.New("access grant already exists for this pair")

	// Generic
	ErrNotFound = errors.New("not found")
)
