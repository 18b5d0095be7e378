package bufferpool

import "github.com/go-faster/errors"

// Sentinel errors for the ...Err method family. Each corresponds to one of
// the boolean/option failure signals the hot-path methods return directly;
// both views are derived from the same state transition, so they can never
// disagree about what happened.
var (
	ErrPoolExhausted = errors.New("bufferpool: pool exhausted, no victim frame available")
	ErrInvalidPageID = errors.New("bufferpool: invalid page id")
	ErrPageNotPresent = errors.New("bufferpool: page not present in pool")
	ErrPagePinned     = errors.New("bufferpool: page is pinned")
	ErrOverUnpin      = errors.New("bufferpool: unpin count exceeds pin count")
)
