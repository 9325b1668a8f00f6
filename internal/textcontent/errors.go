package textcontent

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

var (
	// ErrInvalidArgument reports malformed ranges, empty inputs, or mismatched joins.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOutOfRange reports an offset or range endpoint outside [0, Len()].
	ErrOutOfRange = errors.New("out of range")
)

func invalidArgf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func outOfRangef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOutOfRange, fmt.Sprintf(format, args...))
}

// u32 narrows a token-local offset. Token lengths originate from uint32 spans,
// so overflow here means a broken invariant.
func u32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("textcontent: offset overflow: %w", err))
	}
	return v
}
