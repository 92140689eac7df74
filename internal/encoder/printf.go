package encoder

import (
	"fmt"

	apperrors "github.com/jittakal/telemetryexport/internal/errors"
)

// PrintfScratchSize is the capacity of the scratch buffer used for
// printf-style composition.
const PrintfScratchSize = 1024

// AppendBounded formats according to format and appends the result to
// scratch[:0]. If the formatted output is limit bytes or longer it returns
// an error wrapping ErrBufferTooSmall and no usable output.
func AppendBounded(scratch []byte, limit int, format string, args ...any) ([]byte, error) {
	out := fmt.Appendf(scratch[:0], format, args...)
	if len(out) >= limit {
		return scratch[:0], fmt.Errorf("%w: formatted %d bytes, limit %d",
			apperrors.ErrBufferTooSmall, len(out), limit)
	}
	return out, nil
}
