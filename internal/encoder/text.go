package encoder

import (
	"fmt"

	apperrors "github.com/jittakal/telemetryexport/internal/errors"
	"github.com/jittakal/telemetryexport/pkg/record"
)

// TextScratchSize bounds the payloads copied verbatim by TextEncoder.
const TextScratchSize = 256

// TextEncoder copies payloads verbatim. Payloads of TextScratchSize bytes or
// more are replaced by a placeholder stating their true size.
type TextEncoder struct{}

// NewTextEncoder creates a text encoder.
func NewTextEncoder() *TextEncoder {
	return &TextEncoder{}
}

// AppendRecord implements encoder.Encoder.
func (e *TextEncoder) AppendRecord(dst, payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return dst, fmt.Errorf("%w: empty payload", apperrors.ErrInvalidParameter)
	}
	if len(payload) < TextScratchSize {
		return append(dst, payload...), nil
	}
	return fmt.Appendf(dst, "Data too large to display (%d bytes)", len(payload)), nil
}

// Format implements encoder.Encoder.
func (e *TextEncoder) Format() record.Format { return record.FormatText }

// Direct implements encoder.Encoder.
func (e *TextEncoder) Direct() bool { return false }
