package encoder

import (
	"fmt"
	"strconv"

	apperrors "github.com/jittakal/telemetryexport/internal/errors"
	"github.com/jittakal/telemetryexport/pkg/record"
)

const binaryHeaderPrefix = "BINARY_DATA_SIZE:"

// BinaryEncoder frames raw payloads with a BINARY_DATA_SIZE:<n> header.
// Only the header is produced; the exporter writes the payload itself.
type BinaryEncoder struct{}

// NewBinaryEncoder creates a binary encoder.
func NewBinaryEncoder() *BinaryEncoder {
	return &BinaryEncoder{}
}

// AppendRecord implements encoder.Encoder.
func (e *BinaryEncoder) AppendRecord(dst, payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return dst, fmt.Errorf("%w: empty payload", apperrors.ErrInvalidParameter)
	}
	dst = append(dst, binaryHeaderPrefix...)
	dst = strconv.AppendInt(dst, int64(len(payload)), 10)
	dst = append(dst, '\n')
	return dst, nil
}

// Format implements encoder.Encoder.
func (e *BinaryEncoder) Format() record.Format { return record.FormatBinary }

// Direct implements encoder.Encoder.
func (e *BinaryEncoder) Direct() bool { return true }
