package encoder

import (
	"fmt"
	"slices"
	"strconv"

	apperrors "github.com/jittakal/telemetryexport/internal/errors"
	"github.com/jittakal/telemetryexport/pkg/record"
)

// CSVEncoder produces <size>,"<raw>" records. Embedded quotes are not
// escaped; callers must keep them out of payloads.
type CSVEncoder struct {
	maxRecordSize int
}

// NewCSVEncoder creates a CSV encoder bounded by maxRecordSize.
func NewCSVEncoder(maxRecordSize int) *CSVEncoder {
	return &CSVEncoder{maxRecordSize: maxRecordSize}
}

// AppendRecord implements encoder.Encoder.
func (e *CSVEncoder) AppendRecord(dst, payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return dst, fmt.Errorf("%w: empty payload", apperrors.ErrInvalidParameter)
	}

	total := digits(uint64(len(payload))) + 3 + len(payload)
	if err := checkRecordSize(total, e.maxRecordSize); err != nil {
		return dst, err
	}

	dst = slices.Grow(dst, total)
	dst = strconv.AppendInt(dst, int64(len(payload)), 10)
	dst = append(dst, ',', '"')
	dst = append(dst, payload...)
	dst = append(dst, '"')
	return dst, nil
}

// Format implements encoder.Encoder.
func (e *CSVEncoder) Format() record.Format { return record.FormatCSV }

// Direct implements encoder.Encoder.
func (e *CSVEncoder) Direct() bool { return false }
