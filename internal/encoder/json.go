package encoder

import (
	"fmt"
	"slices"
	"strconv"

	apperrors "github.com/jittakal/telemetryexport/internal/errors"
	"github.com/jittakal/telemetryexport/pkg/record"
)

const (
	jsonSizePrefix = `{"size":`
	jsonDataPrefix = `,"data":"`
	jsonSuffix     = `"}`
)

// JSONEncoder produces {"size":<n>,"data":"<escaped>"} records.
type JSONEncoder struct {
	maxRecordSize int
}

// NewJSONEncoder creates a JSON encoder that refuses records longer than
// maxRecordSize bytes. A non-positive limit disables the check.
func NewJSONEncoder(maxRecordSize int) *JSONEncoder {
	return &JSONEncoder{maxRecordSize: maxRecordSize}
}

// AppendRecord implements encoder.Encoder.
func (e *JSONEncoder) AppendRecord(dst, payload []byte) ([]byte, error) {
	if len(payload) == 0 {
		return dst, fmt.Errorf("%w: empty payload", apperrors.ErrInvalidParameter)
	}

	escaped := EscapedLen(payload)
	total := len(jsonSizePrefix) + digits(uint64(len(payload))) + len(jsonDataPrefix) + escaped + len(jsonSuffix)
	if err := checkRecordSize(total, e.maxRecordSize); err != nil {
		return dst, err
	}

	dst = slices.Grow(dst, total)
	dst = append(dst, jsonSizePrefix...)
	dst = strconv.AppendInt(dst, int64(len(payload)), 10)
	dst = append(dst, jsonDataPrefix...)
	dst = AppendEscapedJSON(dst, payload)
	dst = append(dst, jsonSuffix...)
	return dst, nil
}

// Format implements encoder.Encoder.
func (e *JSONEncoder) Format() record.Format { return record.FormatJSON }

// Direct implements encoder.Encoder.
func (e *JSONEncoder) Direct() bool { return false }

func checkRecordSize(total, limit int) error {
	if limit > 0 && total > limit {
		return fmt.Errorf("%w: encoded record of %d bytes exceeds limit of %d",
			apperrors.ErrOutOfResources, total, limit)
	}
	return nil
}

func digits(n uint64) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}
