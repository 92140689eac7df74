package encoder

import (
	"fmt"

	"github.com/jittakal/telemetryexport/pkg/encoder"
	"github.com/jittakal/telemetryexport/pkg/record"
)

// DefaultMaxRecordSize is the default ceiling on a single encoded record.
const DefaultMaxRecordSize = 16 << 20

// Factory creates encoders based on format and configuration.
type Factory struct {
	format        record.Format
	maxRecordSize int
}

// NewFactory creates a new encoder factory.
func NewFactory(format record.Format, maxRecordSize int) *Factory {
	if maxRecordSize <= 0 {
		maxRecordSize = DefaultMaxRecordSize
	}
	return &Factory{
		format:        format,
		maxRecordSize: maxRecordSize,
	}
}

// CreateEncoder creates an encoder based on the configured format.
func (f *Factory) CreateEncoder() (encoder.Encoder, error) {
	switch f.format {
	case record.FormatJSON:
		return NewJSONEncoder(f.maxRecordSize), nil
	case record.FormatCSV:
		return NewCSVEncoder(f.maxRecordSize), nil
	case record.FormatBinary:
		return NewBinaryEncoder(), nil
	case record.FormatText:
		return NewTextEncoder(), nil
	default:
		return nil, fmt.Errorf("unsupported record format: %s", f.format)
	}
}

// SupportedFormats returns a list of supported record formats.
func SupportedFormats() []record.Format {
	return []record.Format{
		record.FormatJSON,
		record.FormatCSV,
		record.FormatBinary,
		record.FormatText,
	}
}
