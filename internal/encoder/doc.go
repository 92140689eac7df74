// Package encoder provides record encoding for the export engine.
//
// Each export session uses exactly one encoder, chosen by format at Init.
//
// # Supported Formats
//
//   - JSON:   {"size":<n>,"data":"<escaped>"}
//   - CSV:    <n>,"<raw>"
//   - Binary: BINARY_DATA_SIZE:<n>\n header, payload written separately
//   - Text:   payload verbatim below 256 bytes, otherwise a size placeholder
//
// # Encoder Factory
//
// Use Factory to create encoder instances:
//
//	factory := encoder.NewFactory(record.FormatJSON, encoder.DefaultMaxRecordSize)
//	enc, err := factory.CreateEncoder()
//	if err != nil {
//	    return err
//	}
//	rec, err := enc.AppendRecord(scratch[:0], payload)
//
// # JSON Escaping
//
// Exactly five bytes are escaped: ", \, newline, carriage return and tab.
// EscapedLen computes the escaped length up front so the destination is
// grown once and the record ceiling is checked before any copy.
//
// # Log Entries
//
// AppendLogJSON and AppendLogCSV build the structured log lines that are
// appended regardless of the session format.
//
// # Errors
//
//   - empty payload: ErrInvalidParameter
//   - encoded record above the factory ceiling: ErrOutOfResources
//   - printf output at or above the scratch limit: ErrBufferTooSmall
//
// # Thread Safety
//
// Encoders are stateless and safe for concurrent use.
package encoder
