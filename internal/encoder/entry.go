package encoder

import (
	"strconv"

	"github.com/jittakal/telemetryexport/pkg/record"
)

// AppendLogJSON appends a structured log entry:
//
//	{"level":<n>,"message":"<escaped>"}
//	{"level":<n>,"message":"<escaped>","hasData":true}
func AppendLogJSON(dst []byte, level record.Level, message string, hasData bool) []byte {
	dst = append(dst, `{"level":`...)
	dst = strconv.AppendUint(dst, uint64(level), 10)
	dst = append(dst, `,"message":"`...)
	dst = AppendEscapedJSON(dst, message)
	dst = append(dst, '"')
	if hasData {
		dst = append(dst, `,"hasData":true`...)
	}
	return append(dst, '}')
}

// AppendLogCSV appends <timestamp>,<category>,<value>,"<description>".
// Neither category nor description is escaped.
func AppendLogCSV(dst []byte, timestamp uint64, category string, value uint64, description string) []byte {
	dst = strconv.AppendUint(dst, timestamp, 10)
	dst = append(dst, ',')
	dst = append(dst, category...)
	dst = append(dst, ',')
	dst = strconv.AppendUint(dst, value, 10)
	dst = append(dst, ',', '"')
	dst = append(dst, description...)
	return append(dst, '"')
}
