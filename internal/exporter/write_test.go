package exporter

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	apperrors "github.com/jittakal/telemetryexport/internal/errors"
	"github.com/jittakal/telemetryexport/internal/storage/storagetest"
	"github.com/jittakal/telemetryexport/pkg/record"
)

func TestWrite_ThenForcedFlush(t *testing.T) {
	tests := []struct {
		name    string
		format  record.Format
		payload string
		want    string
	}{
		{"json", record.FormatJSON, "a\tb", `{"size":3,"data":"a\tb"}`},
		{"csv", record.FormatCSV, "reading", `7,"reading"`},
		{"text", record.FormatText, "plain", "plain"},
		{"text placeholder", record.FormatText, strings.Repeat("z", 300), "Data too large to display (300 bytes)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.init(t, tt.format, false)

			if err := h.exp.Write([]byte(tt.payload), false); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if got := h.file(t); got != "" {
				t.Fatalf("file written before flush: %q", got)
			}
			if err := h.exp.Flush(true); err != nil {
				t.Fatalf("Flush() error = %v", err)
			}

			want := testStamp + tt.want + "\n"
			if got := h.file(t); got != want {
				t.Errorf("file = %q, want %q", got, want)
			}

			stats := h.exp.Stats()
			if stats.BytesWritten != uint64(len(want)) || stats.Flushes != 1 || stats.RecordsWritten != 1 {
				t.Errorf("stats = %+v", stats)
			}
			if h.metrics.flushes["forced"] != 1 {
				t.Errorf("forced flushes = %d, want 1", h.metrics.flushes["forced"])
			}
		})
	}
}

func TestWrite_AutoFlushJSON(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t, record.FormatJSON, true)

	if err := h.exp.Write([]byte("hello"), false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := testStamp + `{"size":5,"data":"hello"}` + "\n"
	if got := h.file(t); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
	if h.exp.Stats().BufferedBytes != 0 {
		t.Error("auto-flush left bytes in the buffer")
	}
	if h.metrics.flushes["auto"] != 1 {
		t.Errorf("auto flushes = %d, want 1", h.metrics.flushes["auto"])
	}
}

func TestWrite_TimestampOnlyFirstInBatch(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t, record.FormatCSV, false)

	_ = h.exp.Write([]byte("one"), false)
	_ = h.exp.Write([]byte("two"), true)
	_ = h.exp.Flush(true)
	_ = h.exp.Write([]byte("three"), false)
	_ = h.exp.Flush(true)

	want := testStamp + "3,\"one\"\n3,\"two\"\n" + testStamp + "5,\"three\"\n"
	if got := h.file(t); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestWrite_EmptyPayload(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t, record.FormatJSON, false)

	for _, payload := range [][]byte{nil, {}} {
		if err := h.exp.Write(payload, false); !errors.Is(err, apperrors.ErrInvalidParameter) {
			t.Errorf("Write(%v) error = %v, want ErrInvalidParameter", payload, err)
		}
	}

	stats := h.exp.Stats()
	if stats.InvalidParameters != 2 || stats.Status != record.StatusReady {
		t.Errorf("InvalidParameters = %d, Status = %v", stats.InvalidParameters, stats.Status)
	}
}

func TestWrite_OversizedPayload(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.BufferSize = 65536 })
	h.init(t, record.FormatJSON, false)
	writes := h.fs.Calls(storagetest.OpWrite)

	err := h.exp.Write(bytes.Repeat([]byte("a"), 70000), false)
	if !errors.Is(err, apperrors.ErrBufferFull) {
		t.Fatalf("Write() error = %v, want ErrBufferFull", err)
	}

	stats := h.exp.Stats()
	if stats.BufferOverflows != 1 {
		t.Errorf("BufferOverflows = %d, want 1", stats.BufferOverflows)
	}
	if stats.BytesWritten != 0 || stats.BufferedBytes != 0 {
		t.Errorf("BytesWritten = %d, BufferedBytes = %d, want 0", stats.BytesWritten, stats.BufferedBytes)
	}
	if stats.Status != record.StatusReady {
		t.Errorf("Status = %v, want ready", stats.Status)
	}
	if h.fs.Calls(storagetest.OpWrite) != writes {
		t.Error("oversized record reached the store")
	}
	if h.metrics.errors["buffer_full"] != 1 {
		t.Errorf("buffer_full errors = %d, want 1", h.metrics.errors["buffer_full"])
	}
}

func TestWrite_OverflowFlushesAndRetries(t *testing.T) {
	// Each record is 1 digit + ',' + quotes + 8 bytes + newline = 13 bytes.
	h := newHarness(t, func(c *Config) { c.BufferSize = 22 + 13*3 })
	h.init(t, record.FormatCSV, false)

	for _, p := range []string{"aaaaaaaa", "bbbbbbbb", "cccccccc"} {
		if err := h.exp.Write([]byte(p), false); err != nil {
			t.Fatalf("Write(%s) error = %v", p, err)
		}
	}
	if h.exp.Stats().BufferedBytes != h.exp.Stats().BufferCapacity {
		t.Fatalf("buffer should be exactly full: %+v", h.exp.Stats())
	}

	if err := h.exp.Write([]byte("dddddddd"), false); err != nil {
		t.Fatalf("Write() after full buffer error = %v", err)
	}

	want := testStamp + "8,\"aaaaaaaa\"\n8,\"bbbbbbbb\"\n8,\"cccccccc\"\n"
	if got := h.file(t); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}

	stats := h.exp.Stats()
	if stats.BufferedBytes != 22+13 {
		t.Errorf("BufferedBytes = %d, want %d", stats.BufferedBytes, 22+13)
	}
	if stats.BufferOverflows != 0 || stats.Flushes != 1 {
		t.Errorf("BufferOverflows = %d, Flushes = %d", stats.BufferOverflows, stats.Flushes)
	}
	if h.metrics.flushes["overflow"] != 1 {
		t.Errorf("overflow flushes = %d, want 1", h.metrics.flushes["overflow"])
	}
}

func TestWrite_TooLargeAfterFlush(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.BufferSize = 64 })
	h.init(t, record.FormatText, false)

	_ = h.exp.Write([]byte("small"), false)
	err := h.exp.Write(bytes.Repeat([]byte("x"), 100), false)
	if !errors.Is(err, apperrors.ErrBufferFull) {
		t.Fatalf("Write() error = %v, want ErrBufferFull", err)
	}

	stats := h.exp.Stats()
	if stats.BufferOverflows != 1 {
		t.Errorf("BufferOverflows = %d, want 1", stats.BufferOverflows)
	}
	if stats.Flushes != 1 || stats.BufferedBytes != 0 {
		t.Errorf("pending record was not flushed before rejection: %+v", stats)
	}
	if got := h.file(t); got != testStamp+"small\n" {
		t.Errorf("file = %q", got)
	}
}

func TestWrite_OutOfResources(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.MaxRecordSize = 32 })
	h.init(t, record.FormatJSON, false)

	err := h.exp.Write([]byte(strings.Repeat("\"", 20)), false)
	if !errors.Is(err, apperrors.ErrOutOfResources) {
		t.Fatalf("Write() error = %v, want ErrOutOfResources", err)
	}
	stats := h.exp.Stats()
	if stats.FormatErrors != 1 || stats.Status != record.StatusReady {
		t.Errorf("FormatErrors = %d, Status = %v", stats.FormatErrors, stats.Status)
	}

	err = h.exp.LogJSON(record.LevelInfo, strings.Repeat("\n", 20), nil)
	if !errors.Is(err, apperrors.ErrOutOfResources) {
		t.Errorf("LogJSON() error = %v, want ErrOutOfResources", err)
	}
}

func TestWrite_Binary(t *testing.T) {
	tests := []struct {
		name      string
		timestamp bool
		want      string
	}{
		{"plain", false, "BINARY_DATA_SIZE:3\n\x00\x01\xff"},
		{"timestamped", true, testStamp + "BINARY_DATA_SIZE:3\n\x00\x01\xff"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			h.init(t, record.FormatBinary, false)
			writes := h.fs.Calls(storagetest.OpWrite)

			if err := h.exp.Write([]byte{0x00, 0x01, 0xff}, tt.timestamp); err != nil {
				t.Fatalf("Write() error = %v", err)
			}
			if got := h.file(t); got != tt.want {
				t.Errorf("file = %q, want %q", got, tt.want)
			}
			if n := h.fs.Calls(storagetest.OpWrite) - writes; n != 2 {
				t.Errorf("store writes = %d, want 2", n)
			}

			stats := h.exp.Stats()
			if stats.BytesWritten != uint64(len(tt.want)) || stats.BufferedBytes != 0 {
				t.Errorf("stats = %+v", stats)
			}
		})
	}
}

func TestWrite_BinaryFlushesPendingEntries(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t, record.FormatBinary, false)

	if err := h.exp.Info("capture started"); err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if err := h.exp.Write([]byte("RAW"), false); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	want := testStamp + `{"level":2,"message":"capture started"}` + "\nBINARY_DATA_SIZE:3\nRAW"
	if got := h.file(t); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
	if h.metrics.flushes["binary"] != 1 {
		t.Errorf("binary flushes = %d, want 1", h.metrics.flushes["binary"])
	}
}

func TestWrite_BinaryHeaderFailureSkipsPayload(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t, record.FormatBinary, false)
	h.fs.Fail(storagetest.OpWrite, errors.New("eio"))

	if err := h.exp.Write([]byte("RAW"), false); !errors.Is(err, apperrors.ErrWriteFailed) {
		t.Fatalf("Write() error = %v, want ErrWriteFailed", err)
	}
	if n := h.fs.Calls(storagetest.OpWrite); n != 1 {
		t.Errorf("store writes = %d, want 1", n)
	}
	if h.exp.Status() != record.StatusError {
		t.Errorf("Status() = %v, want error", h.exp.Status())
	}
}

func TestWrite_NotReadyInErrorState(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t, record.FormatCSV, true)
	h.fs.Fail(storagetest.OpWrite, errors.New("eio"))

	if err := h.exp.Write([]byte("a"), false); !errors.Is(err, apperrors.ErrWriteFailed) {
		t.Fatalf("Write() error = %v, want ErrWriteFailed", err)
	}
	if err := h.exp.Write([]byte("b"), false); !errors.Is(err, apperrors.ErrNotReady) {
		t.Errorf("Write() in error state = %v, want ErrNotReady", err)
	}
	if err := h.exp.Printf("c"); !errors.Is(err, apperrors.ErrNotReady) {
		t.Errorf("Printf() in error state = %v, want ErrNotReady", err)
	}

	stats := h.exp.Stats()
	if stats.WriteErrors != 1 || stats.NotReadyRejections != 2 {
		t.Errorf("WriteErrors = %d, NotReadyRejections = %d", stats.WriteErrors, stats.NotReadyRejections)
	}
	if stats.Status != record.StatusError {
		t.Errorf("Status = %v, want error", stats.Status)
	}
}

func TestPrintf(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t, record.FormatJSON, false)

	if err := h.exp.Printf("pid=%d name=%q", 4242, "game.exe"); err != nil {
		t.Fatalf("Printf() error = %v", err)
	}
	if err := h.exp.Debugf("tick %d", 7); err != nil {
		t.Fatalf("Debugf() error = %v", err)
	}
	_ = h.exp.Flush(true)

	want := testStamp + `{"size":24,"data":"pid=4242 name=\"game.exe\""}` + "\n" +
		`{"size":6,"data":"tick 7"}` + "\n"
	if got := h.file(t); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestPrintf_Errors(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t, record.FormatText, false)

	err := h.exp.Printf("%s", strings.Repeat("a", 1024))
	if !errors.Is(err, apperrors.ErrBufferTooSmall) {
		t.Errorf("Printf() error = %v, want ErrBufferTooSmall", err)
	}
	if err := h.exp.Printf("%s", strings.Repeat("a", 1023)); err != nil {
		t.Errorf("Printf() of 1023 bytes error = %v", err)
	}
	if err := h.exp.Printf(""); !errors.Is(err, apperrors.ErrInvalidParameter) {
		t.Errorf("Printf(\"\") error = %v, want ErrInvalidParameter", err)
	}
	if err := h.exp.Printf("%s", ""); !errors.Is(err, apperrors.ErrInvalidParameter) {
		t.Errorf("Printf() with empty output error = %v, want ErrInvalidParameter", err)
	}

	stats := h.exp.Stats()
	if stats.FormatErrors != 1 || stats.InvalidParameters != 2 {
		t.Errorf("FormatErrors = %d, InvalidParameters = %d", stats.FormatErrors, stats.InvalidParameters)
	}
	if stats.Status != record.StatusReady {
		t.Errorf("Status = %v, want ready", stats.Status)
	}
}

func TestLogCSV(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t, record.FormatJSON, false)

	if err := h.exp.LogCSV(100, "temp", 42, "ok"); err != nil {
		t.Fatalf("LogCSV() error = %v", err)
	}
	_ = h.exp.Flush(true)

	if got := h.file(t); got != testStamp+`100,temp,42,"ok"`+"\n" {
		t.Errorf("file = %q", got)
	}
}

func TestLogCSV_OutOfResources(t *testing.T) {
	h := newHarness(t, func(c *Config) { c.MaxRecordSize = 32 })
	h.init(t, record.FormatCSV, false)

	err := h.exp.LogCSV(1, "temp", 1, strings.Repeat("d", 40))
	if !errors.Is(err, apperrors.ErrOutOfResources) {
		t.Fatalf("LogCSV() error = %v, want ErrOutOfResources", err)
	}
	stats := h.exp.Stats()
	if stats.FormatErrors != 1 || stats.BufferedBytes != 0 || stats.Status != record.StatusReady {
		t.Errorf("FormatErrors = %d, BufferedBytes = %d, Status = %v",
			stats.FormatErrors, stats.BufferedBytes, stats.Status)
	}

	if err := h.exp.LogCSV(1, "temp", 1, "ok"); err != nil {
		t.Errorf("LogCSV() within limit error = %v", err)
	}
}

func TestLogJSON(t *testing.T) {
	h := newHarness(t, nil)
	h.init(t, record.FormatCSV, false)

	_ = h.exp.LogJSON(record.LevelError, "read \"MSR\" failed", []byte{1})
	_ = h.exp.Warning("slow medium")
	_ = h.exp.Error("lost device")
	_ = h.exp.Info("ok")
	_ = h.exp.Flush(true)

	want := testStamp +
		`{"level":0,"message":"read \"MSR\" failed","hasData":true}` + "\n" +
		`{"level":1,"message":"slow medium"}` + "\n" +
		`{"level":0,"message":"lost device"}` + "\n" +
		`{"level":2,"message":"ok"}` + "\n"
	if got := h.file(t); got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
	if h.metrics.records["csv"] != 4 {
		t.Errorf("records[csv] = %d, want 4", h.metrics.records["csv"])
	}
}
