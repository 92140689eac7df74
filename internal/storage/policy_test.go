package storage

import "testing"

func TestNewSizePolicy(t *testing.T) {
	tests := []struct {
		name   string
		config PolicyConfig
		want   int64
	}{
		{"default", PolicyConfig{}, DefaultMaxFileSize},
		{"explicit", PolicyConfig{MaxFileSizeBytes: 4096}, 4096},
		{"disabled", PolicyConfig{MaxFileSizeBytes: -1}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewSizePolicy(tt.config).MaxSizeBytes(); got != tt.want {
				t.Errorf("MaxSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSizePolicy_ShouldRotate(t *testing.T) {
	tests := []struct {
		name      string
		maxSize   int64
		fileBytes int64
		want      bool
	}{
		{"empty file", 1024, 0, false},
		{"below threshold", 1024, 1000, false},
		{"at threshold", 1024, 1024, false},
		{"above threshold", 1024, 1025, true},
		{"disabled", -1, 1 << 40, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy := NewSizePolicy(PolicyConfig{MaxFileSizeBytes: tt.maxSize})
			if got := policy.ShouldRotate(tt.fileBytes); got != tt.want {
				t.Errorf("ShouldRotate(%d) = %v, want %v", tt.fileBytes, got, tt.want)
			}
		})
	}
}
