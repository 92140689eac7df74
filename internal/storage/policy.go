package storage

import "github.com/jittakal/telemetryexport/pkg/storage"

// Ensure implementation satisfies interface at compile time.
var _ storage.RotationPolicy = (*SizePolicy)(nil)

// DefaultMaxFileSize is the rotation threshold used when none is configured.
const DefaultMaxFileSize = 1024 * 1024

// PolicyConfig configures rotation behavior.
type PolicyConfig struct {
	// MaxFileSizeBytes is the file size above which the file is rotated.
	// Zero selects DefaultMaxFileSize; a negative value disables rotation.
	MaxFileSizeBytes int64
}

// SizePolicy rotates once the current file exceeds a byte threshold.
type SizePolicy struct {
	maxSizeBytes int64
}

// NewSizePolicy creates a size-based rotation policy.
func NewSizePolicy(config PolicyConfig) *SizePolicy {
	maxSize := config.MaxFileSizeBytes
	if maxSize == 0 {
		maxSize = DefaultMaxFileSize
	}
	return &SizePolicy{maxSizeBytes: maxSize}
}

// ShouldRotate returns true once fileBytes exceeds the threshold.
func (p *SizePolicy) ShouldRotate(fileBytes int64) bool {
	return p.maxSizeBytes > 0 && fileBytes > p.maxSizeBytes
}

// MaxSizeBytes returns the configured threshold, or a non-positive value
// when rotation is disabled.
func (p *SizePolicy) MaxSizeBytes() int64 {
	return p.maxSizeBytes
}
