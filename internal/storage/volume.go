package storage

import (
	"fmt"
	"log/slog"

	"github.com/spf13/afero"

	"github.com/jittakal/telemetryexport/internal/errors"
	"github.com/jittakal/telemetryexport/pkg/storage"
)

// Ensure implementations satisfy interface at compile time.
var (
	_ storage.Provider = (*DirProvider)(nil)
	_ storage.Provider = (*FsProvider)(nil)
)

// DirProvider probes candidate mount directories in order and returns a
// filesystem rooted at the first one that exists and accepts writes.
type DirProvider struct {
	base       afero.Fs
	candidates []string
	logger     *slog.Logger
}

// NewDirProvider creates a provider over base. When base is nil the host
// filesystem is used.
func NewDirProvider(base afero.Fs, candidates []string, logger *slog.Logger) *DirProvider {
	if base == nil {
		base = afero.NewOsFs()
	}
	return &DirProvider{
		base:       base,
		candidates: candidates,
		logger:     logger,
	}
}

// Acquire implements storage.Provider.
func (p *DirProvider) Acquire() (afero.Fs, error) {
	for _, dir := range p.candidates {
		if dir == "" {
			continue
		}

		if err := p.probe(dir); err != nil {
			p.logger.Debug("volume candidate rejected", "dir", dir, "error", err)
			continue
		}

		p.logger.Info("export volume acquired", "dir", dir)
		return afero.NewBasePathFs(p.base, dir), nil
	}

	return nil, fmt.Errorf("%w: none of %d candidate directories is writable",
		errors.ErrDeviceNotFound, len(p.candidates))
}

// probe checks that dir is a directory and that a file can be created in it.
func (p *DirProvider) probe(dir string) error {
	ok, err := afero.DirExists(p.base, dir)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("not a directory")
	}

	f, err := afero.TempFile(p.base, dir, ".probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return p.base.Remove(name)
}

// FsProvider hands out an already acquired filesystem.
type FsProvider struct {
	fs afero.Fs
}

// NewFsProvider creates a provider for fs.
func NewFsProvider(fs afero.Fs) *FsProvider {
	return &FsProvider{fs: fs}
}

// Acquire implements storage.Provider.
func (p *FsProvider) Acquire() (afero.Fs, error) {
	if p.fs == nil {
		return nil, fmt.Errorf("%w: no filesystem configured", errors.ErrDeviceNotFound)
	}
	return p.fs, nil
}
