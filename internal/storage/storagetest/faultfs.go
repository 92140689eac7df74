// Package storagetest provides a fault-injecting filesystem for tests of
// code that writes export files.
package storagetest

import (
	"os"
	"sync"

	"github.com/spf13/afero"
)

// Op names a filesystem operation that can be made to fail.
type Op string

const (
	OpOpen   Op = "open"
	OpSeek   Op = "seek"
	OpWrite  Op = "write"
	OpSync   Op = "sync"
	OpClose  Op = "close"
	OpRemove Op = "remove"
)

// FaultFs wraps an afero.Fs and fails selected operations on demand.
// Files opened through it inherit its faults.
type FaultFs struct {
	afero.Fs

	mu         sync.Mutex
	faults     map[Op]error
	calls      map[Op]int
	shortWrite bool
	hook       func(Op)
}

// New wraps base. A nil base selects an in-memory filesystem.
func New(base afero.Fs) *FaultFs {
	if base == nil {
		base = afero.NewMemMapFs()
	}
	return &FaultFs{
		Fs:     base,
		faults: make(map[Op]error),
		calls:  make(map[Op]int),
	}
}

// Fail makes every subsequent op return err.
func (f *FaultFs) Fail(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[op] = err
}

// Heal removes the fault for op.
func (f *FaultFs) Heal(op Op) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.faults, op)
}

// ShortWrite makes writes report half of the requested bytes with no error.
func (f *FaultFs) ShortWrite(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shortWrite = enabled
}

// OnOp registers a function called before every operation, after it is
// counted. It may re-enter the code under test.
func (f *FaultFs) OnOp(hook func(Op)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hook = hook
}

// Calls returns how many times op was attempted.
func (f *FaultFs) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns the number of attempted operations of any kind.
func (f *FaultFs) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.calls {
		total += n
	}
	return total
}

func (f *FaultFs) enter(op Op) error {
	f.mu.Lock()
	f.calls[op]++
	err := f.faults[op]
	hook := f.hook
	f.mu.Unlock()

	if hook != nil {
		hook(op)
	}
	return err
}

// Create implements afero.Fs.
func (f *FaultFs) Create(name string) (afero.File, error) {
	return f.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

// Open implements afero.Fs.
func (f *FaultFs) Open(name string) (afero.File, error) {
	return f.OpenFile(name, os.O_RDONLY, 0)
}

// OpenFile implements afero.Fs.
func (f *FaultFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if err := f.enter(OpOpen); err != nil {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	file, err := f.Fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return &faultFile{File: file, fs: f}, nil
}

// Remove implements afero.Fs.
func (f *FaultFs) Remove(name string) error {
	if err := f.enter(OpRemove); err != nil {
		return &os.PathError{Op: "remove", Path: name, Err: err}
	}
	return f.Fs.Remove(name)
}

// Name implements afero.Fs.
func (f *FaultFs) Name() string {
	return "FaultFs"
}

type faultFile struct {
	afero.File
	fs *FaultFs
}

func (f *faultFile) Seek(offset int64, whence int) (int64, error) {
	if err := f.fs.enter(OpSeek); err != nil {
		return 0, err
	}
	return f.File.Seek(offset, whence)
}

func (f *faultFile) Write(p []byte) (int, error) {
	if err := f.fs.enter(OpWrite); err != nil {
		return 0, err
	}

	f.fs.mu.Lock()
	short := f.fs.shortWrite
	f.fs.mu.Unlock()
	if short && len(p) > 1 {
		return f.File.Write(p[:len(p)/2])
	}
	return f.File.Write(p)
}

func (f *faultFile) Sync() error {
	if err := f.fs.enter(OpSync); err != nil {
		return err
	}
	return f.File.Sync()
}

func (f *faultFile) Close() error {
	err := f.fs.enter(OpClose)
	if cerr := f.File.Close(); err == nil {
		err = cerr
	}
	return err
}
