// Package mmap provides read-only memory mapping of file regions with an
// explicit unmap.
//
// A Region never hands out its mapping without checking that it is still
// mapped: every access goes through Bytes, so a region that has been
// unmapped reports ErrUnmapped instead of faulting.
package mmap

import (
	"io"
	"log/slog"
	"math"
	"os"
	"runtime"
)

// ToEnd may be passed as a length to map everything from the offset to the
// end of the file. Any length that overruns the file is clamped the same way.
const ToEnd int64 = math.MaxInt64

// Region represents a read-only, shared mapping of a file range.
type Region struct {
	data   []byte // Mapped memory (nil for a zero-length region)
	offset int64  // File offset the mapping starts at
	size   int64  // Mapped length
	mapped bool   // True between a successful Map and Unmap
	used   bool   // True once Map succeeded; a region maps at most once

	// Windows-specific mapping handle (zero on Unix)
	handle uintptr

	logger  *slog.Logger
	cleanup runtime.Cleanup
}

// mapping is what the runtime cleanup needs to release an unreachable region.
// It must not reference the Region itself.
type mapping struct {
	data   []byte
	handle uintptr
	logger *slog.Logger
}

// Option configures a Region.
type Option func(*Region)

// WithLogger sets the logger used for map and unmap events.
func WithLogger(l *slog.Logger) Option {
	return func(r *Region) {
		if l != nil {
			r.logger = l
		}
	}
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Map creates a read-only mapping of f covering [offset, offset+length),
// with length clamped to the file size.
func Map(f *os.File, offset, length int64, opts ...Option) (*Region, error) {
	r := &Region{}
	if err := r.Map(f, offset, length, opts...); err != nil {
		return nil, err
	}
	return r, nil
}

// Map maps f into a zero Region. The offset is handed to the OS unchanged,
// so it must satisfy the platform's alignment rules (page size on Unix,
// allocation granularity on Windows).
func (r *Region) Map(f *os.File, offset, length int64, opts ...Option) error {
	if r.used {
		return ErrAlreadyMapped
	}
	if f == nil {
		return ErrNilFile
	}
	if offset < 0 || length < 0 {
		return ErrInvalidRange
	}

	r.logger = discard
	for _, opt := range opts {
		opt(r)
	}

	fi, err := f.Stat()
	if err != nil {
		return &Error{Op: "fstat", Err: err}
	}
	fileSize := fi.Size()
	if offset > fileSize {
		return ErrInvalidRange
	}
	if length > fileSize-offset {
		length = fileSize - offset
	}
	if length > math.MaxInt {
		return ErrInvalidSize
	}

	var data []byte
	var handle uintptr
	if length > 0 {
		data, handle, err = osMap(f, offset, int(length))
		if err != nil {
			return &Error{Op: "mmap", Err: err}
		}
		r.cleanup = runtime.AddCleanup(r, releaseMapping, mapping{data: data, handle: handle, logger: r.logger})
	}

	r.data = data
	r.handle = handle
	r.offset = offset
	r.size = length
	r.mapped = true
	r.used = true
	r.logger.Debug("mmap: mapped region",
		slog.String("file", f.Name()),
		slog.Int64("offset", offset),
		slog.Int64("length", length))
	return nil
}

// releaseMapping runs when a still-mapped Region becomes unreachable.
func releaseMapping(m mapping) {
	if err := osUnmap(m.data, m.handle); err != nil {
		m.logger.Warn("mmap: cleanup unmap failed", slog.Any("error", err))
		return
	}
	m.logger.Debug("mmap: released unreachable region", slog.Int("length", len(m.data)))
}

// Size returns the length of the window. It is unchanged by Unmap.
func (r *Region) Size() int64 {
	return r.size
}

// Offset returns the file offset the mapping starts at.
func (r *Region) Offset() int64 {
	return r.offset
}

// Mapped reports whether the region is currently mapped.
func (r *Region) Mapped() bool {
	return r.mapped
}

// Bytes returns the mapped bytes in [off, off+n). The returned slice aliases
// the mapping and must not be used after Unmap.
func (r *Region) Bytes(off, n int64) ([]byte, error) {
	if !r.mapped {
		return nil, ErrUnmapped
	}
	if off < 0 || n < 0 || off > r.size || n > r.size-off {
		return nil, ErrInvalidRange
	}
	if n == 0 {
		return []byte{}, nil
	}
	return r.data[off : off+n : off+n], nil
}

// Unmap releases the mapping. Calling it on a region that is not mapped
// returns ErrUnmapped.
func (r *Region) Unmap() error {
	if !r.mapped {
		return ErrUnmapped
	}
	if r.data != nil {
		r.cleanup.Stop()
		if err := osUnmap(r.data, r.handle); err != nil {
			return &Error{Op: "munmap", Err: err}
		}
	}
	r.data = nil
	r.handle = 0
	r.mapped = false
	r.logger.Debug("mmap: unmapped region",
		slog.Int64("offset", r.offset),
		slog.Int64("length", r.size))
	return nil
}

// Advise provides a hint to the kernel about how the region will be read.
func (r *Region) Advise(pattern AccessPattern) error {
	if !r.mapped {
		return ErrUnmapped
	}
	if len(r.data) == 0 {
		return nil
	}
	if err := osAdvise(r.data, pattern); err != nil {
		return &Error{Op: "madvise", Err: err}
	}
	return nil
}

// AccessPattern provides hints to the kernel about how the data will be accessed.
type AccessPattern int

const (
	// AccessDefault is the default access pattern (no specific advice).
	AccessDefault AccessPattern = iota
	// AccessSequential expects data to be accessed sequentially.
	AccessSequential
	// AccessRandom expects data to be accessed randomly.
	AccessRandom
	// AccessWillNeed expects data to be accessed in the near future.
	AccessWillNeed
	// AccessDontNeed expects data to not be accessed in the near future.
	AccessDontNeed
)

// Error represents an mmap error.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "mmap: " + e.Op + ": " + e.Err.Error()
	}
	return "mmap: " + e.Op
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Common errors
var (
	ErrInvalidSize   = &Error{Op: "invalid size"}
	ErrInvalidRange  = &Error{Op: "invalid range"}
	ErrUnmapped      = &Error{Op: "already unmapped"}
	ErrAlreadyMapped = &Error{Op: "already mapped"}
	ErrNilFile       = &Error{Op: "nil file"}
)
