package mmapscan

import (
	"io"
	"log/slog"

	"github.com/Giulio2002/mmapscan/mmap"
)

// config holds construction parameters. Offset and length are optional;
// an unset length means "to the end of the source".
type config struct {
	offset    int64
	length    int64
	hasLength bool
	logger    *slog.Logger

	access    mmap.AccessPattern
	hasAccess bool
}

// Option configures scanner construction.
type Option func(*config) error

// WithOffset starts the new scanner n bytes into its source.
// A negative n fails with a range error.
func WithOffset(n int64) Option {
	return func(c *config) error {
		if n < 0 {
			return rangeError("offset out of range: %d", n)
		}
		c.offset = n
		return nil
	}
}

// WithLength limits the new scanner to n bytes. Lengths running past the
// end of the source are clamped; a negative n fails with a range error.
func WithLength(n int64) Option {
	return func(c *config) error {
		if n < 0 {
			return rangeError("length out of range: %d", n)
		}
		c.length = n
		c.hasLength = true
		return nil
	}
}

// WithLogger sets the logger used when files are mapped and released.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
//	s, err := mmapscan.OpenFile("access.log", mmapscan.WithLogger(logger))
func WithLogger(l *slog.Logger) Option {
	return func(c *config) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}

// WithAccessPattern passes an access hint to the kernel after a file is
// mapped. It has no effect on scanners that do not map a file themselves.
func WithAccessPattern(p mmap.AccessPattern) Option {
	return func(c *config) error {
		c.access = p
		c.hasAccess = true
		return nil
	}
}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newConfig(opts []Option) (*config, error) {
	c := &config{logger: discardLogger}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// window resolves the configured (offset, length) against the available
// bytes. An offset past the end is an error; an oversized length is not.
func (c *config) window(available int64) (offset, size int64, err error) {
	if c.offset > available {
		return 0, 0, rangeError("length out of range: %d > %d", c.offset, available)
	}
	size = available - c.offset
	if c.hasLength && c.length < size {
		size = c.length
	}
	return c.offset, size, nil
}
