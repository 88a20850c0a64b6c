//go:build unix

package mmapscan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/sys/unix"
)

func TestFromFileUnalignedOffset(t *testing.T) {
	_, err := New(writeFile(t, digits(1000)), WithOffset(4095))
	assert.ErrorIs(t, err, unix.EINVAL)
	assert.ErrorIs(t, err, ErrSystem)
}
