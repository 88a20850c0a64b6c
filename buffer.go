package mmapscan

import "github.com/Giulio2002/mmapscan/mmap"

// bufferKind tags which backing store a buffer holds
type bufferKind uint8

const (
	bytesBuffer  bufferKind = iota // owned in-memory bytes
	regionBuffer                   // memory-mapped file region
)

// buffer is the root byte store shared by every Scanner derived from it.
// Scanners hold a *buffer plus an offset/length pair and never a pointer
// into the bytes, so a released region is noticed on the next access.
//
// Ownership is shared through ordinary references: the buffer lives as long
// as the longest-lived Scanner that points at it, and a region that becomes
// unreachable while still mapped is unmapped by its runtime cleanup.
type buffer struct {
	kind   bufferKind
	data   []byte
	region *mmap.Region
}

func newBytesBuffer(b []byte) *buffer {
	return &buffer{kind: bytesBuffer, data: b}
}

func newRegionBuffer(r *mmap.Region) *buffer {
	return &buffer{kind: regionBuffer, region: r}
}

// length returns the total number of addressable bytes.
func (b *buffer) length() int64 {
	if b.kind == regionBuffer {
		return b.region.Size()
	}
	return int64(len(b.data))
}

// bytes returns [off, off+n) of the root store without copying.
func (b *buffer) bytes(off, n int64) ([]byte, error) {
	if b.kind == regionBuffer {
		p, err := b.region.Bytes(off, n)
		if err != nil {
			return nil, fromMmap(err)
		}
		return p, nil
	}
	if off < 0 || n < 0 || off > int64(len(b.data)) || n > int64(len(b.data))-off {
		return nil, rangeError("out of range: %d+%d > %d", off, n, len(b.data))
	}
	return b.data[off : off+n : off+n], nil
}
