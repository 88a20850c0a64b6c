package mmapscan

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Giulio2002/mmapscan/mmap"
)

func writeFile(t *testing.T, data string) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mmapscan.dat")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
	f, err := os.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func digits(n int) string {
	return strings.Repeat("0123456789", n)
}

// sources builds, for each kind of source, a 10000-byte scanner whose
// contents are "0123456789" repeated 1000 times.
func sources() map[string]func(t *testing.T) *Scanner {
	return map[string]func(t *testing.T) *Scanner{
		"file": func(t *testing.T) *Scanner {
			s, err := FromFile(writeFile(t, digits(1000)))
			require.NoError(t, err)
			t.Cleanup(func() { s.Region().Unmap() })
			return s
		},
		"bytes": func(t *testing.T) *Scanner {
			s, err := FromBytes([]byte(digits(1020)), WithOffset(100), WithLength(10000))
			require.NoError(t, err)
			return s
		},
		"string": func(t *testing.T) *Scanner {
			s, err := New(digits(1020), WithOffset(100), WithLength(10000))
			require.NoError(t, err)
			return s
		},
		"region": func(t *testing.T) *Scanner {
			r, err := mmap.Map(writeFile(t, digits(1020)), 0, mmap.ToEnd)
			require.NoError(t, err)
			t.Cleanup(func() { r.Unmap() })
			s, err := New(r, WithOffset(100), WithLength(10000))
			require.NoError(t, err)
			return s
		},
		"scanner": func(t *testing.T) *Scanner {
			root, err := New(writeFile(t, digits(1020)))
			require.NoError(t, err)
			t.Cleanup(func() { root.Region().Unmap() })
			s, err := New(root, WithOffset(100), WithLength(10000))
			require.NoError(t, err)
			return s
		},
	}
}

func TestScannerSuite(t *testing.T) {
	for name, open := range sources() {
		t.Run(name, func(t *testing.T) {
			runSuite(t, open)
		})
	}
}

func runSuite(t *testing.T, open func(t *testing.T) *Scanner) {
	t.Run("Size", func(t *testing.T) {
		s := open(t)
		assert.Equal(t, int64(10000), s.Size())
		assert.Equal(t, int64(10000), s.Len())
	})

	t.Run("Text", func(t *testing.T) {
		s := open(t)
		text, err := s.Text()
		require.NoError(t, err)
		assert.Equal(t, digits(1000), text)
	})

	t.Run("Slice", func(t *testing.T) {
		s := open(t)
		sl, err := s.Slice(10, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(100), sl.Size())
		text, err := sl.Text()
		require.NoError(t, err)
		assert.Equal(t, digits(10), text)
	})

	t.Run("Pos", func(t *testing.T) {
		s := open(t)
		assert.Equal(t, int64(0), s.Pos())
		_, err := s.Scan(MustCompile(`...`))
		require.NoError(t, err)
		assert.Equal(t, int64(3), s.Pos())
	})

	t.Run("SetPos", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetPos(100))
		assert.Equal(t, int64(100), s.Pos())

		err := s.SetPos(-1)
		require.ErrorIs(t, err, ErrRange)
		assert.EqualError(t, err, "mmapscan: out of range: -1")

		assert.EqualError(t, s.SetPos(10001), "mmapscan: out of range: 10001 > 10000")
		assert.EqualError(t, s.SetPos(20000), "mmapscan: out of range: 20000 > 10000")
		assert.Equal(t, int64(100), s.Pos())
	})

	t.Run("Scan", func(t *testing.T) {
		s := open(t)
		ret, err := s.Scan(MustCompile(`\d{10}`))
		require.NoError(t, err)
		require.NotNil(t, ret)
		assertText(t, "0123456789", ret)
		assert.Equal(t, int64(10), s.Pos())

		ret, err = s.Scan(MustCompile(`123`))
		require.NoError(t, err)
		assert.Nil(t, ret)
		assert.Equal(t, int64(10), s.Pos())
	})

	t.Run("ScanUntil", func(t *testing.T) {
		s := open(t)
		_, err := s.Scan(MustCompile(`012`))
		require.NoError(t, err)
		ret, err := s.ScanUntil(MustCompile(`678`))
		require.NoError(t, err)
		assertText(t, "345678", ret)
		assert.Equal(t, int64(9), s.Pos())

		s.Reset()
		ret, err = s.ScanUntil(MustCompile(`321`))
		require.NoError(t, err)
		assert.Nil(t, ret)

		_, err = s.ScanUntil(MustCompile(`456`))
		require.NoError(t, err)
		assert.Equal(t, int64(7), s.Pos())
	})

	t.Run("Check", func(t *testing.T) {
		s := open(t)
		ret, err := s.Check(MustCompile(`\d{10}`))
		require.NoError(t, err)
		assertText(t, "0123456789", ret)
		assert.Equal(t, int64(0), s.Pos())

		ret, err = s.Check(MustCompile(`123`))
		require.NoError(t, err)
		assert.Nil(t, ret)
	})

	t.Run("Skip", func(t *testing.T) {
		s := open(t)
		n, ok, err := s.Skip(MustCompile(`\d{10}`))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(10), n)
		assert.Equal(t, int64(10), s.Pos())

		n, ok, err = s.Skip(MustCompile(`123`))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Zero(t, n)
	})

	t.Run("Match", func(t *testing.T) {
		s := open(t)
		n, ok, err := s.Match(MustCompile(`\d{10}`))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, int64(10), n)
		assert.Equal(t, int64(0), s.Pos())

		_, ok, err = s.Match(MustCompile(`123`))
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Matched", func(t *testing.T) {
		s := open(t)
		m, err := s.Matched(0)
		require.NoError(t, err)
		assert.Nil(t, m)

		_, err = s.Scan(MustCompile(`\d{6}`))
		require.NoError(t, err)
		assertMatched(t, s, 0, "012345")

		s.Reset()
		_, err = s.ScanUntil(MustCompile(`4567`))
		require.NoError(t, err)
		assertMatched(t, s, 0, "4567")
	})

	t.Run("MatchedNth", func(t *testing.T) {
		s := open(t)
		_, err := s.Scan(MustCompile(`(..)(..)(..)`))
		require.NoError(t, err)
		assertMatched(t, s, 0, "012345")
		assertMatched(t, s, 1, "01")
		assertMatched(t, s, 2, "23")
		assertMatched(t, s, 3, "45")
		for _, i := range []int{4, -1} {
			m, err := s.Matched(i)
			require.NoError(t, err)
			assert.Nil(t, m, "group %d", i)
		}
	})

	t.Run("Peek", func(t *testing.T) {
		s := open(t)
		p, err := s.Peek(10)
		require.NoError(t, err)
		assertText(t, "0123456789", p)
		assert.Equal(t, int64(0), s.Pos())
	})

	t.Run("EOS", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetPos(10000))
		assert.True(t, s.EOS())
		require.NoError(t, s.SetPos(9999))
		assert.False(t, s.EOS())
	})

	t.Run("Rest", func(t *testing.T) {
		s := open(t)
		require.NoError(t, s.SetPos(9997))
		assertText(t, "789", s.Rest())
		require.NoError(t, s.SetPos(10000))
		assertText(t, "", s.Rest())
	})

	t.Run("NewWithOffset", func(t *testing.T) {
		s := open(t)
		sub, err := New(s, WithOffset(4096))
		require.NoError(t, err)
		assert.Equal(t, s.Size()-4096, sub.Size())
	})

	t.Run("NewWithLength", func(t *testing.T) {
		s := open(t)
		sub, err := New(s, WithLength(10))
		require.NoError(t, err)
		assert.Equal(t, int64(10), sub.Size())

		_, err = New(s, WithLength(-1))
		require.ErrorIs(t, err, ErrRange)
		assert.EqualError(t, err, "mmapscan: length out of range: -1")
	})
}

func assertText(t *testing.T, want string, s *Scanner) {
	t.Helper()
	require.NotNil(t, s)
	got, err := s.Text()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func assertMatched(t *testing.T, s *Scanner, i int, want string) {
	t.Helper()
	m, err := s.Matched(i)
	require.NoError(t, err)
	assertText(t, want, m)
}
