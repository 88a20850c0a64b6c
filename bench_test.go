package mmapscan

import (
	"strings"
	"testing"
)

func benchmarkTokens(b *testing.B, compile func(string) (*Pattern, error)) {
	data := strings.Repeat("alpha 12345 beta 678 gamma\n", 4096)
	word, err := compile(`[a-z]+`)
	if err != nil {
		b.Fatal(err)
	}
	num, err := compile(`\d+`)
	if err != nil {
		b.Fatal(err)
	}
	space, err := compile(`\s+`)
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, err := FromString(data)
		if err != nil {
			b.Fatal(err)
		}
		for !s.EOS() {
			if _, ok, _ := s.Skip(word); ok {
				continue
			}
			if _, ok, _ := s.Skip(num); ok {
				continue
			}
			if _, ok, _ := s.Skip(space); !ok {
				b.Fatalf("stuck at %d", s.Pos())
			}
		}
	}
}

func BenchmarkSkipCoregex(b *testing.B) {
	benchmarkTokens(b, Compile)
}

func BenchmarkSkipStdlib(b *testing.B) {
	benchmarkTokens(b, CompileStd)
}

func BenchmarkSliceChain(b *testing.B) {
	s, err := FromString(strings.Repeat("x", 1<<16))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		leaf := s
		for j := 0; j < 64; j++ {
			leaf, _ = leaf.Slice(1, leaf.Size())
		}
		if leaf.Offset() != 64 {
			b.Fatalf("offset %d", leaf.Offset())
		}
	}
}
