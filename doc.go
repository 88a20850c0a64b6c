// Package mmapscan is a zero-copy, regex-driven scanner over large byte
// buffers, typically memory-mapped files.
//
// A Scanner is an (offset, size) view of a root buffer with a cursor and the
// state of its last match. Slicing a Scanner, or matching with it, yields new
// Scanners over the same root buffer; no bytes are copied until Bytes, Text
// or MatchedBytes is called.
//
// Key features:
//   - Read-only mmap of a file window, explicit Unmap via mmap.Region
//   - Slices of slices always point at the root buffer
//   - Scan, ScanUntil, Check, CheckUntil, Skip, SkipUntil and Match over
//     any Engine (coregex by default, stdlib regexp via CompileStd)
//   - Capture groups as zero-copy views
//   - zstd, s2, gzip and lz4 sources through FromCompressed
//
// Offsets past the end of a source are errors, while lengths past the end
// are clamped, so WithLength can be used to mean "up to n bytes".
//
// Basic usage:
//
//	s, err := mmapscan.OpenFile("/var/log/app.log")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ts := mmapscan.MustCompile(`\d{4}-\d{2}-\d{2}`)
//	nl := mmapscan.MustCompile(`\n`)
//	for !s.EOS() {
//	    tok, err := s.Scan(ts)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    if tok != nil {
//	        day, _ := tok.Text()
//	        fmt.Println(day)
//	    }
//	    if _, ok, _ := s.SkipUntil(nl); !ok {
//	        break
//	    }
//	}
//
// A Scanner is not safe for concurrent use. Unmapping a region while other
// goroutines scan it is a caller error; the scanners then report
// ErrAlreadyUnmapped on their next access.
package mmapscan
