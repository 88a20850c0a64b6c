package mmapscan

import "runtime"

// scanSub is the one algorithm behind Scan, ScanUntil, Check, CheckUntil,
// Skip, SkipUntil and Match.
//
// It matches p against the bytes from the cursor to the end of the view,
// anchored at the cursor or searching forward. On success it records the
// capture groups, moves the cursor past the match when advance is set, and
// returns the cursor position the attempt started from together with the
// distance from there to the end of the match. The cursor never moves on
// failure. No match is reported as ok == false with a nil error.
func (s *Scanner) scanSub(p *Pattern, advance, anchored bool) (from, n int64, ok bool, err error) {
	s.clearMatch()
	if p == nil {
		return 0, 0, false, &Error{Code: TypeErr, Message: "nil pattern"}
	}
	if s.pos > s.size {
		return 0, 0, false, nil
	}
	if !anchored && s.pos >= s.size {
		return 0, 0, false, nil
	}

	b, err := s.buf.bytes(s.offset+s.pos, s.size-s.pos)
	if err != nil {
		return 0, 0, false, err
	}
	loc := p.find(b, anchored)
	runtime.KeepAlive(s.buf)
	if !validMatch(loc, len(b)) {
		return 0, 0, false, nil
	}

	from = s.pos
	s.recordMatch(p, from, loc)
	n = int64(loc[1])
	if advance {
		s.pos += n
	}
	return from, n, true, nil
}

// Scan matches p anchored at the cursor. On success it advances the cursor
// past the match and returns the matched view; otherwise it returns nil.
func (s *Scanner) Scan(p *Pattern) (*Scanner, error) {
	from, n, ok, err := s.scanSub(p, true, true)
	if !ok {
		return nil, err
	}
	return s.slice(from, n), nil
}

// ScanUntil searches forward from the cursor for p. On success it advances
// the cursor past the match and returns the view from the old cursor to the
// end of the match. Matched(0) holds just the match itself.
func (s *Scanner) ScanUntil(p *Pattern) (*Scanner, error) {
	from, n, ok, err := s.scanSub(p, true, false)
	if !ok {
		return nil, err
	}
	return s.slice(from, n), nil
}

// Check is Scan without moving the cursor.
func (s *Scanner) Check(p *Pattern) (*Scanner, error) {
	from, n, ok, err := s.scanSub(p, false, true)
	if !ok {
		return nil, err
	}
	return s.slice(from, n), nil
}

// CheckUntil is ScanUntil without moving the cursor.
func (s *Scanner) CheckUntil(p *Pattern) (*Scanner, error) {
	from, n, ok, err := s.scanSub(p, false, false)
	if !ok {
		return nil, err
	}
	return s.slice(from, n), nil
}

// Skip matches p anchored at the cursor and advances past it, returning the
// match length. ok is false when p does not match.
func (s *Scanner) Skip(p *Pattern) (n int64, ok bool, err error) {
	_, n, ok, err = s.scanSub(p, true, true)
	return n, ok, err
}

// SkipUntil searches forward for p and advances past it, returning the
// distance from the old cursor to the end of the match.
func (s *Scanner) SkipUntil(p *Pattern) (n int64, ok bool, err error) {
	_, n, ok, err = s.scanSub(p, true, false)
	return n, ok, err
}

// Match reports the length of an anchored match of p at the cursor without
// moving it.
func (s *Scanner) Match(p *Pattern) (n int64, ok bool, err error) {
	_, n, ok, err = s.scanSub(p, false, true)
	return n, ok, err
}
