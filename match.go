package mmapscan

// Group is one capture group of a match. Start is relative to the start of
// the scanner's view. OK is false for an optional group that did not take
// part in the match.
type Group struct {
	Start  int64
	Length int64
	OK     bool
}

// End returns the view-relative end of the group.
func (g Group) End() int64 {
	return g.Start + g.Length
}

// MatchState records the last successful match of a Scanner: one Group per
// capture group, group 0 being the whole match.
type MatchState struct {
	groups []Group
	from   int64 // cursor position the match attempt started at
}

// Len returns the number of groups, including group 0.
func (m MatchState) Len() int {
	return len(m.groups)
}

// Group returns the i-th group. ok is false when i is out of range or the
// group did not participate.
func (m MatchState) Group(i int) (g Group, ok bool) {
	if i < 0 || i >= len(m.groups) {
		return Group{}, false
	}
	g = m.groups[i]
	return g, g.OK
}

// From returns the cursor position the matching attempt started from.
func (m MatchState) From() int64 {
	return m.from
}

// validMatch reports whether loc holds a usable group 0 for an input of
// n bytes.
func validMatch(loc []int, n int) bool {
	return len(loc) >= 2 && len(loc)%2 == 0 &&
		0 <= loc[0] && loc[0] <= loc[1] && loc[1] <= n
}

// recordMatch converts cursor-relative index pairs from the engine into
// view-relative groups. loc must pass validMatch. Groups that fall outside
// group 0 or end before they start are recorded as absent. The group slice
// is reused across matches.
func (s *Scanner) recordMatch(p *Pattern, from int64, loc []int) {
	groups := s.match.groups[:0]
	for i := 0; i+1 < len(loc); i += 2 {
		start, end := loc[i], loc[i+1]
		if start < loc[0] || end > loc[1] || start > end {
			groups = append(groups, Group{})
			continue
		}
		groups = append(groups, Group{
			Start:  from + int64(start),
			Length: int64(end - start),
			OK:     true,
		})
	}
	s.match = MatchState{groups: groups, from: from}
	s.names = p.names
	s.matched = true
}

func (s *Scanner) clearMatch() {
	s.matched = false
	s.match.groups = s.match.groups[:0]
	s.match.from = 0
	s.names = nil
}

// MatchState returns a copy of the last match, or false if the last scan
// did not match.
func (s *Scanner) MatchState() (MatchState, bool) {
	if !s.matched {
		return MatchState{}, false
	}
	groups := make([]Group, len(s.match.groups))
	copy(groups, s.match.groups)
	return MatchState{groups: groups, from: s.match.from}, true
}

// IsMatched reports whether the last scan operation matched.
func (s *Scanner) IsMatched() bool {
	return s.matched
}

func (s *Scanner) group(i int) (Group, bool) {
	if !s.matched {
		return Group{}, false
	}
	return s.match.Group(i)
}

// groupIndex returns the group an optional index argument selects.
func groupIndex(i []int) int {
	if len(i) == 0 {
		return 0
	}
	return i[0]
}

// Matched returns a view of capture group i of the last match. Without an
// argument it returns the whole match. It returns nil when the last scan
// failed, i is out of range, or the group did not participate. The view
// shares the root buffer.
func (s *Scanner) Matched(i ...int) (*Scanner, error) {
	g, ok := s.group(groupIndex(i))
	if !ok {
		return nil, nil
	}
	if err := s.live(); err != nil {
		return nil, err
	}
	return s.slice(g.Start, g.Length), nil
}

// MatchedBytes is like Matched but returns an owned copy of the bytes.
func (s *Scanner) MatchedBytes(i ...int) ([]byte, error) {
	g, ok := s.group(groupIndex(i))
	if !ok {
		return nil, nil
	}
	p, err := s.buf.bytes(s.offset+g.Start, g.Length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(p))
	copy(out, p)
	return out, nil
}

// MatchedName returns the view of the first participating capture group
// with the given name.
func (s *Scanner) MatchedName(name string) (*Scanner, error) {
	if !s.matched || name == "" {
		return nil, nil
	}
	for i, n := range s.names {
		if n != name {
			continue
		}
		if _, ok := s.group(i); ok {
			return s.Matched(i)
		}
	}
	return nil, nil
}

// PreMatch returns the view from the start of the scanner to the start of
// the last match, or nil when there is no match.
func (s *Scanner) PreMatch() *Scanner {
	g, ok := s.group(0)
	if !ok {
		return nil
	}
	return s.slice(0, g.Start)
}

// PostMatch returns the view from the end of the last match to the end of
// the scanner, or nil when there is no match.
func (s *Scanner) PostMatch() *Scanner {
	g, ok := s.group(0)
	if !ok {
		return nil
	}
	return s.slice(g.End(), s.size-g.End())
}

// live reports ErrAlreadyUnmapped when the backing mapping is gone.
func (s *Scanner) live() error {
	if s.buf.kind == regionBuffer && !s.buf.region.Mapped() {
		return NewError(AlreadyUnmappedErr)
	}
	return nil
}
