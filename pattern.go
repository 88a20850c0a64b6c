package mmapscan

import (
	"regexp"

	"github.com/coregx/coregex"
)

// Engine is the regex capability a Pattern drives. FindSubmatchIndex must
// return the leftmost match in b as start/end index pairs, group 0 first,
// with -1 pairs for groups that did not participate, or nil for no match.
//
// *coregex.Regex and *regexp.Regexp both satisfy Engine. Host engines may
// return inconsistent pairs; scanners treat those groups as absent.
type Engine interface {
	FindSubmatchIndex(b []byte) []int
}

// Pattern pairs a search engine with an engine anchored at the start of its
// input. Scanners hand a Pattern only the bytes from the cursor to the end of
// the view, so "anchored" means anchored at the cursor.
//
// A Pattern is immutable and safe to share between scanners and goroutines
// as long as its engines are.
type Pattern struct {
	expr     string
	search   Engine
	anchored Engine
	names    []string
}

// Compile compiles expr with coregex, building both the search form and the
// \A-anchored form. coregex locates each match; the group positions come
// from the standard library engine run anchored at the match start.
//
// Example:
//
//	word := mmapscan.MustCompile(`[a-z]+`)
//	tok, err := s.Scan(word)
func Compile(expr string) (*Pattern, error) {
	fast, err := coregex.Compile(expr)
	if err != nil {
		return nil, err
	}
	fastAnchored, err := coregex.Compile(anchor(expr))
	if err != nil {
		return nil, err
	}
	std, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	exact, err := regexp.Compile(anchor(expr))
	if err != nil {
		return nil, err
	}
	return &Pattern{
		expr:     expr,
		search:   &coregexEngine{fast: fast, exact: exact, fallback: std},
		anchored: &coregexEngine{fast: fastAnchored, exact: exact},
		names:    std.SubexpNames(),
	}, nil
}

// coregexEngine finds the leftmost match start with coregex and resolves
// the match end and capture groups with exact, anchored at that start.
type coregexEngine struct {
	fast  *coregex.Regex
	exact *regexp.Regexp // \A-anchored form

	// fallback searches the whole input when exact rejects the start
	// because of an assertion on the text before it, such as \B.
	fallback *regexp.Regexp
}

func (e *coregexEngine) FindSubmatchIndex(b []byte) []int {
	loc := e.fast.FindIndex(b)
	if loc == nil {
		return nil
	}
	start := loc[0]
	sub := e.exact.FindSubmatchIndex(b[start:])
	if sub == nil {
		if e.fallback == nil || start == 0 {
			return nil
		}
		return e.fallback.FindSubmatchIndex(b)
	}
	for i := range sub {
		if sub[i] >= 0 {
			sub[i] += start
		}
	}
	return sub
}

// MustCompile is like Compile but panics if the expression cannot be parsed.
func MustCompile(expr string) *Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic("mmapscan: Compile(`" + expr + "`): " + err.Error())
	}
	return p
}

// CompileStd compiles expr with the standard library regexp package.
func CompileStd(expr string) (*Pattern, error) {
	search, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	anchored, err := regexp.Compile(anchor(expr))
	if err != nil {
		return nil, err
	}
	return &Pattern{
		expr:     expr,
		search:   search,
		anchored: anchored,
		names:    search.SubexpNames(),
	}, nil
}

// NewPattern wraps host-supplied engines. names follows the SubexpNames
// convention (names[0] is the whole match) and may be nil.
//
// When anchored is nil, anchored matches are answered by the search engine
// and accepted only when the match starts at the cursor. This is equivalent
// for leftmost-first engines but costs a full search on failure.
func NewPattern(expr string, search, anchored Engine, names []string) *Pattern {
	return &Pattern{expr: expr, search: search, anchored: anchored, names: names}
}

func anchor(expr string) string {
	return `\A(?:` + expr + `)`
}

// String returns the source expression.
func (p *Pattern) String() string {
	return p.expr
}

// SubexpNames returns the capture group names; names[0] is always empty.
func (p *Pattern) SubexpNames() []string {
	return p.names
}

// SubexpIndex returns the index of the first group with the given name,
// or -1 if there is none.
func (p *Pattern) SubexpIndex(name string) int {
	if name == "" {
		return -1
	}
	for i, n := range p.names {
		if n == name {
			return i
		}
	}
	return -1
}

// find runs the anchored or unanchored engine over b.
func (p *Pattern) find(b []byte, anchored bool) []int {
	if !anchored {
		return p.search.FindSubmatchIndex(b)
	}
	if p.anchored != nil {
		return p.anchored.FindSubmatchIndex(b)
	}
	loc := p.search.FindSubmatchIndex(b)
	if len(loc) < 2 || loc[0] != 0 {
		return nil
	}
	return loc
}
