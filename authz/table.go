package authz

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Binding maps a URL pattern and optional method set to one policy.
//
// Pattern syntax: literal segments, "{name}" path variables matching exactly
// one segment, and a trailing "/**" matching any suffix (including none).
type Binding struct {
	Pattern string
	Methods []string
	Policy  Policy
}

// Table is the static route-to-policy binding table. It is built once at
// process start and read concurrently without synchronization thereafter.
//
// Matching precedence is structural, not declaration order: at each segment a
// literal beats a path variable, which beats the wildcard. Unmatched paths
// fall back to requiring any authenticated principal.
type Table struct {
	public   []compiledPattern
	bindings []compiledBinding
	fallback Policy
}

type segmentKind int

const (
	segLiteral segmentKind = iota + 1
	segVariable
	segWildcard
)

type segment struct {
	kind segmentKind
	text string // literal text or variable name
}

type compiledPattern struct {
	raw      string
	segments []segment
}

type compiledBinding struct {
	pattern compiledPattern
	methods map[string]struct{} // empty means all methods
	policy  Policy
}

// NewTable compiles the public allowlist and policy bindings. Bindings are
// ordered most specific first so that exactly one policy decides each request.
func NewTable(public []string, bindings []Binding) (*Table, error) {
	t := &Table{fallback: RequireAuthenticated()}

	for _, p := range public {
		cp, err := compilePattern(p)
		if err != nil {
			return nil, err
		}
		t.public = append(t.public, cp)
	}

	for _, b := range bindings {
		if b.Policy == nil {
			return nil, fmt.Errorf("binding %q has no policy", b.Pattern)
		}
		cp, err := compilePattern(b.Pattern)
		if err != nil {
			return nil, err
		}
		cb := compiledBinding{pattern: cp, policy: b.Policy}
		if len(b.Methods) > 0 {
			cb.methods = make(map[string]struct{}, len(b.Methods))
			for _, m := range b.Methods {
				cb.methods[strings.ToUpper(m)] = struct{}{}
			}
		}
		t.bindings = append(t.bindings, cb)
	}

	sort.SliceStable(t.bindings, func(i, j int) bool {
		return moreSpecific(t.bindings[i].pattern, t.bindings[j].pattern)
	})

	return t, nil
}

// IsPublic reports whether the request is on the unauthenticated allowlist.
// Pre-flight requests are always public.
func (t *Table) IsPublic(method, path string) bool {
	if method == http.MethodOptions {
		return true
	}
	for _, p := range t.public {
		if _, ok := matchPattern(p, path); ok {
			return true
		}
	}
	return false
}

// Match resolves the single policy deciding the given request and the path
// variables captured by its pattern. Paths without an explicit binding get
// the default-deny-anonymous fallback.
func (t *Table) Match(method, path string) (Policy, map[string]string) {
	for _, b := range t.bindings {
		if b.methods != nil {
			if _, ok := b.methods[method]; !ok {
				continue
			}
		}
		if vars, ok := matchPattern(b.pattern, path); ok {
			return b.policy, vars
		}
	}
	return t.fallback, nil
}

func compilePattern(raw string) (compiledPattern, error) {
	if raw == "" || !strings.HasPrefix(raw, "/") {
		return compiledPattern{}, fmt.Errorf("pattern %q must start with /", raw)
	}

	parts := splitPath(raw)
	cp := compiledPattern{raw: raw, segments: make([]segment, 0, len(parts))}
	for i, part := range parts {
		switch {
		case part == "**":
			if i != len(parts)-1 {
				return compiledPattern{}, fmt.Errorf("pattern %q: ** is only valid as the final segment", raw)
			}
			cp.segments = append(cp.segments, segment{kind: segWildcard})
		case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
			name := part[1 : len(part)-1]
			if name == "" {
				return compiledPattern{}, fmt.Errorf("pattern %q: empty variable name", raw)
			}
			cp.segments = append(cp.segments, segment{kind: segVariable, text: name})
		case part == "":
			return compiledPattern{}, fmt.Errorf("pattern %q: empty segment", raw)
		default:
			cp.segments = append(cp.segments, segment{kind: segLiteral, text: part})
		}
	}
	return cp, nil
}

func matchPattern(cp compiledPattern, path string) (map[string]string, bool) {
	parts := splitPath(path)

	var vars map[string]string
	for i, seg := range cp.segments {
		if seg.kind == segWildcard {
			// matches the remaining suffix, including none
			return vars, true
		}
		if i >= len(parts) {
			return nil, false
		}
		switch seg.kind {
		case segLiteral:
			if parts[i] != seg.text {
				return nil, false
			}
		case segVariable:
			if parts[i] == "" {
				return nil, false
			}
			if vars == nil {
				vars = make(map[string]string)
			}
			vars[seg.text] = parts[i]
		}
	}
	if len(parts) != len(cp.segments) {
		return nil, false
	}
	return vars, true
}

// moreSpecific orders patterns segment by segment: literal > variable >
// wildcard, with a longer pattern winning ties.
func moreSpecific(a, b compiledPattern) bool {
	n := len(a.segments)
	if len(b.segments) > n {
		n = len(b.segments)
	}
	for i := 0; i < n; i++ {
		ra, rb := segmentRank(a.segments, i), segmentRank(b.segments, i)
		if ra != rb {
			return ra > rb
		}
	}
	return false
}

func segmentRank(segs []segment, i int) int {
	if i >= len(segs) {
		return 0
	}
	switch segs[i].kind {
	case segLiteral:
		return 3
	case segVariable:
		return 2
	default:
		return 1
	}
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
