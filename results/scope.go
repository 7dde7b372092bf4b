package results

// Scope of a landing url after navigation
type Scope int8

const (
	// InScope is the results site
	InScope Scope = iota + 1
	// OutOfScope is some other host we were redirected to
	OutOfScope
	// ExcludedFromScope are non http(s) pages such as chrome-error:// or about:blank
	ExcludedFromScope
)

// ScopeMap for log output
var ScopeMap = map[Scope]string{
	InScope:           "in",
	OutOfScope:        "out",
	ExcludedFromScope: "excluded",
}

func (s Scope) String() string {
	if v, ok := ScopeMap[s]; ok {
		return v
	}
	return "unknown"
}
