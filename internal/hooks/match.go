// ABOUTME: Event matcher: wildcard, regexp, or exact-string fallback per pattern
// ABOUTME: Compiled patterns are cached; an invalid regexp never raises

package hooks

import (
	"regexp"
	"sync"
)

const wildcard = "*"

// matcherFields names the payload field each event is matched on.
var matcherFields = map[EventName]string{
	ToolCall:   "toolName",
	ToolResult: "toolName",
}

// MatcherField returns the payload field that patterns for this event are
// tested against. Events without one only honor wildcard matchers.
func MatcherField(e EventName) (string, bool) {
	f, ok := matcherFields[e]
	return f, ok
}

// matchValue extracts the matchable value of an event; nil means absent.
func matchValue(ev Event) *string {
	field, ok := MatcherField(ev.Name)
	if !ok {
		return nil
	}
	raw, ok := ev.Payload[field]
	if !ok {
		return nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil
	}
	return &s
}

// compiled caches regexp compilation per pattern; a nil entry records a
// pattern that does not compile.
var compiled sync.Map // string -> *regexp.Regexp

func compilePattern(pattern string) *regexp.Regexp {
	if v, ok := compiled.Load(pattern); ok {
		return v.(*regexp.Regexp)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		re = nil
	}
	compiled.Store(pattern, re)
	return re
}

// MatchPattern reports whether pattern selects value. Empty and "*" match
// anything, including an absent value. Otherwise an absent value never
// matches, a valid regexp is searched in value, and an invalid one falls
// back to exact string equality.
func MatchPattern(pattern string, value *string) bool {
	if pattern == "" || pattern == wildcard {
		return true
	}
	if value == nil {
		return false
	}
	if re := compilePattern(pattern); re != nil {
		return re.MatchString(*value)
	}
	return *value == pattern
}

// SelectMatchers returns, in configuration order, the matchers whose pattern
// selects value.
func SelectMatchers(matchers []Matcher, value *string) []Matcher {
	var out []Matcher
	for _, m := range matchers {
		if MatchPattern(m.Pattern, value) {
			out = append(out, m)
		}
	}
	return out
}
