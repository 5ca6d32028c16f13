package val

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is a parsed key format. Patterns use {field} syntax for field references:
//   - "PROFILE"           → constant string
//   - "{userID}"          → single field reference
//   - "USER#{id}"         → composite with field
//   - "{createdAt}#{id}"  → multiple field references
type Pattern struct {
	raw   string
	parts []part
}

type part struct {
	literal bool   // true if this is a literal string, false if field reference
	value   string // the literal value or the field name
}

// fieldRefRegex matches {fieldName} patterns (including empty braces for validation)
var fieldRefRegex = regexp.MustCompile(`\{([^}]*)\}`)

// Fmt parses a key pattern. Panics if the pattern is invalid, patterns are
// meant to be declared as package level values.
//
// Examples:
//
//	val.Fmt("USER#{id}")   // composite string
//	val.Fmt("PROFILE")     // constant
func Fmt(pattern string) Pattern {
	p, err := Parse(pattern)
	if err != nil {
		panic(fmt.Sprintf("val.Fmt: %v", err))
	}
	return p
}

// Parse parses a pattern string into a Pattern.
func Parse(raw string) (Pattern, error) {
	if raw == "" {
		return Pattern{}, fmt.Errorf("pattern cannot be empty")
	}

	p := Pattern{raw: raw}

	matches := fieldRefRegex.FindAllStringSubmatchIndex(raw, -1)
	if len(matches) == 0 {
		p.parts = []part{{literal: true, value: raw}}
		return p, nil
	}

	lastEnd := 0
	for _, match := range matches {
		start, end := match[0], match[1]
		fieldStart, fieldEnd := match[2], match[3]

		if start > lastEnd {
			p.parts = append(p.parts, part{literal: true, value: raw[lastEnd:start]})
		}

		field := raw[fieldStart:fieldEnd]
		if field == "" {
			return Pattern{}, fmt.Errorf("empty field reference at position %d", start)
		}
		if strings.ContainsAny(field, "{ ") {
			return Pattern{}, fmt.Errorf("invalid field reference %q", field)
		}
		p.parts = append(p.parts, part{literal: false, value: field})

		lastEnd = end
	}

	if lastEnd < len(raw) {
		p.parts = append(p.parts, part{literal: true, value: raw[lastEnd:]})
	}

	return p, nil
}

// Render substitutes every field reference with its value from fields.
// A field missing from fields is an error, empty values are allowed.
func (p Pattern) Render(fields map[string]string) (string, error) {
	if p.IsZero() {
		return "", fmt.Errorf("render of zero pattern")
	}
	var b strings.Builder
	for _, pt := range p.parts {
		if pt.literal {
			b.WriteString(pt.value)
			continue
		}
		v, ok := fields[pt.value]
		if !ok {
			return "", fmt.Errorf("pattern %q: field %q not provided", p.raw, pt.value)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}

// String returns the raw pattern string.
func (p Pattern) String() string {
	return p.raw
}

// IsConstant returns true if this pattern has no field references.
func (p Pattern) IsConstant() bool {
	return len(p.parts) == 1 && p.parts[0].literal
}

// IsZero returns true if this is a zero-value (unparsed) Pattern.
func (p Pattern) IsZero() bool {
	return p.raw == ""
}

// Match is the inverse of Render. It extracts the field values from s, or
// reports false when s does not have the pattern's shape. A field followed by
// a literal ends at the first occurrence of that literal.
func (p Pattern) Match(s string) (map[string]string, bool) {
	if p.IsZero() {
		return nil, false
	}
	fields := make(map[string]string, len(p.parts))
	rest := s
	for i, pt := range p.parts {
		if pt.literal {
			if !strings.HasPrefix(rest, pt.value) {
				return nil, false
			}
			rest = rest[len(pt.value):]
			continue
		}
		if i == len(p.parts)-1 {
			fields[pt.value] = rest
			rest = ""
			continue
		}
		next := p.parts[i+1]
		if !next.literal {
			// adjacent references are ambiguous
			return nil, false
		}
		idx := strings.Index(rest, next.value)
		if idx < 0 {
			return nil, false
		}
		fields[pt.value] = rest[:idx]
		rest = rest[idx:]
	}
	if rest != "" {
		return nil, false
	}
	return fields, true
}
