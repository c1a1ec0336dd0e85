package itemcodec

import "strings"

var escaper = strings.NewReplacer(`\`, `\\`, `;`, `\;`, `|`, `\|`)

func escape(s string) string {
	return escaper.Replace(s)
}

// unescape reverses escape. A backslash before any other character is
// kept as written.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			switch next := s[i+1]; next {
			case '\\', ';', '|':
				b.WriteByte(next)
				i++
				continue
			}
		}
		b.WriteByte(c)
	}
	return b.String()
}

// splitUnescaped splits s around every occurrence of sep that is not
// part of an escape sequence. Escapes are left in place.
func splitUnescaped(s, sep string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if strings.HasPrefix(s[i:], sep) {
			parts = append(parts, s[start:i])
			i += len(sep) - 1
			start = i + 1
		}
	}
	return append(parts, s[start:])
}
