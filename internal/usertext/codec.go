package usertext

import (
	"regexp"
	"strings"
)

// lineRE matches one exported pair: "key","value" with quotes doubled.
var lineRE = regexp.MustCompile(`^"((?:[^"]|"")*)","((?:[^"]|"")*)"$`)

// FormatLine renders one pair in export form.
func FormatLine(key, value string) string {
	return quote(key) + "," + quote(value)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ParseLine parses one export line. Surrounding whitespace is ignored.
func ParseLine(line string) (key, value string, ok bool) {
	m := lineRE.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", "", false
	}
	return unquote(m[1]), unquote(m[2]), true
}

func unquote(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// SplitLines splits text into lines, accepting both \n and \r\n endings.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// Export renders every pair, in enumeration order, one per line. There is
// no header and no trailing newline.
func (s *Store) Export() string {
	var b strings.Builder
	first := true
	s.backing.Range(func(key, value string) bool {
		if !first {
			b.WriteByte('\n')
		}
		first = false
		b.WriteString(FormatLine(key, value))
		return true
	})
	return b.String()
}

// Import upserts every well-formed line of text. Blank lines are skipped.
// Lines that do not parse, or whose upsert fails, are returned verbatim in
// failed; processing always continues to the end.
func (s *Store) Import(text string) (imported int, failed []string) {
	failed = []string{}
	for _, line := range SplitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := ParseLine(line)
		if !ok {
			failed = append(failed, line)
			continue
		}
		if err := s.Set(key, value); err != nil {
			failed = append(failed, line)
			continue
		}
		imported++
	}
	return imported, failed
}
