package ios

import (
	"errors"
	"fmt"
	"strings"
)

// entry locates one `key = value;` pair of an OpenStep dictionary inside the
// raw project text. All offsets index into the scanned source.
type entry struct {
	key        string
	keyStart   int
	valueStart int
	valueEnd   int
	end        int // offset just past the terminating ';'
}

// dictionary is the body of a `{ ... }` value; open and close point at the braces.
type dictionary struct {
	open    int
	close   int
	entries []entry
}

func (d dictionary) find(key string) (entry, bool) {
	for _, e := range d.entries {
		if e.key == key {
			return e, true
		}
	}
	return entry{}, false
}

var errUnexpectedEOF = errors.New("unexpected end of project document")

// scanDocument reads the root dictionary of a project document.
func scanDocument(src []byte) (dictionary, error) {
	start := skipTrivia(src, 0)
	if start >= len(src) || src[start] != '{' {
		return dictionary{}, fmt.Errorf("expected '{' at offset %d", start)
	}
	return scanDictionary(src, start)
}

// scanDictionary reads the entries of the dictionary whose '{' is at open.
func scanDictionary(src []byte, open int) (dictionary, error) {
	dict := dictionary{open: open}
	i := open + 1
	for {
		i = skipTrivia(src, i)
		if i >= len(src) {
			return dict, errUnexpectedEOF
		}
		if src[i] == '}' {
			dict.close = i
			return dict, nil
		}

		var e entry
		var err error
		e.keyStart = i
		e.key, i, err = scanString(src, i)
		if err != nil {
			return dict, err
		}

		i = skipTrivia(src, i)
		if i >= len(src) || src[i] != '=' {
			return dict, fmt.Errorf("expected '=' after key %q at offset %d", e.key, i)
		}

		e.valueStart = skipTrivia(src, i+1)
		e.valueEnd, err = scanValue(src, e.valueStart)
		if err != nil {
			return dict, err
		}

		i = skipTrivia(src, e.valueEnd)
		if i >= len(src) || src[i] != ';' {
			return dict, fmt.Errorf("expected ';' after value of %q at offset %d", e.key, i)
		}
		e.end = i + 1
		i = e.end

		dict.entries = append(dict.entries, e)
	}
}

// scanValue returns the offset just past the value starting at i.
func scanValue(src []byte, i int) (int, error) {
	if i >= len(src) {
		return i, errUnexpectedEOF
	}
	switch src[i] {
	case '{', '(':
		return scanBalanced(src, i)
	default:
		_, end, err := scanString(src, i)
		return end, err
	}
}

// scanBalanced skips a nested dictionary or array, honouring strings and comments.
func scanBalanced(src []byte, i int) (int, error) {
	depth := 0
	for i < len(src) {
		switch c := src[i]; {
		case c == '"':
			_, end, err := scanString(src, i)
			if err != nil {
				return end, err
			}
			i = end
			continue
		case c == '/' && i+1 < len(src) && (src[i+1] == '*' || src[i+1] == '/'):
			i = skipTrivia(src, i)
			continue
		case isUnquotedChar(c):
			_, end, _ := scanString(src, i)
			i = end
			continue
		case c == '{' || c == '(':
			depth++
		case c == '}' || c == ')':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
		i++
	}
	return i, errUnexpectedEOF
}

// scanString reads a quoted or unquoted OpenStep string and returns its
// unquoted text plus the offset just past it.
func scanString(src []byte, i int) (string, int, error) {
	if i >= len(src) {
		return "", i, errUnexpectedEOF
	}

	if src[i] == '"' {
		var builder strings.Builder
		for j := i + 1; j < len(src); j++ {
			switch src[j] {
			case '\\':
				if j+1 < len(src) {
					j++
					builder.WriteByte(src[j])
				}
			case '"':
				return builder.String(), j + 1, nil
			default:
				builder.WriteByte(src[j])
			}
		}
		return "", len(src), errUnexpectedEOF
	}

	j := i
	for j < len(src) && isUnquotedChar(src[j]) {
		j++
	}
	if j == i {
		return "", i, fmt.Errorf("unexpected character %q at offset %d", src[i], i)
	}
	return string(src[i:j]), j, nil
}

func isUnquotedChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	default:
		return strings.IndexByte("_$+/:.-", c) >= 0
	}
}

// skipTrivia skips whitespace, /* block */ and // line comments.
func skipTrivia(src []byte, i int) int {
	for i < len(src) {
		switch {
		case src[i] == ' ' || src[i] == '\t' || src[i] == '\n' || src[i] == '\r':
			i++
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '*':
			end := strings.Index(string(src[i+2:]), "*/")
			if end < 0 {
				return len(src)
			}
			i += end + 4 //nolint:mnd // "/*" + "*/"
		case src[i] == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		default:
			return i
		}
	}
	return i
}

// formatValue renders s as an OpenStep string, quoting it when needed.
func formatValue(s string) string {
	if s != "" {
		unquoted := true
		for i := range len(s) {
			if !isUnquotedChar(s[i]) {
				unquoted = false
				break
			}
		}
		if unquoted {
			return s
		}
	}
	replacer := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + replacer.Replace(s) + `"`
}

// lineStart returns the offset of the first byte of the line containing i.
func lineStart(src []byte, i int) int {
	for i > 0 && src[i-1] != '\n' {
		i--
	}
	return i
}

// indentAt returns the leading whitespace of the line containing i.
func indentAt(src []byte, i int) string {
	start := lineStart(src, i)
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return string(src[start:end])
}
