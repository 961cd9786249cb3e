package ios

import "strings"

// defaultIndent is what Xcode writes when a file gives no hint.
const defaultIndent = "\t"

// DetectIndent returns the indentation unit used by text: the most common
// positive step in leading whitespace between consecutive non-blank lines.
// Ties go to the step seen first.
func DetectIndent(text string) string {
	counts := make(map[string]int)
	var order []string

	prevKind, prevWidth := byte(0), 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		kind, width := leadingWhitespace(line)
		if width > prevWidth && (kind == prevKind || prevWidth == 0) {
			unit := strings.Repeat(string(kind), width-prevWidth)
			if counts[unit] == 0 {
				order = append(order, unit)
			}
			counts[unit]++
		}
		prevKind, prevWidth = kind, width
	}

	best := ""
	for _, unit := range order {
		if counts[unit] > counts[best] {
			best = unit
		}
	}
	if best == "" {
		return defaultIndent
	}
	return best
}

// leadingWhitespace returns the indentation character of line (tab or space)
// and how many of them it starts with.
func leadingWhitespace(line string) (byte, int) {
	if line == "" || (line[0] != '\t' && line[0] != ' ') {
		return 0, 0
	}
	kind := line[0]
	width := 0
	for width < len(line) && line[width] == kind {
		width++
	}
	return kind, width
}
