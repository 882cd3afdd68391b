package postfix

import "strings"

// Normalize returns the logical lines of contents, one per line, with
// continuation lines folded into the line they continue and their leading
// whitespace collapsed to a single space. Comments and blank lines are dropped.
// When key is not empty only the declarations of key are returned.
//
// This is what "postconf -n" would show for a file, without Postfix having to
// be installed.
func Normalize(contents, key string) string {
	var result []string
	for _, line := range logicalLines(contents) {
		if key != "" && !isOpeningLine(line, key) {
			continue
		}
		result = append(result, line)
	}

	return strings.Join(result, "\n")
}

func logicalLines(contents string) []string {
	var lines []string
	for _, line := range splitLines(contents) {
		if isBlank(line) || isComment(line) {
			continue
		}

		if isContinuation(line) {
			// a continuation before any declaration has nothing to continue
			if len(lines) == 0 {
				continue
			}
			lines[len(lines)-1] += " " + strings.TrimSpace(line)
			continue
		}

		lines = append(lines, strings.TrimRight(line, " \t\r"))
	}

	return lines
}

// containsToken reports whether token occurs in text as a whole list element:
// both ends must touch the text boundary, whitespace, a comma or "=".
func containsToken(text, token string) bool {
	if token == "" {
		return false
	}

	for offset := 0; offset <= len(text)-len(token); {
		i := strings.Index(text[offset:], token)
		if i < 0 {
			return false
		}
		start := offset + i
		end := start + len(token)

		if (start == 0 || isListBoundary(text[start-1])) && (end == len(text) || isListBoundary(text[end])) {
			return true
		}
		offset = start + 1
	}

	return false
}

func isListBoundary(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', ',', '=':
		return true
	}
	return false
}
