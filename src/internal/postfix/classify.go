package postfix

import "strings"

// Classification describes how a declaration is laid out in main.cf.
type Classification string

const (
	// NotFound means no line starts with the key.
	NotFound Classification = "not_found"
	// EmptyDecl means the key is declared with no value ("key =").
	EmptyDecl Classification = "empty_decl"
	// SingleLineDecl means the whole value is on the opening line.
	SingleLineDecl Classification = "single_line_decl"
	// MultiLineDecl means the opening line has no value and the list lives on continuation lines.
	MultiLineDecl Classification = "multi_line_decl"
	// MultiLineDecl2 means the opening line carries a value and continuation lines follow.
	MultiLineDecl2 Classification = "multi_line_decl_2"
)

func (c Classification) String() string {
	return string(c)
}

type scanState int

const (
	stateSeeking scanState = iota
	stateAtOpenLine
	stateInContinuation
	stateDone
)

// scanner is the line state machine behind Classify.
type scanner struct {
	key          string
	state        scanState
	openHasValue bool
}

// Classify reports the layout of the declaration of key in contents.
// Only the first declaration of key is considered. An empty key is never found.
func Classify(key, contents string) Classification {
	if key == "" {
		return NotFound
	}

	s := &scanner{key: key}
	for _, line := range splitLines(contents) {
		s.step(line)
		if s.state == stateInContinuation || s.state == stateDone {
			break
		}
	}

	return s.result()
}

func (s *scanner) step(line string) {
	switch s.state {
	case stateSeeking:
		if isOpeningLine(line, s.key) {
			s.openHasValue = hasInlineValue(line)
			s.state = stateAtOpenLine
		}

	case stateAtOpenLine:
		switch {
		case isBlank(line), strings.HasPrefix(line, "#"):
			return
		case isContinuation(line):
			// only a bare marker is skipped, indented text after "#" is a continuation
			if strings.TrimSpace(line) == "#" {
				return
			}
			s.state = stateInContinuation
		default:
			s.state = stateDone
		}
	}
}

func (s *scanner) result() Classification {
	switch s.state {
	case stateSeeking:
		return NotFound
	case stateInContinuation:
		if s.openHasValue {
			return MultiLineDecl2
		}
		return MultiLineDecl
	default:
		if s.openHasValue {
			return SingleLineDecl
		}
		return EmptyDecl
	}
}

func splitLines(contents string) []string {
	return strings.Split(contents, "\n")
}

// isOpeningLine reports whether line opens the declaration of key. Containment
// is a cheap pre-filter; the line must start with key.
func isOpeningLine(line, key string) bool {
	if key == "" || !strings.Contains(line, key) {
		return false
	}
	return strings.HasPrefix(line, key)
}

// hasInlineValue reports whether the opening line has a non-empty value after "=".
func hasInlineValue(line string) bool {
	nonEmpty := 0
	for _, part := range strings.Split(line, "=") {
		if strings.TrimSpace(part) != "" {
			nonEmpty++
		}
	}
	return nonEmpty > 1
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// isComment matches both column-0 comments and indented ones. Normalize drops
// both, the classifier only skips column-0 ones and bare markers.
func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

func isContinuation(line string) bool {
	return line != "" && (line[0] == ' ' || line[0] == '\t')
}
