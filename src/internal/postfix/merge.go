package postfix

import (
	"fmt"
	"strings"

	"github.com/maksimkurb/valvula-mgr/src/internal/errors"
)

// Order places the injected token before or after the existing restrictions.
type Order string

const (
	OrderFirst Order = "first"
	OrderLast  Order = "last"
)

// ParseOrder accepts "first" or "last".
func ParseOrder(s string) (Order, error) {
	switch Order(s) {
	case OrderFirst, OrderLast:
		return Order(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidOrder, fmt.Sprintf("incorrect order %q, expected first or last", s))
}

// Outcome tells what a merge did to the file.
type Outcome int

const (
	// OutcomeUpdated means an existing declaration was rewritten.
	OutcomeUpdated Outcome = iota
	// OutcomeCreated means a new declaration was appended.
	OutcomeCreated
	// OutcomeAlreadyPresent means the token was already there and nothing changed.
	OutcomeAlreadyPresent
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUpdated:
		return "updated"
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyPresent:
		return "already_present"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Sentinels for errors.Is; returned errors carry the same code with a more specific message.
var (
	// ErrKeyNotFound is returned by Apply when the declaration has to be created first.
	ErrKeyNotFound = errors.New(errors.ErrCodeKeyNotFound, "declaration not found")
	// ErrUnsupportedLayout is returned when appending to a pure continuation block.
	ErrUnsupportedLayout = errors.New(errors.ErrCodeUnsupportedLayout, "unsupported declaration layout")
)

// baseline restrictions written together with a brand new declaration so that
// adding only a policy check does not change what Postfix permits by default.
var baselines = map[string][]string{
	"smtpd_recipient_restrictions": {"permit_mynetworks", "reject_unauth_destination"},
	"smtpd_relay_restrictions":     {"permit_mynetworks", "permit_sasl_authenticated", "defer_unauth_destination"},
}

// Apply adds token to the existing declaration of key.
//
// If the token is already part of the declaration the input is returned as is
// with OutcomeAlreadyPresent. A missing declaration yields ErrKeyNotFound and
// appending to a declaration that only has continuation lines yields
// ErrUnsupportedLayout; in both cases contents is returned unchanged.
func Apply(key, token string, order Order, contents string) (string, Outcome, error) {
	if containsToken(Normalize(contents, key), token) {
		return contents, OutcomeAlreadyPresent, nil
	}

	class := Classify(key, contents)
	if class == NotFound {
		return contents, OutcomeUpdated, errors.New(errors.ErrCodeKeyNotFound,
			fmt.Sprintf("%s must be declared before it can be augmented", key))
	}

	lines := splitLines(contents)
	idx := openingLineIndex(lines, key)
	cr := lineEndingCR(lines[idx])

	switch class {
	case EmptyDecl:
		lines[idx] = declaration(key, token) + cr

	case SingleLineDecl, MultiLineDecl2:
		lines[idx] = declaration(key, joinValue(inlineValue(lines[idx]), token, order)) + cr

	case MultiLineDecl:
		if order == OrderLast {
			return contents, OutcomeUpdated, errors.New(errors.ErrCodeUnsupportedLayout,
				fmt.Sprintf("cannot append to %s: the end of its continuation block is unknown, use order first", key))
		}

		inserted := make([]string, 0, len(lines)+1)
		inserted = append(inserted, lines[:idx+1]...)
		inserted = append(inserted, "  "+token+","+cr)
		inserted = append(inserted, lines[idx+1:]...)
		lines = inserted
	}

	return strings.Join(lines, "\n"), OutcomeUpdated, nil
}

// Create appends a new declaration of key at the end of contents, separated by
// a blank line. Well known restriction lists get their baseline restrictions
// around the token.
func Create(key, token string, order Order, contents string) string {
	values := []string{token}
	if base, ok := baselines[key]; ok {
		if order == OrderFirst {
			values = append(values, base...)
		} else {
			values = append(append([]string{}, base...), token)
		}
	}

	eol := "\n"
	if strings.Contains(contents, "\r\n") {
		eol = "\r\n"
	}
	return contents + eol + eol + declaration(key, strings.Join(values, ", ")) + eol
}

// Connect adds token to key, creating the declaration when it is absent.
func Connect(key, token string, order Order, contents string) (string, Outcome, error) {
	if Classify(key, contents) == NotFound {
		return Create(key, token, order, contents), OutcomeCreated, nil
	}
	return Apply(key, token, order, contents)
}

// openingLineIndex mirrors the scanner: the first line starting with key.
func openingLineIndex(lines []string, key string) int {
	for i, line := range lines {
		if isOpeningLine(line, key) {
			return i
		}
	}
	return -1
}

// lineEndingCR returns the "\r" a CRLF file leaves on a line split at "\n".
func lineEndingCR(line string) string {
	if strings.HasSuffix(line, "\r") {
		return "\r"
	}
	return ""
}

func declaration(key, value string) string {
	return key + " = " + value
}

func inlineValue(line string) string {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// joinValue puts token before or after existing. A trailing comma on existing
// links it to continuation lines and stays at the end.
func joinValue(existing, token string, order Order) string {
	if order == OrderFirst {
		return token + ", " + existing
	}

	if strings.HasSuffix(existing, ",") {
		return strings.TrimSpace(strings.TrimSuffix(existing, ",")) + ", " + token + ","
	}
	return existing + ", " + token
}
