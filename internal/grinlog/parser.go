package grinlog

import (
	"strconv"
	"strings"

	"github.com/grinscan/grinscan/internal/model"
)

// Framing of the received-tx log line. These are properties of the Grin
// node's log format, not settings.
const (
	// Marker identifies a received-tx line.
	Marker = "WARN grin_servers::common::hooks - Received tx"

	// ItemSeparator separates list items, and the log metadata from the counts.
	ItemSeparator = ", "

	// CommitmentPrefix opens a wrapped commitment.
	CommitmentPrefix = "Commitment("

	// CommitmentSuffix closes a wrapped commitment.
	CommitmentSuffix = ")"

	// WrappedCommitmentLen is the exact length of one wrapped commitment.
	WrappedCommitmentLen = 78
)

// sectionNames in the order they appear on a line.
var sectionNames = [3]string{"Inputs", "Outputs", "Kernels"}

// IsReceivedTx reports whether line carries the received-tx marker.
func IsReceivedTx(line string) bool {
	return strings.Contains(line, Marker)
}

// ParseLine parses one log line. It returns nil and no error when the line
// is not a received-tx line. A received-tx line that does not have the
// expected structure yields a *ParseError.
func ParseLine(line string) (*model.Record, error) {
	at := strings.Index(line, Marker)
	if at < 0 {
		return nil, nil
	}
	rest := line[at+len(Marker):]

	sep := strings.Index(rest, ItemSeparator)
	if sep < 0 {
		return nil, &ParseError{Err: ErrMissingSeparator}
	}
	rest = rest[sep+len(ItemSeparator):]

	space := strings.IndexByte(rest, ' ')
	if space < 0 {
		return nil, formatError(ErrInvalidCounts, "no space after %q", abbreviate(rest))
	}
	counts, err := parseCounts(rest[:space])
	if err != nil {
		return nil, err
	}

	for _, name := range sectionNames {
		if !strings.Contains(rest, name) {
			return nil, formatError(ErrMissingSection, "%s", name)
		}
	}

	var sections [3][]model.Commitment
	for i, name := range sectionNames {
		body, next, err := nextSection(rest, name)
		if err != nil {
			return nil, err
		}
		items, err := parseCommitments(body)
		if err != nil {
			return nil, err
		}
		if len(items) != counts[i] {
			return nil, formatError(ErrCountMismatch, "%s: declared %d, found %d", name, counts[i], len(items))
		}
		sections[i] = items
		rest = next
	}

	return &model.Record{
		Inputs:  sections[0],
		Outputs: sections[1],
		Kernels: sections[2],
	}, nil
}

// parseCounts parses the "<inputs>/<outputs>/<kernels>" token.
func parseCounts(token string) ([3]int, error) {
	var counts [3]int
	parts := strings.Split(token, "/")
	if len(parts) != len(counts) {
		return counts, formatError(ErrInvalidCounts, "%q", token)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return counts, formatError(ErrInvalidCounts, "%q", token)
		}
		counts[i] = n
	}
	return counts, nil
}

// nextSection returns the text between the first '[' and the first ']' of s,
// and the text after that ']'.
func nextSection(s, name string) (body, rest string, err error) {
	open := strings.IndexByte(s, '[')
	end := strings.IndexByte(s, ']')
	if open < 0 || end < 0 || end < open {
		return "", "", formatError(ErrMissingBracket, "%s", name)
	}
	return s[open+1 : end], s[end+1:], nil
}

// parseCommitments splits a list body and unwraps each commitment.
// Every section holds at least one item, so an empty body is malformed.
func parseCommitments(body string) ([]model.Commitment, error) {
	items := strings.Split(body, ItemSeparator)
	out := make([]model.Commitment, 0, len(items))
	for _, item := range items {
		if len(item) != WrappedCommitmentLen ||
			!strings.HasPrefix(item, CommitmentPrefix) ||
			!strings.HasSuffix(item, CommitmentSuffix) {
			return nil, formatError(ErrMalformedCommitment, "%q (%d chars)", abbreviate(item), len(item))
		}
		out = append(out, model.Commitment(item[len(CommitmentPrefix):len(item)-len(CommitmentSuffix)]))
	}
	return out, nil
}

// abbreviate keeps error messages short when a line is badly broken.
func abbreviate(s string) string {
	const maxLen = 96
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
