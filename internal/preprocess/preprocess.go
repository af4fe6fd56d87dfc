// Package preprocess cleans raw user questions before anything downstream
// sees them. Normalization is total: any input string maps to some output
// string, with no error path.
package preprocess

import (
	"regexp"
	"strings"
)

var (
	lineComments  = regexp.MustCompile(`--[^\n]*`)
	blockComments = regexp.MustCompile(`(?s)/\*.*?\*/`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// Normalize strips SQL-style comments from a question, collapses every run
// of whitespace to a single space, and trims the ends. Comments go first:
// removing them can leave whitespace runs behind that the collapse then
// folds away.
//
// The result is a fixed point, so normalizing twice changes nothing.
func Normalize(question string) string {
	cleaned := lineComments.ReplaceAllString(question, "")
	cleaned = blockComments.ReplaceAllString(cleaned, "")
	cleaned = whitespace.ReplaceAllString(cleaned, " ")

	return strings.TrimSpace(cleaned)
}
