// Package rewrite pulls SQL out of model responses and applies best-effort
// textual improvements: a DISTINCT guard for joins and case-insensitive
// string matching. It works on unparsed text, so every transformation is a
// heuristic that must tolerate malformed input; a parser-based rewriter
// could replace this package without changing its contract.
package rewrite

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/askdb-io/askdb/internal/logging"
)

// Transformation descriptions surfaced to the user when a rewrite fires.
const (
	DescDistinct     = "Added DISTINCT to prevent duplicate rows from joins"
	DescCaseMatch    = "Modified for case-insensitive string matching"
	DescPartialMatch = "Modified for case-insensitive and partial string matching"
)

var (
	fencedSQL = regexp.MustCompile("(?s)```sql\\s+(.*?)\\s+```")

	joinPattern     = regexp.MustCompile(`(?i)\bjoin\b`)
	groupByPattern  = regexp.MustCompile(`(?i)\bgroup\s+by\b`)
	distinctPattern = regexp.MustCompile(`(?i)\bdistinct\b`)
	selectPattern   = regexp.MustCompile(`(?i)SELECT\s+`)
	likePattern     = regexp.MustCompile(`(?i)\bLIKE\b`)

	// column = 'literal' or column = "literal"; columns may be qualified
	equalityPattern = regexp.MustCompile(`(\w+(?:\.\w+)*)\s*=\s*('[^']*'|"[^"]*")`)
)

// Result records one rewrite pass. Rewritten only ever widens the original
// statement, adding DISTINCT or loosening string comparisons, never
// dropping predicates.
type Result struct {
	Original  string
	Rewritten string
	Applied   []string
}

// Changed reports whether any transformation fired
func (r Result) Changed() bool {
	return len(r.Applied) > 0
}

// Extract returns the contents of the first ```sql fenced block in a model
// response. A response without one is a valid outcome, not an error: the
// model may have answered in prose.
func Extract(text string) (string, bool) {
	match := fencedSQL.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}

	sql := strings.TrimSpace(match[1])
	if sql == "" {
		return "", false
	}

	return sql, true
}

// Rewrite applies the duplicate guard and then string-match normalization.
// Any panic from the text surgery is swallowed and the original statement
// returned untouched with nothing applied.
func Rewrite(sql string) (result Result) {
	result = Result{Original: sql, Rewritten: sql}

	defer func() {
		if r := recover(); r != nil {
			logging.WithField("recovered", r).Warn("SQL rewrite failed, keeping original statement")

			result = Result{Original: sql, Rewritten: sql}
		}
	}()

	rewritten, applied := guardDuplicates(sql)
	if applied {
		result.Applied = append(result.Applied, DescDistinct)
	}

	rewritten, desc := improveStringMatching(rewritten)
	if desc != "" {
		result.Applied = append(result.Applied, desc)
	}

	result.Rewritten = rewritten

	return result
}

// guardDuplicates inserts DISTINCT after the first SELECT when the
// statement joins tables without either GROUP BY or DISTINCT. Joins across
// one-to-many relations multiply rows silently; this is a correctness
// guard, not a style choice.
func guardDuplicates(sql string) (string, bool) {
	if !joinPattern.MatchString(sql) {
		return sql, false
	}

	if groupByPattern.MatchString(sql) || distinctPattern.MatchString(sql) {
		return sql, false
	}

	loc := selectPattern.FindStringIndex(sql)
	if loc == nil {
		return sql, false
	}

	return sql[:loc[1]] + "DISTINCT " + sql[loc[1]:], true
}

// improveStringMatching rewrites column = 'literal' predicates to compare
// case-insensitively. When the statement has no LIKE of its own, the
// comparison is further relaxed to a wildcarded partial match, since exact
// equality against free-text user phrasing rarely hits.
func improveStringMatching(sql string) (string, string) {
	if !equalityPattern.MatchString(sql) {
		return sql, ""
	}

	relax := !likePattern.MatchString(sql)

	modified := equalityPattern.ReplaceAllStringFunc(sql, func(match string) string {
		parts := equalityPattern.FindStringSubmatch(match)
		column, quoted := parts[1], parts[2]

		if relax {
			quote := string(quoted[0])
			literal := quoted[1 : len(quoted)-1]

			return fmt.Sprintf("LOWER(%s) LIKE LOWER(%s%%%s%%%s)", column, quote, literal, quote)
		}

		return fmt.Sprintf("LOWER(%s) = LOWER(%s)", column, quoted)
	})

	if relax {
		return modified, DescPartialMatch
	}

	return modified, DescCaseMatch
}

// Splice substitutes sql into the first fenced block of a model response
// and appends one "Query improved" note per applied transformation after
// the closing fence. Text without a fenced block comes back unchanged.
func Splice(text, sql string, notes []string) string {
	loc := fencedSQL.FindStringSubmatchIndex(text)
	if loc == nil {
		return text
	}

	var b strings.Builder

	b.WriteString(text[:loc[2]])
	b.WriteString(sql)
	b.WriteString(text[loc[3]:loc[1]])

	for _, note := range notes {
		b.WriteString("\n\n> Query improved: ")
		b.WriteString(note)
		b.WriteString(".")
	}

	b.WriteString(text[loc[1]:])

	return b.String()
}
