// Package insight appends advisory notes to finished answers based on what
// the answer says about its own result set. It is a pure text scan: existing
// content is never altered or removed, only suffixed.
package insight

import "strings"

const emptyResultsNote = `
### Data Quality Note
No results were found. This could be due to:
- The search criteria being too specific
- Possible data entry inconsistencies in the database
- The information may not be recorded in the system

Consider broadening your search terms or checking alternative spellings.
`

const manyResultsNote = `
### Data Interpretation Note
A large number of results were returned. Consider:
- Adding more specific filters to narrow your search
- Looking for patterns or trends in the data rather than individual records
- Exporting the results for further analysis if needed
`

// Annotate suffixes the matching advisory block. An answer reporting empty
// results wins over one reporting too many; text that signals neither comes
// back unchanged.
func Annotate(text string) string {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "no results") || strings.Contains(lower, "no rows"):
		return text + emptyResultsNote
	case strings.Contains(lower, "many results") || strings.Contains(lower, "large number"):
		return text + manyResultsNote
	}

	return text
}
