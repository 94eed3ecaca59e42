package catalog

import "strings"

// Normalize canonicalizes a table, column or database identifier: surrounding
// space and trailing semicolons are removed and the result is lower-cased.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(name), ";"))
}
