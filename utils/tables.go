// utils/tables.go
package utils

import (
	"fmt"
	"regexp"
	"strings"
)

var identifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// NormalizeTableName trims user input and checks it is a bare SQL identifier.
// The name is returned upper-cased, matching the import tables.
func NormalizeTableName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if !identifierRegex.MatchString(trimmed) {
		return "", fmt.Errorf("invalid table name %q", name)
	}
	return strings.ToUpper(trimmed), nil
}
