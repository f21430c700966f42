// Package sqlutil quotes MySQL identifiers taken from configuration.
package sqlutil

import (
	"regexp"
	"strings"
)

// QuoteIdentifier quotes a MySQL identifier with backticks, doubling any
// backtick inside it.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

var validIdentifierRegex = regexp.MustCompile("^[a-zA-Z0-9_]+$")

// IsValidIdentifier reports whether name consists only of letters, digits
// and underscores.
func IsValidIdentifier(name string) bool {
	return validIdentifierRegex.MatchString(name)
}

// QuoteTableName validates and quotes a table name that may be qualified
// with a schema, as in "crm.entity_metadata".
func QuoteTableName(name string) (string, error) {
	parts := strings.Split(name, ".")
	if len(parts) > 2 {
		return "", &InvalidIdentifierError{Name: name}
	}
	quoted := make([]string, 0, len(parts))
	for _, part := range parts {
		if !IsValidIdentifier(part) {
			return "", &InvalidIdentifierError{Name: name}
		}
		quoted = append(quoted, QuoteIdentifier(part))
	}
	return strings.Join(quoted, "."), nil
}

// InvalidIdentifierError is returned for a name that cannot be used as an
// identifier.
type InvalidIdentifierError struct {
	Name string
}

func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier: " + e.Name + " (must contain only alphanumeric characters and underscores)"
}
