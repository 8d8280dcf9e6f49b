package validate

import (
	"strings"
	"unicode"

	dErrors "univote/pkg/domain-errors"
)

// EmailSuffix is the institution's email domain. Voter emails outside this
// domain are rejected.
const EmailSuffix = "@ashesi.edu.gh"

// Field pairs a payload key with whether the payload carried it, for
// required-key checks.
type Field struct {
	Name    string
	Present bool
}

// Text builds a Field for a string payload key, absent when empty.
func Text(name, value string) Field {
	return Field{Name: name, Present: value != ""}
}

// Missing returns one "X is required" message per absent field, in
// presentation order. An empty result means the payload carried every
// required key.
func Missing(fields ...Field) []string {
	var messages []string
	for _, f := range fields {
		if !f.Present {
			messages = append(messages, capitalize(f.Name)+" is required")
		}
	}
	return messages
}

// Alpha reports whether s is non-empty and consists solely of letters.
func Alpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// InstitutionEmail reports whether s is an institutional email address.
func InstitutionEmail(s string) bool {
	return strings.HasSuffix(s, EmailSuffix)
}

// ParseBool parses a case-insensitive "true"/"false" filter value. Anything
// else is a validation failure.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, dErrors.New(dErrors.CodeValidation, "Invalid value for is_registered attribute!")
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
