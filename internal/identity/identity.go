package identity

import "strconv"

// FirstYearGroup is the institution's founding year. No valid student
// identifier carries an earlier year group.
const FirstYearGroup = 2002

// StudentID is the decoded form of a student identifier: the first four
// digits identify the user, the last four are the year group.
type StudentID struct {
	UserID    string
	YearGroup string
}

// Year returns the year group as an integer.
func (s StudentID) Year() int {
	year, _ := strconv.Atoi(s.YearGroup)
	return year
}

// Parse decodes a student identifier. Valid iff the string is exactly eight
// decimal digits. Invalid input is a normal outcome, not an error: callers
// treat it as a validation result.
func Parse(raw string) (StudentID, bool) {
	if len(raw) != 8 || !numeric(raw) {
		return StudentID{}, false
	}
	return StudentID{UserID: raw[:4], YearGroup: raw[4:]}, true
}

// IsYearGroup reports whether value denotes a year-group cohort: exactly four
// digits naming a year no earlier than the founding year. Deregistration uses
// this to disambiguate cohort values from student identifiers.
func IsYearGroup(value string) bool {
	if len(value) != 4 || !numeric(value) {
		return false
	}
	year, err := strconv.Atoi(value)
	return err == nil && year >= FirstYearGroup
}

func numeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
