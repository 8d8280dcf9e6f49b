package models

import (
	"univote/internal/identity"
	"univote/internal/validate"
	dErrors "univote/pkg/domain-errors"
)

// Voter is a registered elector.
//
// Invariants:
//   - StudentID is eight decimal digits; the trailing four name a year group
//     no earlier than the founding year
//   - StudentID and Email are unique across the registry
//   - IsRegistered false means logically deleted; voters are never physically
//     removed
type Voter struct {
	StudentID    string `json:"student_id"`
	Firstname    string `json:"firstname"`
	Lastname     string `json:"lastname"`
	Email        string `json:"email"`
	IsRegistered bool   `json:"is_registered"`
}

// YearGroup derives the voter's cohort from the student identifier. Empty
// when the identifier is malformed.
func (v Voter) YearGroup() string {
	sid, ok := identity.Parse(v.StudentID)
	if !ok {
		return ""
	}
	return sid.YearGroup
}

// Validate checks required keys and field-level syntax. Missing keys are
// reported together, in presentation order; format failures one at a time,
// student identifier first.
func (v Voter) Validate() error {
	missing := validate.Missing(
		validate.Text("student_id", v.StudentID),
		validate.Text("firstname", v.Firstname),
		validate.Text("lastname", v.Lastname),
		validate.Text("email", v.Email),
	)
	if len(missing) > 0 {
		return dErrors.WithMissing(missing)
	}

	sid, ok := identity.Parse(v.StudentID)
	if !ok {
		return dErrors.New(dErrors.CodeValidation, "Student ID is not valid.")
	}
	if sid.Year() < identity.FirstYearGroup {
		return dErrors.New(dErrors.CodeValidation, "Student year group is invalid.")
	}
	if !validate.InstitutionEmail(v.Email) {
		return dErrors.New(dErrors.CodeValidation, "Email must be a valid Ashesi email address.")
	}
	if !validate.Alpha(v.Firstname) || !validate.Alpha(v.Lastname) {
		return dErrors.New(dErrors.CodeValidation, "Firstname or Lastname must be a string.")
	}
	return nil
}

// UniqueRecord exposes the voter to the uniqueness checker.
func (v Voter) UniqueRecord() validate.Record {
	return validate.Record{
		Key: v.StudentID,
		Fields: map[string]string{
			"student_id": v.StudentID,
			"email":      v.Email,
		},
	}
}
