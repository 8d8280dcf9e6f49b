package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMissing(t *testing.T) {
	t.Run("reports absent fields in order", func(t *testing.T) {
		messages := Missing(
			Text("student_id", ""),
			Text("firstname", "Ama"),
			Text("lastname", ""),
			Text("email", ""),
		)
		require.Equal(t, []string{
			"Student_id is required",
			"Lastname is required",
			"Email is required",
		}, messages)
	})

	t.Run("empty when all present", func(t *testing.T) {
		require.Empty(t, Missing(Text("student_id", "10022006")))
	})
}

func TestAlpha(t *testing.T) {
	require.True(t, Alpha("Kwame"))
	require.True(t, Alpha("Aké")) // accented letters are still letters
	require.False(t, Alpha("Kwame1"))
	require.False(t, Alpha("Kwame Mensah"))
	require.False(t, Alpha(""))
}

func TestInstitutionEmail(t *testing.T) {
	require.True(t, InstitutionEmail("ama.mensah@ashesi.edu.gh"))
	require.False(t, InstitutionEmail("ama.mensah@gmail.com"))
	require.False(t, InstitutionEmail(""))
}

func TestParseBool(t *testing.T) {
	for _, raw := range []string{"true", "True", "TRUE"} {
		got, err := ParseBool(raw)
		require.NoError(t, err)
		require.True(t, got)
	}
	got, err := ParseBool("False")
	require.NoError(t, err)
	require.False(t, got)

	_, err = ParseBool("yes")
	require.Error(t, err)
}

func TestConflicts(t *testing.T) {
	existing := []Record{
		{Key: "10022006", Fields: map[string]string{"student_id": "10022006", "email": "a@ashesi.edu.gh"}},
		{Key: "10032006", Fields: map[string]string{"student_id": "10032006", "email": "b@ashesi.edu.gh"}},
	}
	unique := []string{"student_id", "email"}

	t.Run("reports every violated field", func(t *testing.T) {
		candidate := Record{Key: "10042006", Fields: map[string]string{"student_id": "10022006", "email": "b@ashesi.edu.gh"}}
		conflicts := Conflicts(unique, existing, candidate)
		require.Equal(t, map[string]string{
			"student_id": "student_id already exists!",
			"email":      "email already exists!",
		}, conflicts)
	})

	t.Run("self match never conflicts", func(t *testing.T) {
		candidate := Record{Key: "10022006", Fields: map[string]string{"student_id": "10022006", "email": "a@ashesi.edu.gh"}}
		require.Empty(t, Conflicts(unique, existing, candidate))
	})

	t.Run("no collision yields empty map", func(t *testing.T) {
		candidate := Record{Key: "10042006", Fields: map[string]string{"student_id": "10042006", "email": "c@ashesi.edu.gh"}}
		require.Empty(t, Conflicts(unique, existing, candidate))
	})
}
