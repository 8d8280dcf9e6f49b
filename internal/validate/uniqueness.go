package validate

// Record is the uniqueness checker's view of a stored document: its primary
// key plus the field values subject to uniqueness constraints.
type Record struct {
	Key    string
	Fields map[string]string
}

// Conflicts scans existing records for values colliding with the candidate on
// any of the unique fields. A record sharing the candidate's primary key
// never conflicts, so updates do not collide with their own stored state.
//
// The returned map is keyed by violated field; an empty map means the
// candidate is safe to persist. Callers must reject the mutation when any
// entry is present and surface every violated field.
func Conflicts(unique []string, existing []Record, candidate Record) map[string]string {
	conflicts := make(map[string]string)
	for _, field := range unique {
		for _, rec := range existing {
			if rec.Key == candidate.Key {
				continue
			}
			if rec.Fields[field] != "" && rec.Fields[field] == candidate.Fields[field] {
				conflicts[field] = field + " already exists!"
			}
		}
	}
	return conflicts
}
