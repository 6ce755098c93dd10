package directory

// Query is the server-side directory criteria. Zero values mean "no constraint".
type Query struct {
	GraduationYear *int
	// Department matches the stored major exactly.
	Department string
	// Location and Company are case-insensitive substring matches.
	Location string
	Company  string
	// CompanyType selects a keyword category by its exact name; unknown names add no constraint.
	CompanyType string
	// Text is the free-text search term.
	Text string
}

// IsZero reports whether the query has no constraints at all.
func (q Query) IsZero() bool {
	return q.GraduationYear == nil &&
		q.Department == "" &&
		q.Location == "" &&
		q.Company == "" &&
		q.CompanyType == "" &&
		q.Text == ""
}

// FilterState is the presentation-layer filter selection. Empty strings mean "no constraint".
type FilterState struct {
	GraduationYear string
	Department     string
	Location       string
	CompanyType    string
}

// IsZero reports whether no filter is active.
func (f FilterState) IsZero() bool {
	return f == FilterState{}
}
