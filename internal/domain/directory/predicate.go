package directory

import (
	"strconv"
	"strings"
)

// containsFold reports whether needle occurs in hay ignoring case. An empty hay never
// contains a non-empty needle.
func containsFold(hay, needle string) bool {
	return strings.Contains(strings.ToLower(hay), strings.ToLower(needle))
}

// Matches reports whether r satisfies every constraint in q using server semantics.
func (q Query) Matches(r Record) bool {
	if q.GraduationYear != nil {
		if r.GraduationYear == nil || *r.GraduationYear != *q.GraduationYear {
			return false
		}
	}
	if q.Department != "" && r.Department != q.Department {
		return false
	}
	if q.Location != "" && !containsFold(r.Location, q.Location) {
		return false
	}
	if q.Company != "" && !containsFold(r.Company, q.Company) {
		return false
	}
	if q.CompanyType != "" {
		if _, known := companyTypeKeywords[q.CompanyType]; known && !InCompanyType(r.Company, q.CompanyType) {
			return false
		}
	}
	if q.Text != "" && !MatchesText(r, q.Text) {
		return false
	}
	return true
}

// MatchesText is the server free-text predicate: a case-insensitive substring match on
// name, company, location, job title, department and bio, or an exact skill.
func MatchesText(r Record, text string) bool {
	for _, f := range []string{r.Name, r.Company, r.Location, r.JobTitle, r.Department, r.Bio} {
		if containsFold(f, text) {
			return true
		}
	}
	for _, s := range r.Skills {
		if s == text {
			return true
		}
	}
	return false
}

// MatchesSearchTerm is the presentation search predicate: a case-insensitive substring
// match on name, company, location or job title.
func MatchesSearchTerm(r Record, term string) bool {
	for _, f := range []string{r.Name, r.Company, r.Location, r.JobTitle} {
		if containsFold(f, term) {
			return true
		}
	}
	return false
}

// Apply derives the presentation view: search, then graduation year, department, location
// and company type, each applied only when its input is non-empty. The input slice is not
// modified and the relative order of records is preserved.
func Apply(records []Record, term string, f FilterState) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if term != "" && !MatchesSearchTerm(r, term) {
			continue
		}
		if f.GraduationYear != "" {
			if r.GraduationYear == nil || strconv.Itoa(*r.GraduationYear) != f.GraduationYear {
				continue
			}
		}
		if f.Department != "" && r.Department != f.Department {
			continue
		}
		if f.Location != "" && r.Location != f.Location {
			continue
		}
		if f.CompanyType != "" {
			if _, known := companyTypeKeywords[f.CompanyType]; known && !InCompanyType(r.Company, f.CompanyType) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}
