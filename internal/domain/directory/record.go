package directory

import "github.com/alumni-network/alumni-api/internal/domain"

// Record is the normalized directory entry. Every directory endpoint projects to the same
// field set; absent strings are "", absent skills are an empty slice, an absent year is nil.
type Record struct {
	ID             domain.ProfileID
	Name           string
	Email          string
	GraduationYear *int
	Department     string
	JobTitle       string
	Company        string
	Location       string
	Bio            string
	LinkedIn       string
	Skills         []string
	ProfilePicture string
}

// Project builds a Record from a stored profile and its (optional) identity record.
// Identity fields prefer the user record and fall back to the profile-local copies.
func Project(p domain.Profile, u *domain.User) Record {
	r := Record{
		ID:             p.ID,
		Name:           deref(p.Name),
		Email:          deref(p.Email),
		Department:     deref(p.Major),
		JobTitle:       deref(p.JobTitle),
		Company:        deref(p.Company),
		Location:       deref(p.Location),
		Bio:            deref(p.Bio),
		LinkedIn:       deref(p.Social.LinkedIn),
		ProfilePicture: deref(p.ProfilePicture),
		Skills:         make([]string, 0, len(p.Skills)),
	}
	if u != nil {
		if u.Name != "" {
			r.Name = u.Name
		}
		if u.Email != "" {
			r.Email = u.Email
		}
	}
	if p.GraduationYear != nil {
		y := *p.GraduationYear
		r.GraduationYear = &y
	}
	r.Skills = append(r.Skills, p.Skills...)
	return r
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
