package domain

import "time"

// Social holds optional social links. All fields are optional.
type Social struct {
	LinkedIn *string
	Twitter  *string
	Website  *string
}

// Profile is the alumni profile document. There is at most one profile per user reference.
//
// Optional fields are pointers; nil means the field was never set. Name and Email are
// profile-local copies used only when no identity record is linked.
type Profile struct {
	ID   ProfileID
	User UserID

	Name  *string
	Email *string

	Bio            *string
	Major          *string
	GraduationYear *int
	Company        *string
	JobTitle       *string
	Location       *string
	Skills         []string
	ProfilePicture *string
	Social         Social

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy so callers cannot mutate stored state through shared pointers.
func (p Profile) Clone() Profile {
	out := p
	out.Name = cloneStringPtr(p.Name)
	out.Email = cloneStringPtr(p.Email)
	out.Bio = cloneStringPtr(p.Bio)
	out.Major = cloneStringPtr(p.Major)
	out.Company = cloneStringPtr(p.Company)
	out.JobTitle = cloneStringPtr(p.JobTitle)
	out.Location = cloneStringPtr(p.Location)
	out.ProfilePicture = cloneStringPtr(p.ProfilePicture)
	out.Social = Social{
		LinkedIn: cloneStringPtr(p.Social.LinkedIn),
		Twitter:  cloneStringPtr(p.Social.Twitter),
		Website:  cloneStringPtr(p.Social.Website),
	}
	if p.GraduationYear != nil {
		y := *p.GraduationYear
		out.GraduationYear = &y
	}
	if p.Skills != nil {
		out.Skills = append([]string(nil), p.Skills...)
	}
	return out
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
