package httpapi

import (
	"net/http"

	"github.com/oapi-codegen/nullable"

	"github.com/alumni-network/alumni-api/internal/adapters/httpapi/apitypes"
	"github.com/alumni-network/alumni-api/internal/app/profiles"
)

func (s *Server) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	me, err := s.Profiles.GetMine(r.Context(), sub)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileFromApp(me))
}

func (s *Server) UpsertMyProfile(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	var body apitypes.ProfileUpsertRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	me, err := s.Profiles.Upsert(r.Context(), sub, patchFromRequest(body))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profileFromApp(me))
}

func profileFromApp(me profiles.Mine) apitypes.Profile {
	p := me.Profile
	skills := p.Skills
	if skills == nil {
		skills = []string{}
	}
	return apitypes.Profile{
		ID:             string(p.ID),
		User:           string(p.User),
		Name:           me.Name,
		Email:          me.Email,
		Bio:            p.Bio,
		Major:          p.Major,
		GraduationYear: p.GraduationYear,
		Company:        p.Company,
		JobTitle:       p.JobTitle,
		Location:       p.Location,
		Skills:         skills,
		ProfilePicture: p.ProfilePicture,
		Social: apitypes.Social{
			LinkedIn: p.Social.LinkedIn,
			Twitter:  p.Social.Twitter,
			Website:  p.Social.Website,
		},
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func patchFromRequest(b apitypes.ProfileUpsertRequest) profiles.Patch {
	return profiles.Patch{
		Name:           optionalFromNullable(b.Name),
		Email:          optionalFromNullable(b.Email),
		Bio:            optionalFromNullable(b.Bio),
		Major:          optionalFromNullable(b.Major),
		GraduationYear: optionalFromNullable(b.GraduationYear),
		Company:        optionalFromNullable(b.Company),
		JobTitle:       optionalFromNullable(b.JobTitle),
		Location:       optionalFromNullable(b.Location),
		Skills:         optionalFromNullable(b.Skills),
		ProfilePicture: optionalFromNullable(b.ProfilePicture),
		LinkedIn:       optionalFromNullable(b.LinkedIn),
		Twitter:        optionalFromNullable(b.Twitter),
		Website:        optionalFromNullable(b.Website),
	}
}

func optionalFromNullable[T any](n nullable.Nullable[T]) profiles.Optional[T] {
	if !n.IsSpecified() {
		return profiles.Unspecified[T]()
	}
	if n.IsNull() {
		return profiles.Null[T]()
	}
	v, err := n.Get()
	if err != nil {
		return profiles.Unspecified[T]()
	}
	return profiles.Some(v)
}
