package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/alumni-network/alumni-api/internal/adapters/httpapi/apitypes"
	"github.com/alumni-network/alumni-api/internal/app/apperr"
	"github.com/alumni-network/alumni-api/internal/app/directory"
	"github.com/alumni-network/alumni-api/internal/domain"
)

func (s *Server) ListAlumni(w http.ResponseWriter, r *http.Request) {
	rs, err := s.Directory.All(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apitypes.AlumniRecordsFromDomain(rs))
}

func (s *Server) SearchAlumni(w http.ResponseWriter, r *http.Request) {
	var q string
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &q); err != nil {
		writeError(w, r, http.StatusBadRequest, apperr.CodeValidation, "invalid query parameter", map[string]any{"q": err.Error()})
		return
	}
	rs, err := s.Directory.Search(r.Context(), q)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apitypes.AlumniRecordsFromDomain(rs))
}

func (s *Server) FilterAlumni(w http.ResponseWriter, r *http.Request) {
	var in directory.FilterInput
	params := []struct {
		name string
		dst  *string
	}{
		{"graduationYear", &in.GraduationYear},
		{"department", &in.Department},
		{"location", &in.Location},
		{"company", &in.Company},
		{"companyType", &in.CompanyType},
	}
	query := r.URL.Query()
	for _, p := range params {
		if err := runtime.BindQueryParameter("form", true, false, p.name, query, p.dst); err != nil {
			writeError(w, r, http.StatusBadRequest, apperr.CodeValidation, "invalid query parameter", map[string]any{p.name: err.Error()})
			return
		}
	}

	rs, err := s.Directory.Filter(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apitypes.AlumniRecordsFromDomain(rs))
}

func (s *Server) AlumniByDepartment(w http.ResponseWriter, r *http.Request) {
	dept, ok := bindPathParam(w, r, "department")
	if !ok {
		return
	}
	rs, err := s.Directory.ByDepartment(r.Context(), dept)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apitypes.AlumniRecordsFromDomain(rs))
}

func (s *Server) AlumniByYear(w http.ResponseWriter, r *http.Request) {
	year, ok := bindPathParam(w, r, "year")
	if !ok {
		return
	}
	rs, err := s.Directory.ByYear(r.Context(), year)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apitypes.AlumniRecordsFromDomain(rs))
}

func (s *Server) AlumniStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.Directory.Stats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apitypes.DirectoryStatsFromDomain(st))
}

func (s *Server) ContactAlumni(w http.ResponseWriter, r *http.Request) {
	sub, ok := requireSubject(w, r)
	if !ok {
		return
	}
	id, ok := bindPathParam(w, r, "id")
	if !ok {
		return
	}

	// The body is optional.
	var body apitypes.ContactRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, http.StatusBadRequest, apperr.CodeValidation, "invalid JSON body", map[string]any{"body": err.Error()})
		return
	}

	if err := s.Directory.Contact(r.Context(), sub, domain.ProfileID(id), body.Message); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apitypes.ContactResponse{Status: "received"})
}

func bindPathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		writeError(w, r, http.StatusBadRequest, apperr.CodeValidation, "invalid path parameter", map[string]any{name: err.Error()})
		return "", false
	}
	return v, true
}
