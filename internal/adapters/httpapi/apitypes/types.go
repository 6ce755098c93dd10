// Package apitypes holds the JSON wire types of the /api surface. The server adapter and
// the Go API client both use them.
package apitypes

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ErrorResponse is the envelope for every non-2xx response.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestId nullable.Nullable[string]         `json:"requestId,omitempty"`
}

// AlumniRecord is one directory entry. Absent strings are "", absent skills [], an absent
// year null.
type AlumniRecord struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	GraduationYear *int     `json:"graduationYear"`
	Department     string   `json:"department"`
	JobTitle       string   `json:"jobTitle"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Bio            string   `json:"bio"`
	LinkedIn       string   `json:"linkedIn"`
	Skills         []string `json:"skills"`
	ProfilePicture string   `json:"profilePicture"`
}

type YearCount struct {
	Year  *int `json:"year"`
	Count int  `json:"count"`
}

type ValueCount struct {
	Value *string `json:"value"`
	Count int     `json:"count"`
}

type DirectoryStats struct {
	TotalAlumni      int          `json:"totalAlumni"`
	ByGraduationYear []YearCount  `json:"byGraduationYear"`
	ByDepartment     []ValueCount `json:"byDepartment"`
	TopLocations     []ValueCount `json:"topLocations"`
	TopCompanies     []ValueCount `json:"topCompanies"`
}

type ContactRequest struct {
	Message string `json:"message"`
}

type ContactResponse struct {
	Status string `json:"status"`
}

type Social struct {
	LinkedIn *string `json:"linkedin,omitempty"`
	Twitter  *string `json:"twitter,omitempty"`
	Website  *string `json:"website,omitempty"`
}

// Profile is the caller's own profile document.
type Profile struct {
	ID             string    `json:"id"`
	User           string    `json:"user"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Bio            *string   `json:"bio,omitempty"`
	Major          *string   `json:"major,omitempty"`
	GraduationYear *int      `json:"graduationYear,omitempty"`
	Company        *string   `json:"company,omitempty"`
	JobTitle       *string   `json:"jobTitle,omitempty"`
	Location       *string   `json:"location,omitempty"`
	Skills         []string  `json:"skills"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
	Social         Social    `json:"social"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// ProfileUpsertRequest fields are tri-state: omitted leaves the stored value, null clears it.
type ProfileUpsertRequest struct {
	Name           nullable.Nullable[string]   `json:"name,omitempty"`
	Email          nullable.Nullable[string]   `json:"email,omitempty"`
	Bio            nullable.Nullable[string]   `json:"bio,omitempty"`
	Major          nullable.Nullable[string]   `json:"major,omitempty"`
	GraduationYear nullable.Nullable[int]      `json:"graduationYear,omitempty"`
	Company        nullable.Nullable[string]   `json:"company,omitempty"`
	JobTitle       nullable.Nullable[string]   `json:"jobTitle,omitempty"`
	Location       nullable.Nullable[string]   `json:"location,omitempty"`
	Skills         nullable.Nullable[[]string] `json:"skills,omitempty"`
	ProfilePicture nullable.Nullable[string]   `json:"profilePicture,omitempty"`
	LinkedIn       nullable.Nullable[string]   `json:"linkedin,omitempty"`
	Twitter        nullable.Nullable[string]   `json:"twitter,omitempty"`
	Website        nullable.Nullable[string]   `json:"website,omitempty"`
}

type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Location    *string   `json:"location,omitempty"`
	Organizer   string    `json:"organizer"`
	Attendees   []string  `json:"attendees"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CreateEventRequest.Date accepts RFC 3339 or a bare YYYY-MM-DD date.
type CreateEventRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Date        string  `json:"date"`
	Location    *string `json:"location,omitempty"`
}

type Donor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Donation struct {
	ID       string    `json:"id"`
	DonorID  string    `json:"donorId"`
	Donor    *Donor    `json:"donor,omitempty"`
	Amount   float64   `json:"amount"`
	Campaign *string   `json:"campaign,omitempty"`
	Date     time.Time `json:"date"`
}

type CreateDonationRequest struct {
	Amount   *float64 `json:"amount"`
	Campaign *string  `json:"campaign,omitempty"`
}

type RegisterRequest struct {
	Name     string              `json:"name"`
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

type LoginRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      UserSummary `json:"user"`
}
