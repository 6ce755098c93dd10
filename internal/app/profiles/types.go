package profiles

import "github.com/alumni-network/alumni-api/internal/domain"

// Optional is a tri-state patch field:
// - unspecified (omitted): leave unchanged
// - specified as null: clear
// - specified with a value: set
type Optional[T any] struct {
	specified bool
	isNull    bool
	value     T
}

func Unspecified[T any]() Optional[T] { return Optional[T]{} }
func Null[T any]() Optional[T]        { return Optional[T]{specified: true, isNull: true} }
func Some[T any](v T) Optional[T]     { return Optional[T]{specified: true, value: v} }

func (o Optional[T]) IsSpecified() bool { return o.specified }
func (o Optional[T]) IsNull() bool      { return o.specified && o.isNull }
func (o Optional[T]) Value() T          { return o.value }

// Patch is the input to Upsert. For string fields an empty (after trimming) value clears
// the field, same as null.
type Patch struct {
	Name           Optional[string]
	Email          Optional[string]
	Bio            Optional[string]
	Major          Optional[string]
	GraduationYear Optional[int]
	Company        Optional[string]
	JobTitle       Optional[string]
	Location       Optional[string]
	Skills         Optional[[]string]
	ProfilePicture Optional[string]
	LinkedIn       Optional[string]
	Twitter        Optional[string]
	Website        Optional[string]
}

// Mine is the caller's profile with the identity name and email resolved.
type Mine struct {
	Profile domain.Profile
	Name    string
	Email   string
}
