package domain

// SubjectID is the authenticated subject extracted from token claims (typically "sub").
// We model it as an opaque identifier: its format is controlled by the token issuer.
type SubjectID string

// UserID is an internal identifier for an identity record. Locally issued tokens carry
// the UserID as their subject, so the two convert freely.
type UserID string

// ProfileID is an internal identifier for a profile record. Directory entries are keyed by it.
type ProfileID string

// EventID is an internal identifier for an event record.
type EventID string

// DonationID is an internal identifier for a donation record.
type DonationID string

// UserIDFromSubject maps an authenticated subject to the user reference stored on
// profiles, events and donations.
func UserIDFromSubject(s SubjectID) UserID { return UserID(s) }
