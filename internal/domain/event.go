package domain

import "time"

// Event is an alumni event. Attendees are ordered most recent RSVP first.
type Event struct {
	ID          EventID
	Title       string
	Description *string
	Date        time.Time
	Location    *string
	Organizer   UserID
	Attendees   []UserID

	CreatedAt time.Time
}

// HasAttendee reports whether the user already RSVP'd.
func (e Event) HasAttendee(u UserID) bool {
	for _, a := range e.Attendees {
		if a == u {
			return true
		}
	}
	return false
}
