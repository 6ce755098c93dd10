package mongodb

import (
	"time"

	"github.com/alumni-network/alumni-api/internal/domain"
)

// UserDoc is the users collection document.
type UserDoc struct {
	ID           string    `bson:"_id"`
	Name         string    `bson:"name"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"passwordHash"`
	CreatedAt    time.Time `bson:"createdAt"`
}

type SocialDoc struct {
	LinkedIn *string `bson:"linkedin,omitempty"`
	Twitter  *string `bson:"twitter,omitempty"`
	Website  *string `bson:"website,omitempty"`
}

// ProfileDoc is the profiles collection document. Unset optional fields are absent from the
// stored document, which is what groups them under null in aggregations.
type ProfileDoc struct {
	ID             string    `bson:"_id"`
	User           string    `bson:"user"`
	Name           *string   `bson:"name,omitempty"`
	Email          *string   `bson:"email,omitempty"`
	Bio            *string   `bson:"bio,omitempty"`
	Major          *string   `bson:"major,omitempty"`
	GraduationYear *int      `bson:"graduationYear,omitempty"`
	Company        *string   `bson:"company,omitempty"`
	JobTitle       *string   `bson:"jobTitle,omitempty"`
	Location       *string   `bson:"location,omitempty"`
	Skills         []string  `bson:"skills"`
	ProfilePicture *string   `bson:"profilePicture,omitempty"`
	Social         SocialDoc `bson:"social"`
	CreatedAt      time.Time `bson:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt"`
}

type EventDoc struct {
	ID          string    `bson:"_id"`
	Title       string    `bson:"title"`
	Description *string   `bson:"description,omitempty"`
	Date        time.Time `bson:"date"`
	Location    *string   `bson:"location,omitempty"`
	Organizer   string    `bson:"organizer"`
	Attendees   []string  `bson:"attendees"`
	CreatedAt   time.Time `bson:"createdAt"`
}

type DonationDoc struct {
	ID       string    `bson:"_id"`
	Donor    string    `bson:"donor"`
	Amount   float64   `bson:"amount"`
	Campaign *string   `bson:"campaign,omitempty"`
	Date     time.Time `bson:"date"`
}

func UserFromDomain(u domain.User) UserDoc {
	return UserDoc{
		ID:           string(u.ID),
		Name:         u.Name,
		Email:        domain.NormalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.UTC(),
	}
}

func (d UserDoc) ToDomain() domain.User {
	return domain.User{
		ID:           domain.UserID(d.ID),
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt.UTC(),
	}
}

func ProfileFromDomain(p domain.Profile) ProfileDoc {
	c := p.Clone()
	skills := c.Skills
	if skills == nil {
		skills = []string{}
	}
	return ProfileDoc{
		ID:             string(c.ID),
		User:           string(c.User),
		Name:           c.Name,
		Email:          c.Email,
		Bio:            c.Bio,
		Major:          c.Major,
		GraduationYear: c.GraduationYear,
		Company:        c.Company,
		JobTitle:       c.JobTitle,
		Location:       c.Location,
		Skills:         skills,
		ProfilePicture: c.ProfilePicture,
		Social:         SocialDoc{LinkedIn: c.Social.LinkedIn, Twitter: c.Social.Twitter, Website: c.Social.Website},
		CreatedAt:      c.CreatedAt.UTC(),
		UpdatedAt:      c.UpdatedAt.UTC(),
	}
}

func (d ProfileDoc) ToDomain() domain.Profile {
	return domain.Profile{
		ID:             domain.ProfileID(d.ID),
		User:           domain.UserID(d.User),
		Name:           d.Name,
		Email:          d.Email,
		Bio:            d.Bio,
		Major:          d.Major,
		GraduationYear: d.GraduationYear,
		Company:        d.Company,
		JobTitle:       d.JobTitle,
		Location:       d.Location,
		Skills:         d.Skills,
		ProfilePicture: d.ProfilePicture,
		Social:         domain.Social{LinkedIn: d.Social.LinkedIn, Twitter: d.Social.Twitter, Website: d.Social.Website},
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

func EventFromDomain(e domain.Event) EventDoc {
	attendees := make([]string, 0, len(e.Attendees))
	for _, a := range e.Attendees {
		attendees = append(attendees, string(a))
	}
	return EventDoc{
		ID:          string(e.ID),
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date.UTC(),
		Location:    e.Location,
		Organizer:   string(e.Organizer),
		Attendees:   attendees,
		CreatedAt:   e.CreatedAt.UTC(),
	}
}

func (d EventDoc) ToDomain() domain.Event {
	attendees := make([]domain.UserID, 0, len(d.Attendees))
	for _, a := range d.Attendees {
		attendees = append(attendees, domain.UserID(a))
	}
	return domain.Event{
		ID:          domain.EventID(d.ID),
		Title:       d.Title,
		Description: d.Description,
		Date:        d.Date.UTC(),
		Location:    d.Location,
		Organizer:   domain.UserID(d.Organizer),
		Attendees:   attendees,
		CreatedAt:   d.CreatedAt.UTC(),
	}
}

func DonationFromDomain(d domain.Donation) DonationDoc {
	return DonationDoc{
		ID:       string(d.ID),
		Donor:    string(d.Donor),
		Amount:   d.Amount,
		Campaign: d.Campaign,
		Date:     d.Date.UTC(),
	}
}

func (d DonationDoc) ToDomain() domain.Donation {
	return domain.Donation{
		ID:       domain.DonationID(d.ID),
		Donor:    domain.UserID(d.Donor),
		Amount:   d.Amount,
		Campaign: d.Campaign,
		Date:     d.Date.UTC(),
	}
}
