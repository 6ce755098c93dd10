package apitypes

import (
	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/domain/directory"
)

func AlumniRecordFromDomain(r directory.Record) AlumniRecord {
	skills := r.Skills
	if skills == nil {
		skills = []string{}
	}
	return AlumniRecord{
		ID:             string(r.ID),
		Name:           r.Name,
		Email:          r.Email,
		GraduationYear: r.GraduationYear,
		Department:     r.Department,
		JobTitle:       r.JobTitle,
		Company:        r.Company,
		Location:       r.Location,
		Bio:            r.Bio,
		LinkedIn:       r.LinkedIn,
		Skills:         skills,
		ProfilePicture: r.ProfilePicture,
	}
}

func AlumniRecordsFromDomain(rs []directory.Record) []AlumniRecord {
	out := make([]AlumniRecord, 0, len(rs))
	for _, r := range rs {
		out = append(out, AlumniRecordFromDomain(r))
	}
	return out
}

// ToDomain is the inverse of AlumniRecordFromDomain.
func (a AlumniRecord) ToDomain() directory.Record {
	skills := a.Skills
	if skills == nil {
		skills = []string{}
	}
	return directory.Record{
		ID:             domain.ProfileID(a.ID),
		Name:           a.Name,
		Email:          a.Email,
		GraduationYear: a.GraduationYear,
		Department:     a.Department,
		JobTitle:       a.JobTitle,
		Company:        a.Company,
		Location:       a.Location,
		Bio:            a.Bio,
		LinkedIn:       a.LinkedIn,
		Skills:         skills,
		ProfilePicture: a.ProfilePicture,
	}
}

func DirectoryStatsFromDomain(s directory.Stats) DirectoryStats {
	out := DirectoryStats{
		TotalAlumni:      s.Total,
		ByGraduationYear: make([]YearCount, 0, len(s.ByGraduationYear)),
		ByDepartment:     valueCounts(s.ByMajor),
		TopLocations:     valueCounts(s.TopLocations),
		TopCompanies:     valueCounts(s.TopCompanies),
	}
	for _, y := range s.ByGraduationYear {
		out.ByGraduationYear = append(out.ByGraduationYear, YearCount{Year: y.Year, Count: y.Count})
	}
	return out
}

func valueCounts(in []directory.ValueCount) []ValueCount {
	out := make([]ValueCount, 0, len(in))
	for _, v := range in {
		out = append(out, ValueCount{Value: v.Value, Count: v.Count})
	}
	return out
}

func EventFromDomain(e domain.Event) Event {
	attendees := make([]string, 0, len(e.Attendees))
	for _, a := range e.Attendees {
		attendees = append(attendees, string(a))
	}
	return Event{
		ID:          string(e.ID),
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Location:    e.Location,
		Organizer:   string(e.Organizer),
		Attendees:   attendees,
		CreatedAt:   e.CreatedAt,
	}
}

func DonationFromDomain(d domain.Donation, donor *domain.DonorSummary) Donation {
	out := Donation{
		ID:       string(d.ID),
		DonorID:  string(d.Donor),
		Amount:   d.Amount,
		Campaign: d.Campaign,
		Date:     d.Date,
	}
	if donor != nil {
		out.Donor = &Donor{ID: string(donor.ID), Name: donor.Name, Email: donor.Email}
	}
	return out
}
