package directoryrepo

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/alumni-network/alumni-api/internal/adapters/mongodb"
	"github.com/alumni-network/alumni-api/internal/domain"
	"github.com/alumni-network/alumni-api/internal/domain/directory"
)

// Repo is the MongoDB directory read model: a $lookup of users followed by a projection to
// the record shape and a $match built from the query.
type Repo struct {
	profiles *mongo.Collection
}

func NewRepo(db *mongo.Database) *Repo {
	return &Repo{profiles: db.Collection(mongodb.ProfilesCollection)}
}

type recordDoc struct {
	ID             string   `bson:"_id"`
	Name           string   `bson:"name"`
	Email          string   `bson:"email"`
	GraduationYear *int     `bson:"graduationYear"`
	Department     string   `bson:"department"`
	JobTitle       string   `bson:"jobTitle"`
	Company        string   `bson:"company"`
	Location       string   `bson:"location"`
	Bio            string   `bson:"bio"`
	LinkedIn       string   `bson:"linkedIn"`
	Skills         []string `bson:"skills"`
	ProfilePicture string   `bson:"profilePicture"`
}

// preferUser picks the joined user's field when it is a non-empty string, else the
// profile-local copy, else "".
func preferUser(field string) bson.M {
	userField := "$u." + field
	return bson.M{"$cond": bson.A{
		bson.M{"$gt": bson.A{bson.M{"$strLenCP": bson.M{"$ifNull": bson.A{userField, ""}}}, 0}},
		userField,
		bson.M{"$ifNull": bson.A{"$" + field, ""}},
	}}
}

func orEmpty(path string) bson.M {
	return bson.M{"$ifNull": bson.A{path, ""}}
}

func projectionStages() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         mongodb.UsersCollection,
			"localField":   "user",
			"foreignField": "_id",
			"as":           "u",
		}}},
		{{Key: "$set", Value: bson.M{"u": bson.M{"$arrayElemAt": bson.A{"$u", 0}}}}},
		{{Key: "$project", Value: bson.M{
			"_id":            1,
			"name":           preferUser("name"),
			"email":          preferUser("email"),
			"graduationYear": 1,
			"department":     orEmpty("$major"),
			"jobTitle":       orEmpty("$jobTitle"),
			"company":        orEmpty("$company"),
			"location":       orEmpty("$location"),
			"bio":            orEmpty("$bio"),
			"linkedIn":       orEmpty("$social.linkedin"),
			"skills":         bson.M{"$ifNull": bson.A{"$skills", bson.A{}}},
			"profilePicture": orEmpty("$profilePicture"),
		}}},
	}
}

func containsRegex(s string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(s), Options: "i"}
}

// buildMatch translates q into a filter over the projected record fields.
func buildMatch(q directory.Query) bson.M {
	conds := bson.A{}
	if q.GraduationYear != nil {
		conds = append(conds, bson.M{"graduationYear": *q.GraduationYear})
	}
	if q.Department != "" {
		conds = append(conds, bson.M{"department": q.Department})
	}
	if q.Location != "" {
		conds = append(conds, bson.M{"location": containsRegex(q.Location)})
	}
	if q.Company != "" {
		conds = append(conds, bson.M{"company": containsRegex(q.Company)})
	}
	if q.CompanyType != "" {
		if kws, ok := directory.Keywords(q.CompanyType); ok {
			res := bson.A{}
			for _, kw := range kws {
				res = append(res, containsRegex(kw))
			}
			conds = append(conds, bson.M{"company": bson.M{"$in": res}})
		}
	}
	if q.Text != "" {
		re := containsRegex(q.Text)
		conds = append(conds, bson.M{"$or": bson.A{
			bson.M{"name": re},
			bson.M{"company": re},
			bson.M{"location": re},
			bson.M{"jobTitle": re},
			bson.M{"department": re},
			bson.M{"bio": re},
			bson.M{"skills": q.Text},
		}})
	}
	if len(conds) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": conds}
}

func (r *Repo) Find(ctx context.Context, q directory.Query) ([]directory.Record, error) {
	pipeline := append(projectionStages(), bson.D{{Key: "$match", Value: buildMatch(q)}})
	cur, err := r.profiles.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("directory find: %w", err)
	}
	var docs []recordDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("directory find: %w", err)
	}
	out := make([]directory.Record, 0, len(docs))
	for _, d := range docs {
		skills := d.Skills
		if skills == nil {
			skills = []string{}
		}
		out = append(out, directory.Record{
			ID:             domain.ProfileID(d.ID),
			Name:           d.Name,
			Email:          d.Email,
			GraduationYear: d.GraduationYear,
			Department:     d.Department,
			JobTitle:       d.JobTitle,
			Company:        d.Company,
			Location:       d.Location,
			Bio:            d.Bio,
			LinkedIn:       d.LinkedIn,
			Skills:         skills,
			ProfilePicture: d.ProfilePicture,
		})
	}
	return out, nil
}

type yearGroup struct {
	Year  *int `bson:"_id"`
	Count int  `bson:"count"`
}

type valueGroup struct {
	Value *string `bson:"_id"`
	Count int     `bson:"count"`
}

type statsFacet struct {
	Total []struct {
		N int `bson:"n"`
	} `bson:"total"`
	Years     []yearGroup  `bson:"years"`
	Majors    []valueGroup `bson:"majors"`
	Locations []valueGroup `bson:"locations"`
	Companies []valueGroup `bson:"companies"`
}

func groupBy(field string) bson.A {
	return bson.A{bson.M{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}}}
}

// Stats runs every grouping in one $facet round trip; ordering and the top-N cut happen in Go
// so all backends agree.
func (r *Repo) Stats(ctx context.Context) (directory.Stats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.M{
			"total":     bson.A{bson.M{"$count": "n"}},
			"years":     groupBy("graduationYear"),
			"majors":    groupBy("major"),
			"locations": groupBy("location"),
			"companies": groupBy("company"),
		}}},
	}
	cur, err := r.profiles.Aggregate(ctx, pipeline)
	if err != nil {
		return directory.Stats{}, fmt.Errorf("directory stats: %w", err)
	}
	var facets []statsFacet
	if err := cur.All(ctx, &facets); err != nil {
		return directory.Stats{}, fmt.Errorf("directory stats: %w", err)
	}
	if len(facets) == 0 {
		return directory.Stats{}, nil
	}
	f := facets[0]

	var s directory.Stats
	if len(f.Total) > 0 {
		s.Total = f.Total[0].N
	}
	years := make([]directory.YearCount, 0, len(f.Years))
	for _, y := range f.Years {
		years = append(years, directory.YearCount{Year: y.Year, Count: y.Count})
	}
	s.ByGraduationYear = directory.OrderYearCounts(years)
	s.ByMajor = directory.OrderValueCounts(toValueCounts(f.Majors), 0)
	s.TopLocations = directory.OrderValueCounts(toValueCounts(f.Locations), directory.TopN)
	s.TopCompanies = directory.OrderValueCounts(toValueCounts(f.Companies), directory.TopN)
	return s, nil
}

func toValueCounts(gs []valueGroup) []directory.ValueCount {
	out := make([]directory.ValueCount, 0, len(gs))
	for _, g := range gs {
		out = append(out, directory.ValueCount{Value: g.Value, Count: g.Count})
	}
	return out
}
