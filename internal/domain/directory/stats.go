package directory

import (
	"sort"

	"github.com/alumni-network/alumni-api/internal/domain"
)

// TopN bounds the location and company groups in Stats.
const TopN = 10

// YearCount is one graduation-year group. Year is nil for profiles without a year.
type YearCount struct {
	Year  *int
	Count int
}

// ValueCount is one group keyed by a raw stored string. Value is nil for profiles
// where the field was never set.
type ValueCount struct {
	Value *string
	Count int
}

// Stats aggregates the directory.
type Stats struct {
	Total            int
	ByGraduationYear []YearCount
	ByMajor          []ValueCount
	TopLocations     []ValueCount
	TopCompanies     []ValueCount
}

// Aggregate computes Stats over raw profiles. Store adapters that aggregate natively
// should finish with OrderYearCounts and OrderValueCounts so every backend agrees on order.
func Aggregate(ps []domain.Profile) Stats {
	years := map[int]int{}
	noYear := 0
	majors := newValueCounter()
	locations := newValueCounter()
	companies := newValueCounter()

	for _, p := range ps {
		if p.GraduationYear == nil {
			noYear++
		} else {
			years[*p.GraduationYear]++
		}
		majors.add(p.Major)
		locations.add(p.Location)
		companies.add(p.Company)
	}

	yc := make([]YearCount, 0, len(years)+1)
	for y, n := range years {
		y := y
		yc = append(yc, YearCount{Year: &y, Count: n})
	}
	if noYear > 0 {
		yc = append(yc, YearCount{Count: noYear})
	}

	return Stats{
		Total:            len(ps),
		ByGraduationYear: OrderYearCounts(yc),
		ByMajor:          OrderValueCounts(majors.counts(), 0),
		TopLocations:     OrderValueCounts(locations.counts(), TopN),
		TopCompanies:     OrderValueCounts(companies.counts(), TopN),
	}
}

// OrderYearCounts sorts year groups newest first with the "no year" group last.
func OrderYearCounts(yc []YearCount) []YearCount {
	sort.Slice(yc, func(i, j int) bool {
		yi, yj := yc[i].Year, yc[j].Year
		if yi == nil || yj == nil {
			return yj == nil && yi != nil
		}
		return *yi > *yj
	})
	return yc
}

// OrderValueCounts sorts groups by count descending, then value ascending with the nil
// group after every set value, and keeps at most limit groups (limit <= 0 keeps all).
func OrderValueCounts(vc []ValueCount, limit int) []ValueCount {
	sort.Slice(vc, func(i, j int) bool {
		if vc[i].Count != vc[j].Count {
			return vc[i].Count > vc[j].Count
		}
		vi, vj := vc[i].Value, vc[j].Value
		if vi == nil || vj == nil {
			return vj == nil && vi != nil
		}
		return *vi < *vj
	})
	if limit > 0 && len(vc) > limit {
		vc = vc[:limit]
	}
	return vc
}

type valueCounter struct {
	set   map[string]int
	unset int
}

func newValueCounter() *valueCounter {
	return &valueCounter{set: map[string]int{}}
}

func (c *valueCounter) add(v *string) {
	if v == nil {
		c.unset++
		return
	}
	c.set[*v]++
}

func (c *valueCounter) counts() []ValueCount {
	out := make([]ValueCount, 0, len(c.set)+1)
	for v, n := range c.set {
		v := v
		out = append(out, ValueCount{Value: &v, Count: n})
	}
	if c.unset > 0 {
		out = append(out, ValueCount{Count: c.unset})
	}
	return out
}
