package directory

import "sort"

// SortByYearThenName orders records by graduation year descending (records without a
// year last), then name ascending, then id.
func SortByYearThenName(rs []Record) {
	sort.SliceStable(rs, func(i, j int) bool {
		yi, yj := rs[i].GraduationYear, rs[j].GraduationYear
		switch {
		case yi == nil && yj != nil:
			return false
		case yi != nil && yj == nil:
			return true
		case yi != nil && yj != nil && *yi != *yj:
			return *yi > *yj
		}
		return lessByName(rs[i], rs[j])
	})
}

// SortByName orders records by name ascending, then id.
func SortByName(rs []Record) {
	sort.SliceStable(rs, func(i, j int) bool {
		return lessByName(rs[i], rs[j])
	})
}

func lessByName(a, b Record) bool {
	if a.Name == b.Name {
		return a.ID < b.ID
	}
	return a.Name < b.Name
}
