package directory

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSortByYearThenName(t *testing.T) {
	t.Parallel()

	rs := []Record{
		{ID: "p1", Name: "Zed", GraduationYear: intPtr(2020)},
		{ID: "p2", Name: "Amy"},
		{ID: "p3", Name: "Bob", GraduationYear: intPtr(2022)},
		{ID: "p4", Name: "Ann", GraduationYear: intPtr(2020)},
		{ID: "p5", Name: "Ann", GraduationYear: intPtr(2020)},
	}
	SortByYearThenName(rs)
	if diff := cmp.Diff([]string{"p3", "p4", "p5", "p1", "p2"}, ids(rs)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestSortByName(t *testing.T) {
	t.Parallel()

	rs := []Record{
		{ID: "p1", Name: "Zed", GraduationYear: intPtr(2024)},
		{ID: "p2", Name: "Amy", GraduationYear: intPtr(2001)},
		{ID: "p3", Name: "Max"},
	}
	SortByName(rs)
	if diff := cmp.Diff([]string{"p2", "p3", "p1"}, ids(rs)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}
