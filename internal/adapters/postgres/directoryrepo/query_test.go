package directoryrepo

import (
	"strings"
	"testing"

	"github.com/alumni-network/alumni-api/internal/domain/directory"
)

func TestBuildFind_NoConstraintsHasNoWhere(t *testing.T) {
	t.Parallel()

	sql, args := buildFind(directory.Query{})
	if strings.Contains(sql, "WHERE") || len(args) != 0 {
		t.Fatalf("sql=%q args=%v", sql, args)
	}
}

func TestBuildFind_UnknownCompanyTypeAddsNoClause(t *testing.T) {
	t.Parallel()

	sql, args := buildFind(directory.Query{CompanyType: "Aerospace"})
	if strings.Contains(sql, "WHERE") || len(args) != 0 {
		t.Fatalf("sql=%q args=%v", sql, args)
	}
}

func TestBuildFind_ArgsAreEscapedAndPositional(t *testing.T) {
	t.Parallel()

	year := 2020
	sql, args := buildFind(directory.Query{GraduationYear: &year, Location: "50%", CompanyType: directory.CompanyTypeFinance, Text: "Go"})

	// year + location + 4 finance keywords + text pattern + exact skill
	if len(args) != 8 {
		t.Fatalf("len(args)=%d want 8: %v", len(args), args)
	}
	if args[0] != 2020 || args[1] != `%50\%%` {
		t.Fatalf("unexpected leading args: %v", args[:2])
	}
	if args[len(args)-1] != "Go" || !strings.Contains(sql, "$8 = ANY(d.skills)") {
		t.Fatalf("skill clause missing: sql=%q", sql)
	}
	if strings.Count(sql, " AND ") != 3 {
		t.Fatalf("expected 4 AND-ed clauses, sql=%q", sql)
	}
}
