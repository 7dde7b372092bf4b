package eci_test

import (
	"io/ioutil"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"gitlab.com/resultscraper/eci"
	"gitlab.com/resultscraper/results"
)

func readPage(t *testing.T, name string) string {
	data, err := ioutil.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("error reading %s: %s\n", name, err)
	}
	return string(data)
}

func TestParse(t *testing.T) {
	rows, err := eci.Parse(195, readPage(t, "constituency_195.htm"))
	if err != nil {
		t.Fatalf("error parsing: %s\n", err)
	}

	expected := []results.Row{
		{
			ConstituencyNumber: 195, ConstituencyName: "195 - AGIAON", SerialNo: 1,
			Candidate: "MAHESH PASWAN", Party: "Bharatiya Janata Party",
			EVMVotes: 69412, PostalVotes: 611, TotalVotes: 70023, Percentage: 47.85,
		},
		{
			ConstituencyNumber: 195, ConstituencyName: "195 - AGIAON", SerialNo: 2,
			Candidate: "SHIV PRAKASH RANJAN", Party: "Communist Party of India (Marxist-Leninist) (Liberation)",
			EVMVotes: 64890, PostalVotes: 702, TotalVotes: 65592, Percentage: 44.82,
		},
		{
			ConstituencyNumber: 195, ConstituencyName: "195 - AGIAON", SerialNo: 3,
			Candidate: "NOTA", Party: "None of the Above",
			EVMVotes: 3201, PostalVotes: 12, TotalVotes: 3213, Percentage: 2.2,
		},
	}
	if diff := cmp.Diff(expected, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDefaultName(t *testing.T) {
	rows, err := eci.Parse(7, readPage(t, "no_heading.htm"))
	if err != nil {
		t.Fatalf("error parsing: %s\n", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row got %d\n", len(rows))
	}
	if rows[0].ConstituencyName != "Constituency_7" {
		t.Fatalf("expected default name got %s\n", rows[0].ConstituencyName)
	}
}

func TestParseTDHeader(t *testing.T) {
	rows, err := eci.Parse(12, readPage(t, "td_header.htm"))
	if err != nil {
		t.Fatalf("error parsing: %s\n", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows got %d\n", len(rows))
	}
	if rows[0].SerialNo != 1 || rows[0].Candidate != "ASHA DEVI" || rows[0].TotalVotes != 50430 {
		t.Fatalf("unexpected first row %#v\n", rows[0])
	}
	if rows[1].ConstituencyName != "12 - SAMPLE" {
		t.Fatalf("unexpected name %s\n", rows[1].ConstituencyName)
	}
}

func TestParseEmptyTable(t *testing.T) {
	rows, err := eci.Parse(40, readPage(t, "empty_table.htm"))
	if err != nil {
		t.Fatalf("error parsing: %s\n", err)
	}
	if rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty non nil rows got %#v\n", rows)
	}
}

func TestParseFailures(t *testing.T) {
	var inputs = []struct {
		page  string
		stage string
		cause error
	}{
		{"wrong_arity.htm", results.StageParse, results.ErrWrongArity},
		{"no_table.htm", results.StageParse, results.ErrNoTable},
		{"blocked.htm", results.StageBlocked, results.ErrBlocked},
	}

	for _, in := range inputs {
		_, err := eci.Parse(12, readPage(t, in.page))
		if err == nil {
			t.Fatalf("%s: expected error\n", in.page)
		}
		var fetchErr *results.FetchError
		if !errors.As(err, &fetchErr) {
			t.Fatalf("%s: expected fetch error got %T\n", in.page, err)
		}
		if fetchErr.ID != 12 || fetchErr.Stage != in.stage {
			t.Fatalf("%s: got id %d stage %s\n", in.page, fetchErr.ID, fetchErr.Stage)
		}
		if !errors.Is(err, in.cause) {
			t.Fatalf("%s: expected cause %v got %v\n", in.page, in.cause, err)
		}
	}
}

func TestInspect(t *testing.T) {
	report, err := eci.Inspect(195, readPage(t, "constituency_195.htm"))
	if err != nil {
		t.Fatalf("error inspecting: %s\n", err)
	}
	if report.Title != "Election Commission of India" {
		t.Fatalf("unexpected title %q\n", report.Title)
	}
	if len(report.Tables) != 1 || report.Tables[0] != 5 {
		t.Fatalf("unexpected report %s\n", spew.Sdump(report))
	}
	if len(report.Blocked) != 0 {
		t.Fatalf("unexpected block markers %v\n", report.Blocked)
	}

	report, err = eci.Inspect(195, readPage(t, "blocked.htm"))
	if err != nil {
		t.Fatalf("error inspecting: %s\n", err)
	}
	if len(report.Blocked) == 0 {
		t.Fatalf("expected block markers\n")
	}
}
