package results_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"gitlab.com/resultscraper/results"
)

func TestTally(t *testing.T) {
	rows := []*results.Row{
		{ConstituencyNumber: 1, SerialNo: 1, Candidate: "A", Party: "P1", TotalVotes: 500},
		{ConstituencyNumber: 1, SerialNo: 2, Candidate: "B", Party: "P2", TotalVotes: 700},
		{ConstituencyNumber: 2, SerialNo: 1, Candidate: "C", Party: "P1", TotalVotes: 900},
		{ConstituencyNumber: 2, SerialNo: 2, Candidate: "D", Party: "P3", TotalVotes: 100},
		{ConstituencyNumber: 4, SerialNo: 1, Candidate: "E", Party: "P2", TotalVotes: 300},
	}
	tally := results.NewTally(rows)

	if tally.Records != 5 || tally.Constituencies != 3 || tally.Votes != 2500 {
		t.Fatalf("unexpected totals %d/%d/%d\n", tally.Records, tally.Constituencies, tally.Votes)
	}

	expected := []*results.PartyTally{
		{Party: "P2", Candidates: 2, Votes: 1000, Won: 2},
		{Party: "P1", Candidates: 2, Votes: 1400, Won: 1},
		{Party: "P3", Candidates: 1, Votes: 100, Won: 0},
	}
	if diff := cmp.Diff(expected, tally.Parties); diff != "" {
		t.Fatalf("parties mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]int{3, 5}, tally.Missing(5)); diff != "" {
		t.Fatalf("missing mismatch (-want +got):\n%s", diff)
	}
}
