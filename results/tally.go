package results

import "sort"

// PartyTally is the aggregate of one party over every constituency
type PartyTally struct {
	Party      string
	Candidates int
	Votes      int64
	Won        int // constituencies where the party's candidate had the most votes
}

// Tally aggregates the rows of an output table
type Tally struct {
	Records        int
	Constituencies int
	Votes          int64
	Parties        []*PartyTally // most seats first, then most votes
	ids            map[int]struct{}
}

// NewTally over rows
func NewTally(rows []*Row) *Tally {
	t := &Tally{Records: len(rows), ids: make(map[int]struct{})}
	parties := make(map[string]*PartyTally)
	leaders := make(map[int]*Row)

	for _, row := range rows {
		t.ids[row.ConstituencyNumber] = struct{}{}
		t.Votes += row.TotalVotes

		p, ok := parties[row.Party]
		if !ok {
			p = &PartyTally{Party: row.Party}
			parties[row.Party] = p
		}
		p.Candidates++
		p.Votes += row.TotalVotes

		if lead, ok := leaders[row.ConstituencyNumber]; !ok || row.TotalVotes > lead.TotalVotes {
			leaders[row.ConstituencyNumber] = row
		}
	}
	for _, lead := range leaders {
		parties[lead.Party].Won++
	}

	t.Constituencies = len(t.ids)
	t.Parties = make([]*PartyTally, 0, len(parties))
	for _, p := range parties {
		t.Parties = append(t.Parties, p)
	}
	sort.Slice(t.Parties, func(i, j int) bool {
		a, b := t.Parties[i], t.Parties[j]
		if a.Won != b.Won {
			return a.Won > b.Won
		}
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}
		return a.Party < b.Party
	})
	return t
}

// Missing constituency numbers in [1, total]
func (t *Tally) Missing(total int) []int {
	missing := make([]int, 0)
	for id := 1; id <= total; id++ {
		if _, ok := t.ids[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
