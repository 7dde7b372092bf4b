package mock

import (
	"fmt"
	"time"

	"gitlab.com/resultscraper/results"
)

// MakeRows for constituency id with n candidates
func MakeRows(id, n int) []results.Row {
	rows := make([]results.Row, 0, n)
	for i := 0; i < n; i++ {
		evm := int64(1000 * (n - i))
		postal := int64(10 * (n - i))
		rows = append(rows, results.Row{
			ConstituencyNumber: id,
			ConstituencyName:   fmt.Sprintf("%d - CONSTITUENCY %d", id, id),
			SerialNo:           i + 1,
			Candidate:          fmt.Sprintf("CANDIDATE %d", i+1),
			Party:              fmt.Sprintf("Party %d", i%3),
			EVMVotes:           evm,
			PostalVotes:        postal,
			TotalVotes:         evm + postal,
			Percentage:         float64(n-i) * 10,
		})
	}
	return rows
}

// Config for tests, no delay and the real constituency count
func Config(output string) *results.Config {
	cfg := results.DefaultConfig()
	cfg.Output = output
	cfg.Delay = 0
	cfg.Settle = 0
	cfg.Timeout = 5 * time.Second
	return cfg
}
