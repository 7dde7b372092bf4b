package results

import (
	"fmt"
	"strings"
)

// Header is the column order of the output table
var Header = []string{
	"Constituency_Number",
	"Constituency_Name",
	"Serial_No",
	"Candidate",
	"Party",
	"EVM_Votes",
	"Postal_Votes",
	"Total_Votes",
	"Percentage",
}

// Row is one candidate's result within one constituency
type Row struct {
	ConstituencyNumber int     `csv:"Constituency_Number"`
	ConstituencyName   string  `csv:"Constituency_Name"`
	SerialNo           int     `csv:"Serial_No"`
	Candidate          string  `csv:"Candidate"`
	Party              string  `csv:"Party"`
	EVMVotes           int64   `csv:"EVM_Votes"`
	PostalVotes        int64   `csv:"Postal_Votes"`
	TotalVotes         int64   `csv:"Total_Votes"`
	Percentage         float64 `csv:"Percentage"`
}

// Validate that the row belongs to constituency id and carries sane values.
// TotalVotes is taken as given and not checked against EVM + Postal.
func (r *Row) Validate(id int) error {
	switch {
	case r.ConstituencyNumber != id:
		return fmt.Errorf("row belongs to constituency %d, expected %d", r.ConstituencyNumber, id)
	case r.SerialNo <= 0:
		return fmt.Errorf("serial number %d is not positive", r.SerialNo)
	case strings.TrimSpace(r.Candidate) == "":
		return fmt.Errorf("serial %d has no candidate name", r.SerialNo)
	case r.EVMVotes < 0 || r.PostalVotes < 0 || r.TotalVotes < 0:
		return fmt.Errorf("serial %d has negative vote counts", r.SerialNo)
	case r.Percentage < 0:
		return fmt.Errorf("serial %d has negative percentage", r.SerialNo)
	}
	return nil
}

// ValidateRows checks every row of a single constituency batch
func ValidateRows(id int, rows []Row) error {
	for i := range rows {
		if err := rows[i].Validate(id); err != nil {
			return err
		}
	}
	return nil
}
