package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ParticipantRow is one line of a campaign participant export
type ParticipantRow struct {
	UserID   int64
	FullName string
	Username string
	Paid     bool
}

var csvHeader = []string{"user_id", "full_name", "username", "paid"}

// WriteParticipantsCSV renders participant rows as CSV with a header line.
func WriteParticipantsCSV(w io.Writer, rows []ParticipantRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, row := range rows {
		paid := "no"
		if row.Paid {
			paid = "yes"
		}
		record := []string{
			strconv.FormatInt(row.UserID, 10),
			row.FullName,
			row.Username,
			paid,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
