// Package schedulecsv reads cast schedules from CSV call sheets.
//
// The expected input has a header row with SHOOTING DATE and CAST columns;
// the CAST cell holds a comma-separated list of names, often prefixed with
// call-sheet numbering ("1. Jane Doe (3)"). Each row fans out into one record
// per cleaned name.
package schedulecsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/castcall/travel-planner-api/internal/domain"
)

const (
	dateColumn = "SHOOTING DATE"
	castColumn = "CAST"
)

// Read parses a schedule CSV into shooting records. Records are deduplicated
// per (member, date) and sorted by member, then date. A malformed date or a
// missing required column fails the whole read.
func Read(r io.Reader) ([]domain.ShootingRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("schedule csv: empty input")
		}
		return nil, fmt.Errorf("schedule csv: read header: %w", err)
	}
	dateIdx, castIdx := -1, -1
	for i, col := range header {
		switch strings.ToUpper(strings.TrimSpace(col)) {
		case dateColumn:
			dateIdx = i
		case castColumn:
			castIdx = i
		}
	}
	if dateIdx < 0 || castIdx < 0 {
		return nil, fmt.Errorf("schedule csv: header must contain %q and %q columns", dateColumn, castColumn)
	}

	seen := make(map[domain.ShootingRecord]bool)
	out := make([]domain.ShootingRecord, 0)
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("schedule csv: %w", err)
		}
		line++
		if dateIdx >= len(row) || castIdx >= len(row) {
			continue
		}
		dateCell := strings.TrimSpace(row[dateIdx])
		castCell := row[castIdx]
		if dateCell == "" && strings.TrimSpace(castCell) == "" {
			continue
		}
		date, err := domain.ParseDate(dateCell)
		if err != nil {
			return nil, fmt.Errorf("schedule csv: line %d: %w", line, err)
		}
		for _, raw := range strings.Split(castCell, ",") {
			name := domain.NormalizeCastName(raw)
			if name == "" {
				continue
			}
			rec := domain.ShootingRecord{Member: name, Date: date}
			if seen[rec] {
				continue
			}
			seen[rec] = true
			out = append(out, rec)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Member != b.Member {
			return a.Member < b.Member
		}
		return a.Date.Before(b.Date)
	})
	return out, nil
}
