// Package billing shapes plan results into billing line items for the
// production office. Rates are placeholders the office fills in downstream;
// the adapter's job is getting the quantities and zeroing rules right.
package billing

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/castcall/travel-planner-api/internal/domain"
)

// Rates is the per-location rate row. All rates default to zero; subtotals
// stay zero until the office prices them.
type Rates struct {
	Location            string
	Ticket              float64
	Accommodation       float64
	PerDiemShooting     float64
	PerDiemTravel       float64
	PerDiemGapDay       float64
	HourlyTravel        float64
	TravelHoursPerRoute float64
}

// LineItem is one row of the billing sheet.
type LineItem struct {
	Description string
	Amount      float64
	Unit        string
	X           int
	FourX       int
	Rate        float64
	Subtotal    float64
}

// DefaultRates builds a zero-rate table covering every location the export
// records reference, sorted by location name.
func DefaultRates(records []domain.ExportRecord) []Rates {
	seen := make(map[string]bool)
	out := make([]Rates, 0)
	for _, rec := range records {
		if !rec.RequiresTravel {
			continue
		}
		loc := locationFor(rec)
		if seen[loc] {
			continue
		}
		seen[loc] = true
		out = append(out, Rates{Location: loc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Location < out[j].Location })
	return out
}

// Lines renders billing line items for every travel period, in chronological
// order of period start. Per-diem zeroing follows the production rules: an
// arrival or departure day that is also a shooting day earns no travel per
// diem, and gap per diems apply only when 0 < gap days <= maxGapDays.
func Lines(records []domain.ExportRecord, rates []Rates, maxGapDays int) []LineItem {
	rateByLoc := make(map[string]Rates, len(rates))
	for _, r := range rates {
		rateByLoc[r.Location] = r
	}

	recs := make([]domain.ExportRecord, 0, len(records))
	for _, rec := range records {
		if rec.RequiresTravel {
			recs = append(recs, rec)
		}
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].StartDate.Before(recs[j].StartDate) })

	out := make([]LineItem, 0, len(recs)*7)
	for _, rec := range recs {
		loc := locationFor(rec)
		r := rateByLoc[loc]
		prefix := fmt.Sprintf("%s (%s, %s)", rec.Member, rec.HomeLocation, loc)

		out = append(out, line(
			fmt.Sprintf("%s travel tickets %s", prefix, rec.DateRange),
			1, "return", rec, r.Ticket,
		))
		out = append(out, line(
			fmt.Sprintf("%s accommodation %s", prefix, rec.DateRange),
			float64(rec.AccommodationNights), "nights", rec, r.Accommodation,
		))
		out = append(out, line(
			fmt.Sprintf("%s per diems shooting days %s", prefix, rec.DateRange),
			float64(rec.ShootingDays), "days", rec, r.PerDiemShooting,
		))

		arrivalAmt := 1.0
		if isShootingDay(rec, rec.StartDate) {
			arrivalAmt = 0
		}
		out = append(out, line(
			fmt.Sprintf("%s per diem travel day arrival %s", prefix, domain.FormatDate(rec.StartDate)),
			arrivalAmt, "day", rec, r.PerDiemTravel,
		))

		departureAmt := 1.0
		if isShootingDay(rec, rec.EndDate) {
			departureAmt = 0
		}
		out = append(out, line(
			fmt.Sprintf("%s per diem travel day departure %s", prefix, domain.FormatDate(rec.EndDate)),
			departureAmt, "day", rec, r.PerDiemTravel,
		))

		if rec.GapDays > 0 && rec.GapDays <= maxGapDays {
			out = append(out, line(
				fmt.Sprintf("%s per diems gap days %s", prefix, rec.DateRange),
				float64(rec.GapDays), "days", rec, r.PerDiemGapDay,
			))
		}

		out = append(out, line(
			fmt.Sprintf("%s travel hours %s", prefix, rec.DateRange),
			r.TravelHoursPerRoute, "hours", rec, r.HourlyTravel,
		))
	}
	return out
}

// WriteCSV emits the rate table, a blank separator row, and the line items.
func WriteCSV(w io.Writer, rates []Rates, lines []LineItem) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{
		"Location", "Ticket Rate", "Accommodation Rate", "Per Diem Shooting Rate",
		"Per Diem Travel Rate", "Per Diem Gap Day Rate", "Hourly Travel Rate",
		"Travel Hours per Route",
	}); err != nil {
		return err
	}
	for _, r := range rates {
		if err := cw.Write([]string{
			r.Location,
			formatRate(r.Ticket), formatRate(r.Accommodation), formatRate(r.PerDiemShooting),
			formatRate(r.PerDiemTravel), formatRate(r.PerDiemGapDay), formatRate(r.HourlyTravel),
			formatRate(r.TravelHoursPerRoute),
		}); err != nil {
			return err
		}
	}

	if err := cw.Write([]string{""}); err != nil {
		return err
	}
	if err := cw.Write([]string{"Description", "Amt", "Unit", "x", "Rate", "4x", "Subtotal"}); err != nil {
		return err
	}
	for _, l := range lines {
		if err := cw.Write([]string{
			l.Description,
			formatRate(l.Amount),
			l.Unit,
			strconv.Itoa(l.X),
			formatRate(l.Rate),
			strconv.Itoa(l.FourX),
			formatRate(l.Subtotal),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func line(description string, amount float64, unit string, rec domain.ExportRecord, rate float64) LineItem {
	return LineItem{
		Description: description,
		Amount:      amount,
		Unit:        unit,
		X:           rec.X,
		FourX:       rec.FourX,
		Rate:        rate,
		Subtotal:    amount * float64(rec.X) * rate * float64(rec.FourX),
	}
}

func isShootingDay(rec domain.ExportRecord, day time.Time) bool {
	for _, d := range rec.ShootingDates {
		if d.Equal(day) {
			return true
		}
	}
	return false
}

func locationFor(rec domain.ExportRecord) string {
	if strings.TrimSpace(rec.PeriodName) == "" {
		return domain.HomeLocationLocal
	}
	return rec.PeriodName
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
