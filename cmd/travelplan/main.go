package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/castcall/travel-planner-api/internal/adapters/export/billing"
	"github.com/castcall/travel-planner-api/internal/adapters/export/icalendar"
	"github.com/castcall/travel-planner-api/internal/adapters/ingest/schedulecsv"
	"github.com/castcall/travel-planner-api/internal/app/planner"
	"github.com/castcall/travel-planner-api/internal/domain"
	"github.com/castcall/travel-planner-api/internal/platform/config"
)

// travelplan runs one offline planning pass: schedule CSV + plan YAML in,
// summary on stdout, billing CSV and iCalendar files in the output directory.
func main() {
	schedulePath := flag.String("schedule", "", "path to the schedule CSV (SHOOTING DATE + CAST columns)")
	planPath := flag.String("plan", "", "path to the plan YAML")
	outDir := flag.String("out", ".", "output directory for billing CSV and calendar files")
	perMember := flag.Bool("per-member", false, "also write one calendar file per cast member")
	flag.Parse()

	if *schedulePath == "" || *planPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	pf, err := config.LoadPlanFile(*planPath)
	if err != nil {
		log.Fatalf("%v", err)
	}

	f, err := os.Open(*schedulePath)
	if err != nil {
		log.Fatalf("open schedule: %v", err)
	}
	records, err := schedulecsv.Read(f)
	f.Close()
	if err != nil {
		log.Fatalf("%v", err)
	}

	settings := make(map[string]domain.CastSetting, len(pf.Cast))
	for _, cs := range pf.Cast {
		settings[cs.Member] = cs
	}
	// Members in the schedule without an explicit plan entry are included
	// with the default home location.
	for _, rec := range records {
		if _, ok := settings[rec.Member]; !ok {
			settings[rec.Member] = domain.CastSetting{
				Member:       rec.Member,
				Include:      true,
				HomeLocation: domain.HomeLocationLocal,
			}
		}
	}

	plan, err := planner.BuildPlan(records, planner.Parameters{
		MaxGapDays:         pf.MaxGapDays,
		SendHomeOnWeekends: pf.SendHomeOnWeekends,
		ArrivalPolicy:      pf.ArrivalPolicy,
		DeparturePolicy:    pf.DeparturePolicy,
		CastSettings:       settings,
		Periods:            pf.Periods,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	for _, d := range plan.Diagnostics {
		log.Printf("warning: %s", d)
	}
	if plan.Empty() {
		fmt.Println("no included cast members with shooting dates; nothing to plan")
		return
	}

	printSummary(plan)

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}

	billingPath := filepath.Join(*outDir, "billing.csv")
	bf, err := os.Create(billingPath)
	if err != nil {
		log.Fatalf("create %s: %v", billingPath, err)
	}
	rates := billing.DefaultRates(plan.ExportRecords)
	lines := billing.Lines(plan.ExportRecords, rates, pf.MaxGapDays)
	err = billing.WriteCSV(bf, rates, lines)
	if cerr := bf.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		log.Fatalf("write %s: %v", billingPath, err)
	}
	fmt.Printf("wrote %s (%d line items)\n", billingPath, len(lines))

	stamp := time.Now().UTC()
	calendarPath := filepath.Join(*outDir, "calendar.ics")
	cal := icalendar.Calendar(plan.CalendarEvents, stamp)
	if err := os.WriteFile(calendarPath, []byte(cal.Serialize()), 0o644); err != nil {
		log.Fatalf("write %s: %v", calendarPath, err)
	}
	fmt.Printf("wrote %s (%d events)\n", calendarPath, len(plan.CalendarEvents))

	if *perMember {
		for member, mcal := range icalendar.PerMember(plan.CalendarEvents, stamp) {
			p := filepath.Join(*outDir, "calendar-"+fileSlug(member)+".ics")
			if err := os.WriteFile(p, []byte(mcal.Serialize()), 0o644); err != nil {
				log.Fatalf("write %s: %v", p, err)
			}
			fmt.Printf("wrote %s\n", p)
		}
	}
}

func printSummary(plan domain.Plan) {
	fmt.Println("Member\tHome\tTravel Days\tAccommodation Nights")
	for _, s := range plan.Summaries {
		fmt.Printf("%s\t%s\t%d\t%d\n", s.Member, s.HomeLocation, s.TravelDays, s.AccommodationNights)
	}
}

func fileSlug(s string) string {
	s = strings.ToLower(s)
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('-')
		}
	}
	return strings.Trim(sb.String(), "-")
}
