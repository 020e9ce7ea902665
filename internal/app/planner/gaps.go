package planner

import (
	"sort"
	"time"

	"github.com/castcall/travel-planner-api/internal/domain"
)

// AnnotateGaps groups records by member, sorts each member's dates ascending,
// and annotates every record with the gap since that member's previous
// shooting date. The gap counts calendar days strictly between the two dates:
// consecutive days gap 0, and two records on the same date clamp to 0 rather
// than going negative. The first record of each member has gap 0 by
// definition. Records come back sorted by (member, date).
func AnnotateGaps(records []domain.ShootingRecord) []domain.GapRecord {
	byMember := make(map[string][]time.Time)
	order := make([]string, 0)
	for _, r := range records {
		if _, ok := byMember[r.Member]; !ok {
			order = append(order, r.Member)
		}
		byMember[r.Member] = append(byMember[r.Member], domain.Day(r.Date))
	}
	sort.Strings(order)

	out := make([]domain.GapRecord, 0, len(records))
	for _, member := range order {
		dates := byMember[member]
		sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

		var prev *time.Time
		for _, date := range dates {
			gr := domain.GapRecord{
				ShootingRecord: domain.ShootingRecord{Member: member, Date: date},
			}
			if prev != nil {
				p := *prev
				gr.PrevDate = &p
				gr.GapDays = gapDays(p, date)
				gr.WeekendDaysInGap = weekendDaysBetween(p, date)
			}
			out = append(out, gr)
			d := date
			prev = &d
		}
	}
	return out
}

// gapDays is the number of calendar days strictly between prev and cur,
// clamped at zero.
func gapDays(prev, cur time.Time) int {
	g := domain.DaysBetween(prev, cur) - 1
	if g < 0 {
		return 0
	}
	return g
}

// weekendDaysBetween counts Saturdays and Sundays strictly between the two
// dates. Zero when the gap is empty.
func weekendDaysBetween(prev, cur time.Time) int {
	n := 0
	for d := prev.AddDate(0, 0, 1); d.Before(cur); d = d.AddDate(0, 0, 1) {
		if domain.IsWeekend(d) {
			n++
		}
	}
	return n
}
