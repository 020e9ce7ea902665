package planner

import (
	"testing"
	"time"

	"github.com/castcall/travel-planner-api/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAnnotateGaps_FirstRecordHasZeroGap(t *testing.T) {
	t.Parallel()

	got := AnnotateGaps([]domain.ShootingRecord{
		{Member: "Jane Doe", Date: date(2026, 3, 10)},
	})
	if len(got) != 1 {
		t.Fatalf("len=%d, want 1", len(got))
	}
	if got[0].PrevDate != nil || got[0].GapDays != 0 || got[0].WeekendDaysInGap != 0 {
		t.Fatalf("first record = %+v, want gap 0 and no previous date", got[0])
	}
}

func TestAnnotateGaps_SameDateClampsToZero(t *testing.T) {
	t.Parallel()

	d := date(2026, 3, 10)
	got := AnnotateGaps([]domain.ShootingRecord{
		{Member: "Jane Doe", Date: d},
		{Member: "Jane Doe", Date: d},
	})
	if len(got) != 2 {
		t.Fatalf("len=%d, want 2", len(got))
	}
	if got[1].GapDays != 0 {
		t.Fatalf("gap=%d, want 0 (never negative)", got[1].GapDays)
	}
}

func TestAnnotateGaps_ConsecutiveDaysHaveZeroGap(t *testing.T) {
	t.Parallel()

	got := AnnotateGaps([]domain.ShootingRecord{
		{Member: "Jane Doe", Date: date(2026, 3, 10)},
		{Member: "Jane Doe", Date: date(2026, 3, 11)},
	})
	if got[1].GapDays != 0 {
		t.Fatalf("gap=%d, want 0 for consecutive days", got[1].GapDays)
	}
}

func TestAnnotateGaps_CountsDaysStrictlyBetween(t *testing.T) {
	t.Parallel()

	// Thu 01.01.2026 -> Wed 07.01.2026: five days strictly between.
	got := AnnotateGaps([]domain.ShootingRecord{
		{Member: "Jane Doe", Date: date(2026, 1, 1)},
		{Member: "Jane Doe", Date: date(2026, 1, 7)},
	})
	if got[1].GapDays != 5 {
		t.Fatalf("gap=%d, want 5", got[1].GapDays)
	}
	// The gap spans Sat 03.01 and Sun 04.01.
	if got[1].WeekendDaysInGap != 2 {
		t.Fatalf("weekendDays=%d, want 2", got[1].WeekendDaysInGap)
	}
}

func TestAnnotateGaps_OneSaturdayOneSundayInGap(t *testing.T) {
	t.Parallel()

	// Fri 02.01.2026 -> Mon 05.01.2026: exactly Sat+Sun in between.
	got := AnnotateGaps([]domain.ShootingRecord{
		{Member: "Jane Doe", Date: date(2026, 1, 2)},
		{Member: "Jane Doe", Date: date(2026, 1, 5)},
	})
	if got[1].WeekendDaysInGap != 2 {
		t.Fatalf("weekendDays=%d, want 2", got[1].WeekendDaysInGap)
	}
	if got[1].GapDays != 2 {
		t.Fatalf("gap=%d, want 2", got[1].GapDays)
	}
}

func TestAnnotateGaps_GroupsPerMemberAndSorts(t *testing.T) {
	t.Parallel()

	got := AnnotateGaps([]domain.ShootingRecord{
		{Member: "Bob", Date: date(2026, 2, 5)},
		{Member: "Alice", Date: date(2026, 2, 10)},
		{Member: "Alice", Date: date(2026, 2, 1)},
	})
	if len(got) != 3 {
		t.Fatalf("len=%d, want 3", len(got))
	}
	if got[0].Member != "Alice" || !got[0].Date.Equal(date(2026, 2, 1)) {
		t.Fatalf("got[0]=%+v, want Alice 01.02", got[0])
	}
	// Alice's second date gets a gap relative to her own schedule, not Bob's.
	if got[1].Member != "Alice" || got[1].GapDays != 8 {
		t.Fatalf("got[1]=%+v, want Alice gap 8", got[1])
	}
	if got[2].Member != "Bob" || got[2].GapDays != 0 {
		t.Fatalf("got[2]=%+v, want Bob gap 0", got[2])
	}
}
