package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/castcall/travel-planner-api/internal/domain"
)

// PlanFile is the offline planning configuration the CLI reads alongside a
// schedule CSV: the knobs a production coordinator would otherwise set in the
// API, in one YAML document.
type PlanFile struct {
	MaxGapDays         int
	SendHomeOnWeekends bool
	ArrivalPolicy      domain.ArrivalPolicy
	DeparturePolicy    domain.DeparturePolicy

	HomeLocations []string
	Cast          []domain.CastSetting
	Periods       []domain.ShootingPeriod
}

type planFileYAML struct {
	MaxGapDays         int    `yaml:"maxGapDays"`
	SendHomeOnWeekends bool   `yaml:"sendHomeOnWeekends"`
	ArrivalPolicy      string `yaml:"arrivalPolicy"`
	DeparturePolicy    string `yaml:"departurePolicy"`

	HomeLocations []string `yaml:"homeLocations"`

	Cast []struct {
		Member       string `yaml:"member"`
		Include      *bool  `yaml:"include"`
		HomeLocation string `yaml:"homeLocation"`
	} `yaml:"cast"`

	Periods []struct {
		Name     string `yaml:"name"`
		Location string `yaml:"location"`
		Start    string `yaml:"start"`
		End      string `yaml:"end"`
	} `yaml:"periods"`
}

// LoadPlanFile reads and validates a plan YAML file. Dates use DD.MM.YYYY.
// Omitted cast include flags default to true; omitted cast home locations
// default to "Local"; omitted policies default to day-before arrival and
// day-after departure.
func LoadPlanFile(path string) (PlanFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return PlanFile{}, fmt.Errorf("read plan file: %w", err)
	}
	return parsePlanFile(raw)
}

func parsePlanFile(raw []byte) (PlanFile, error) {
	var y planFileYAML
	if err := yaml.Unmarshal(raw, &y); err != nil {
		return PlanFile{}, fmt.Errorf("parse plan file: %w", err)
	}

	out := PlanFile{
		MaxGapDays:         y.MaxGapDays,
		SendHomeOnWeekends: y.SendHomeOnWeekends,
		ArrivalPolicy:      domain.ArrivalPolicy(y.ArrivalPolicy),
		DeparturePolicy:    domain.DeparturePolicy(y.DeparturePolicy),
		HomeLocations:      y.HomeLocations,
	}
	if out.MaxGapDays < 0 {
		return PlanFile{}, fmt.Errorf("plan file: maxGapDays must not be negative")
	}
	if out.ArrivalPolicy == "" {
		out.ArrivalPolicy = domain.ArrivalDayBefore
	}
	if out.DeparturePolicy == "" {
		out.DeparturePolicy = domain.DepartureDayAfter
	}
	if len(out.HomeLocations) == 0 {
		out.HomeLocations = domain.DefaultHomeLocations()
	}

	for i, c := range y.Cast {
		member := domain.NormalizeHumanName(c.Member)
		if member == "" {
			return PlanFile{}, fmt.Errorf("plan file: cast[%d]: member must be non-empty", i)
		}
		include := true
		if c.Include != nil {
			include = *c.Include
		}
		home := c.HomeLocation
		if home == "" {
			home = domain.HomeLocationLocal
		}
		out.Cast = append(out.Cast, domain.CastSetting{
			Member:       member,
			Include:      include,
			HomeLocation: home,
		})
	}

	for i, p := range y.Periods {
		start, err := domain.ParseDate(p.Start)
		if err != nil {
			return PlanFile{}, fmt.Errorf("plan file: periods[%d].start: %w", i, err)
		}
		end, err := domain.ParseDate(p.End)
		if err != nil {
			return PlanFile{}, fmt.Errorf("plan file: periods[%d].end: %w", i, err)
		}
		if end.Before(start) {
			return PlanFile{}, fmt.Errorf("plan file: periods[%d]: end %s precedes start %s", i, p.End, p.Start)
		}
		out.Periods = append(out.Periods, domain.ShootingPeriod{
			Name:     domain.NormalizeHumanName(p.Name),
			Location: p.Location,
			Start:    start,
			End:      end,
		})
	}

	return out, nil
}
