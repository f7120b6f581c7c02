package record

import (
	"strings"
	"time"
)

// DateLayout - формат календарного дня (дата рождения, прививки, визиты, фильтр по дате).
const DateLayout = "2006-01-02"

type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

// Validate проверяет систему единиц.
func (u UnitSystem) Validate() error {
	switch u {
	case Metric, Imperial:
		return nil
	}
	return invalid("unknown unit system %q", string(u))
}

// Profile - профиль ребенка, которому принадлежат все события
type Profile struct {
	ID       int64      `json:"id,omitempty"`
	Name     string     `json:"name"`
	DOB      string     `json:"dob"`
	Gender   string     `json:"gender,omitempty"`
	Units    UnitSystem `json:"units"`
	PhotoURL string     `json:"photoUrl,omitempty"`
	Synced   bool       `json:"synced"`
}

func (p *Profile) Collection() Collection {
	return Profiles
}

func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return invalid("profile name is required")
	}
	if err := validateDay("dob", p.DOB); err != nil {
		return err
	}
	return p.Units.Validate()
}

// Entry - событие, привязанное к профилю. Реализуется всеми типами
// записей, кроме Profile.
type Entry interface {
	Collection() Collection
	RecordID() int64
	ProfileID() int64
	// EventTime - основное время события; для записей с календарным днем
	// это полночь этого дня в loc.
	EventTime(loc *time.Location) time.Time
	// Day - календарный день события в loc (YYYY-MM-DD).
	Day(loc *time.Location) string
	// Kind - значение поля type, пустая строка если его нет.
	Kind() string
	IsSynced() bool
	Validate() error
}

func validateBaby(babyID int64) error {
	if babyID <= 0 {
		return invalid("babyId is required")
	}
	return nil
}

func validateTime(field string, t time.Time) error {
	if t.IsZero() {
		return invalid("%s is required", field)
	}
	return nil
}

func validateDay(field, value string) error {
	if _, err := time.Parse(DateLayout, value); err != nil {
		return invalid("%s must be a YYYY-MM-DD date, got %q", field, value)
	}
	return nil
}

func validateAmount(field string, v *float64) error {
	if v != nil && *v < 0 {
		return invalid("%s must not be negative", field)
	}
	return nil
}

func localDay(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}

func dayStart(day string, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, day, loc)
	if err != nil {
		return time.Time{}
	}
	return t
}
