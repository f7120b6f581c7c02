package record

import (
	"strings"
	"time"
)

// Vaccine - прививка. Date - календарный день, зона не применяется.
type Vaccine struct {
	ID     int64  `json:"id,omitempty"`
	BabyID int64  `json:"babyId"`
	Type   string `json:"type"`
	Date   string `json:"date"`
	Synced bool   `json:"synced"`
}

func (v *Vaccine) Collection() Collection { return Vaccines }
func (v *Vaccine) RecordID() int64 { return v.ID }
func (v *Vaccine) ProfileID() int64 { return v.BabyID }
func (v *Vaccine) EventTime(loc *time.Location) time.Time { return dayStart(v.Date, loc) }
func (v *Vaccine) Day(_ *time.Location) string { return v.Date }
func (v *Vaccine) Kind() string { return v.Type }
func (v *Vaccine) IsSynced() bool { return v.Synced }

func (v *Vaccine) Validate() error {
	if err := validateBaby(v.BabyID); err != nil {
		return err
	}
	if strings.TrimSpace(v.Type) == "" {
		return invalid("vaccine type is required")
	}
	return validateDay("date", v.Date)
}

// Visit - визит к врачу
type Visit struct {
	ID       int64  `json:"id,omitempty"`
	BabyID   int64  `json:"babyId"`
	Doctor   string `json:"doctor"`
	Date     string `json:"date"`
	Notes    string `json:"notes,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
	Synced   bool   `json:"synced"`
}

func (v *Visit) Collection() Collection { return Visits }
func (v *Visit) RecordID() int64 { return v.ID }
func (v *Visit) ProfileID() int64 { return v.BabyID }
func (v *Visit) EventTime(loc *time.Location) time.Time { return dayStart(v.Date, loc) }
func (v *Visit) Day(_ *time.Location) string { return v.Date }
func (v *Visit) Kind() string { return "" }
func (v *Visit) IsSynced() bool { return v.Synced }

func (v *Visit) Validate() error {
	if err := validateBaby(v.BabyID); err != nil {
		return err
	}
	if strings.TrimSpace(v.Doctor) == "" {
		return invalid("doctor is required")
	}
	return validateDay("date", v.Date)
}

// Medication - прием лекарства
type Medication struct {
	ID     int64     `json:"id,omitempty"`
	BabyID int64     `json:"babyId"`
	Name   string    `json:"name"`
	Dose   string    `json:"dose,omitempty"`
	Notes  string    `json:"notes,omitempty"`
	At     time.Time `json:"at"`
	Synced bool      `json:"synced"`
}

func (m *Medication) Collection() Collection { return Medications }
func (m *Medication) RecordID() int64 { return m.ID }
func (m *Medication) ProfileID() int64 { return m.BabyID }
func (m *Medication) EventTime(_ *time.Location) time.Time { return m.At }
func (m *Medication) Day(loc *time.Location) string { return localDay(m.At, loc) }
func (m *Medication) Kind() string { return "" }
func (m *Medication) IsSynced() bool { return m.Synced }

func (m *Medication) Validate() error {
	if err := validateBaby(m.BabyID); err != nil {
		return err
	}
	if strings.TrimSpace(m.Name) == "" {
		return invalid("medication name is required")
	}
	return validateTime("at", m.At)
}

// Допустимый диапазон измеренной температуры тела, °C.
const (
	MinCelsius = 25.0
	MaxCelsius = 45.0
)

// Temperature - измерение температуры. Всегда хранится в градусах Цельсия.
type Temperature struct {
	ID      int64     `json:"id,omitempty"`
	BabyID  int64     `json:"babyId"`
	Celsius float64   `json:"celsius"`
	At      time.Time `json:"at"`
	Notes   string    `json:"notes,omitempty"`
	Synced  bool      `json:"synced"`
}

func (t *Temperature) Collection() Collection { return Temperatures }
func (t *Temperature) RecordID() int64 { return t.ID }
func (t *Temperature) ProfileID() int64 { return t.BabyID }
func (t *Temperature) EventTime(_ *time.Location) time.Time { return t.At }
func (t *Temperature) Day(loc *time.Location) string { return localDay(t.At, loc) }
func (t *Temperature) Kind() string { return "" }
func (t *Temperature) IsSynced() bool { return t.Synced }

func (t *Temperature) Validate() error {
	if err := validateBaby(t.BabyID); err != nil {
		return err
	}
	if t.Celsius < MinCelsius || t.Celsius > MaxCelsius {
		return invalid("temperature %.1f°C is outside %.0f..%.0f", t.Celsius, MinCelsius, MaxCelsius)
	}
	return validateTime("at", t.At)
}
