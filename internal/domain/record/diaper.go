package record

import (
	"time"
)

type DiaperType string

const (
	DiaperWet   DiaperType = "wet"
	DiaperDirty DiaperType = "dirty"
	DiaperMixed DiaperType = "mixed"
)

// Diaper - смена подгузника
type Diaper struct {
	ID       int64      `json:"id,omitempty"`
	BabyID   int64      `json:"babyId"`
	Type     DiaperType `json:"type"`
	Notes    string     `json:"notes,omitempty"`
	PhotoURL string     `json:"photoUrl,omitempty"`
	At       time.Time  `json:"at"`
	Synced   bool       `json:"synced"`
}

func (d *Diaper) Collection() Collection { return Diapers }
func (d *Diaper) RecordID() int64 { return d.ID }
func (d *Diaper) ProfileID() int64 { return d.BabyID }
func (d *Diaper) EventTime(_ *time.Location) time.Time { return d.At }
func (d *Diaper) Day(loc *time.Location) string { return localDay(d.At, loc) }
func (d *Diaper) Kind() string { return string(d.Type) }
func (d *Diaper) IsSynced() bool { return d.Synced }

func (d *Diaper) Validate() error {
	if err := validateBaby(d.BabyID); err != nil {
		return err
	}
	switch d.Type {
	case DiaperWet, DiaperDirty, DiaperMixed:
	default:
		return invalid("unknown diaper type %q", string(d.Type))
	}
	return validateTime("at", d.At)
}
