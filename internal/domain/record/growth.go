package record

import (
	"time"
)

// Measurement - замер роста. Weight в килограммах, Height и Head в сантиметрах.
type Measurement struct {
	ID     int64     `json:"id,omitempty"`
	BabyID int64     `json:"babyId"`
	Weight *float64  `json:"weight,omitempty"`
	Height *float64  `json:"height,omitempty"`
	Head   *float64  `json:"head,omitempty"`
	At     time.Time `json:"at"`
	Synced bool      `json:"synced"`
}

func (g *Measurement) Collection() Collection { return Growth }
func (g *Measurement) RecordID() int64 { return g.ID }
func (g *Measurement) ProfileID() int64 { return g.BabyID }
func (g *Measurement) EventTime(_ *time.Location) time.Time { return g.At }
func (g *Measurement) Day(loc *time.Location) string { return localDay(g.At, loc) }
func (g *Measurement) Kind() string { return "" }
func (g *Measurement) IsSynced() bool { return g.Synced }

func (g *Measurement) Validate() error {
	if err := validateBaby(g.BabyID); err != nil {
		return err
	}
	if g.Weight == nil && g.Height == nil && g.Head == nil {
		return invalid("growth needs at least one of weight, height, head")
	}
	for field, v := range map[string]*float64{"weight": g.Weight, "height": g.Height, "head": g.Head} {
		if err := validateAmount(field, v); err != nil {
			return err
		}
	}
	return validateTime("at", g.At)
}

type KetoneLevel string

const (
	KetoneNegative KetoneLevel = "Negative"
	KetoneTrace    KetoneLevel = "Trace"
	KetoneSmall    KetoneLevel = "Small"
	KetoneModerate KetoneLevel = "Moderate"
	KetoneLarge    KetoneLevel = "Large"
)

// Ketone - показание тест-полоски на кетоны
type Ketone struct {
	ID     int64       `json:"id,omitempty"`
	BabyID int64       `json:"babyId"`
	Level  KetoneLevel `json:"level"`
	At     time.Time   `json:"at"`
	Synced bool        `json:"synced"`
}

func (k *Ketone) Collection() Collection { return Ketones }
func (k *Ketone) RecordID() int64 { return k.ID }
func (k *Ketone) ProfileID() int64 { return k.BabyID }
func (k *Ketone) EventTime(_ *time.Location) time.Time { return k.At }
func (k *Ketone) Day(loc *time.Location) string { return localDay(k.At, loc) }
func (k *Ketone) Kind() string { return "" }
func (k *Ketone) IsSynced() bool { return k.Synced }

func (k *Ketone) Validate() error {
	if err := validateBaby(k.BabyID); err != nil {
		return err
	}
	switch k.Level {
	case KetoneNegative, KetoneTrace, KetoneSmall, KetoneModerate, KetoneLarge:
	default:
		return invalid("unknown ketone level %q", string(k.Level))
	}
	return validateTime("at", k.At)
}
