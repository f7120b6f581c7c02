package record

import (
	"strings"
	"time"
)

const (
	FeedBottleFormula = "Bottle - Formula"
	FeedBottleMilk    = "Bottle - Milk"
	FeedBreastLeft    = "Breastfeeding - Left"
	FeedBreastRight   = "Breastfeeding - Right"
	FeedPuree         = "Semi-Solids / Puree"
	FeedSolid         = "Solid Food"
)

// Feed - кормление. Amount хранится в единицах Unit (ml, oz или g).
type Feed struct {
	ID     int64     `json:"id,omitempty"`
	BabyID int64     `json:"babyId"`
	Type   string    `json:"type"`
	Amount *float64  `json:"amount,omitempty"`
	Unit   string    `json:"unit,omitempty"`
	Side   string    `json:"side,omitempty"`
	At     time.Time `json:"at"`
	Notes  string    `json:"notes,omitempty"`
	Synced bool      `json:"synced"`
}

func (f *Feed) Collection() Collection { return Feeds }
func (f *Feed) RecordID() int64 { return f.ID }
func (f *Feed) ProfileID() int64 { return f.BabyID }
func (f *Feed) EventTime(_ *time.Location) time.Time { return f.At }
func (f *Feed) Day(loc *time.Location) string { return localDay(f.At, loc) }
func (f *Feed) Kind() string { return f.Type }
func (f *Feed) IsSynced() bool { return f.Synced }

func (f *Feed) Validate() error {
	if err := validateBaby(f.BabyID); err != nil {
		return err
	}
	if strings.TrimSpace(f.Type) == "" {
		return invalid("feed type is required")
	}
	if err := validateAmount("amount", f.Amount); err != nil {
		return err
	}
	switch f.Unit {
	case "", "ml", "oz", "g":
	default:
		return invalid("unknown feed unit %q", f.Unit)
	}
	switch f.Side {
	case "", "left", "right":
	default:
		return invalid("unknown feed side %q", f.Side)
	}
	return validateTime("at", f.At)
}
