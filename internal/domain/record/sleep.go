package record

import (
	"time"
)

// Sleep - сон. End == nil означает, что сон еще продолжается.
type Sleep struct {
	ID     int64      `json:"id,omitempty"`
	BabyID int64      `json:"babyId"`
	Start  time.Time  `json:"start"`
	End    *time.Time `json:"end,omitempty"`
	Notes  string     `json:"notes,omitempty"`
	Synced bool       `json:"synced"`
}

func (s *Sleep) Collection() Collection { return Sleeps }
func (s *Sleep) RecordID() int64 { return s.ID }
func (s *Sleep) ProfileID() int64 { return s.BabyID }
func (s *Sleep) EventTime(_ *time.Location) time.Time { return s.Start }
func (s *Sleep) Day(loc *time.Location) string { return localDay(s.Start, loc) }
func (s *Sleep) Kind() string { return "" }
func (s *Sleep) IsSynced() bool { return s.Synced }

// Ongoing сообщает, что сон не завершен.
func (s *Sleep) Ongoing() bool {
	return s.End == nil
}

// Duration возвращает длительность сна; для незавершенного сна считается до now.
func (s *Sleep) Duration(now time.Time) time.Duration {
	end := now
	if s.End != nil {
		end = *s.End
	}
	if end.Before(s.Start) {
		return 0
	}
	return end.Sub(s.Start)
}

func (s *Sleep) Validate() error {
	if err := validateBaby(s.BabyID); err != nil {
		return err
	}
	if err := validateTime("start", s.Start); err != nil {
		return err
	}
	if s.End != nil && s.End.Before(s.Start) {
		return invalid("sleep end %s is before start %s",
			s.End.Format(time.RFC3339), s.Start.Format(time.RFC3339))
	}
	return nil
}
