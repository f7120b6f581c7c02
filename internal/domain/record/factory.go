package record

import (
	"fmt"
	"time"
)

// Validator - любая запись, умеющая проверить себя.
type Validator interface {
	Validate() error
}

// New создает пустую типизированную запись для коллекции.
func New(c Collection) (Validator, error) {
	switch c {
	case Profiles:
		return &Profile{}, nil
	case Feeds:
		return &Feed{}, nil
	case Diapers:
		return &Diaper{}, nil
	case Sleeps:
		return &Sleep{}, nil
	case Growth:
		return &Measurement{}, nil
	case Ketones:
		return &Ketone{}, nil
	case Vaccines:
		return &Vaccine{}, nil
	case Visits:
		return &Visit{}, nil
	case Medications:
		return &Medication{}, nil
	case Temperatures:
		return &Temperature{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, string(c))
	}
}

// Decode декодирует документ в запись коллекции и проверяет ее.
func Decode(c Collection, doc Document) (Validator, error) {
	v, err := New(c)
	if err != nil {
		return nil, err
	}
	if err := doc.Into(v); err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	if err := v.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", c, err)
	}
	return v, nil
}

// DecodeEntry декодирует событие профиля.
func DecodeEntry(c Collection, doc Document) (Entry, error) {
	if !c.IsProfileScoped() {
		return nil, fmt.Errorf("%w: %s is not an event collection", ErrInvalidRecord, c)
	}
	v, err := Decode(c, doc)
	if err != nil {
		return nil, err
	}
	return v.(Entry), nil
}

// DecodeProfile декодирует профиль ребенка.
func DecodeProfile(doc Document) (*Profile, error) {
	v, err := Decode(Profiles, doc)
	if err != nil {
		return nil, err
	}
	return v.(*Profile), nil
}

// Index - значения, по которым хранилище индексирует запись.
type Index struct {
	BabyID int64
	// EventAt - время события; для записей с календарным днем это
	// полночь UTC этого дня.
	EventAt time.Time
}

// Describe проверяет документ и извлекает его индексные значения.
func Describe(c Collection, doc Document) (Index, error) {
	v, err := Decode(c, doc)
	if err != nil {
		return Index{}, err
	}
	return IndexOf(v), nil
}

// IndexOf возвращает индексные значения уже декодированной записи.
func IndexOf(v Validator) Index {
	switch r := v.(type) {
	case *Profile:
		return Index{EventAt: dayStart(r.DOB, time.UTC)}
	case Entry:
		return Index{BabyID: r.ProfileID(), EventAt: r.EventTime(time.UTC)}
	default:
		return Index{}
	}
}
