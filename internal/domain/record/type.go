package record

import (
	"fmt"
)

// Collection - имя коллекции локального хранилища и ресурса на сервере
type Collection string

const (
	Profiles     Collection = "babies"
	Feeds        Collection = "feeds"
	Diapers      Collection = "diapers"
	Sleeps       Collection = "sleeps"
	Growth       Collection = "growth"
	Ketones      Collection = "ketones"
	Vaccines     Collection = "vaccines"
	Visits       Collection = "visits"
	Medications  Collection = "medications"
	Temperatures Collection = "temperatures"
)

// Schema описывает коллекцию: поле времени события и версию схемы,
// в которой коллекция появилась.
type Schema struct {
	Name      Collection
	TimeField string
	// DayOnly - поле времени хранит календарный день (YYYY-MM-DD) без зоны.
	DayOnly bool
	// EndField - необязательное поле окончания события.
	EndField string
	Since    uint
}

// Порядок важен: в нем же проходит цикл синхронизации.
var schemas = []Schema{
	{Name: Profiles, TimeField: "dob", DayOnly: true, Since: 1},
	{Name: Feeds, TimeField: "at", Since: 1},
	{Name: Diapers, TimeField: "at", Since: 1},
	{Name: Sleeps, TimeField: "start", EndField: "end", Since: 1},
	{Name: Growth, TimeField: "at", Since: 1},
	{Name: Ketones, TimeField: "at", Since: 1},
	{Name: Vaccines, TimeField: "date", DayOnly: true, Since: 1},
	{Name: Visits, TimeField: "date", DayOnly: true, Since: 1},
	{Name: Medications, TimeField: "at", Since: 2},
	{Name: Temperatures, TimeField: "at", Since: 2},
}

// Collections возвращает все коллекции в фиксированном порядке.
func Collections() []Collection {
	result := make([]Collection, 0, len(schemas))
	for _, s := range schemas {
		result = append(result, s.Name)
	}
	return result
}

// Lookup возвращает описание коллекции.
func Lookup(c Collection) (Schema, error) {
	for _, s := range schemas {
		if s.Name == c {
			return s, nil
		}
	}
	return Schema{}, fmt.Errorf("%w: %q", ErrUnknownCollection, string(c))
}

// Parse разбирает имя коллекции, пришедшее извне (CLI, HTTP путь).
func Parse(name string) (Collection, error) {
	c := Collection(name)
	if err := c.Validate(); err != nil {
		return "", err
	}
	return c, nil
}

// Validate проверяет, что коллекция известна.
func (c Collection) Validate() error {
	_, err := Lookup(c)
	return err
}

// String возвращает строковое представление коллекции.
func (c Collection) String() string {
	return string(c)
}

// IsProfileScoped сообщает, принадлежат ли записи коллекции профилю.
func (c Collection) IsProfileScoped() bool {
	return c != Profiles
}

// DisplayName возвращает человекочитаемое название коллекции.
func (c Collection) DisplayName() string {
	switch c {
	case Profiles:
		return "Profiles"
	case Feeds:
		return "Feeds"
	case Diapers:
		return "Diapers"
	case Sleeps:
		return "Sleep"
	case Growth:
		return "Growth"
	case Ketones:
		return "Ketones"
	case Vaccines:
		return "Vaccinations"
	case Visits:
		return "Doctor visits"
	case Medications:
		return "Medications"
	case Temperatures:
		return "Temperature"
	default:
		return "Unknown"
	}
}
