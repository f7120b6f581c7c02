// Package units содержит чистые преобразования единиц измерения.
// Хранилище и выборки всегда работают в метрической системе и градусах Цельсия,
// перевод выполняется на границе с пользователем.
package units

import (
	"math"
)

const (
	kilogramsPerPound   = 0.45359237
	centimetersPerInch  = 2.54
	millilitersPerOunce = 29.5735295625
)

func CelsiusFromFahrenheit(f float64) float64 {
	return (f - 32) * 5 / 9
}

func FahrenheitFromCelsius(c float64) float64 {
	return c*9/5 + 32
}

func KilogramsFromPounds(lb float64) float64 {
	return lb * kilogramsPerPound
}

func PoundsFromKilograms(kg float64) float64 {
	return kg / kilogramsPerPound
}

func CentimetersFromInches(in float64) float64 {
	return in * centimetersPerInch
}

func InchesFromCentimeters(cm float64) float64 {
	return cm / centimetersPerInch
}

func MillilitersFromOunces(oz float64) float64 {
	return oz * millilitersPerOunce
}

func OuncesFromMilliliters(ml float64) float64 {
	return ml / millilitersPerOunce
}

// Round округляет значение до places знаков после запятой.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// ToMilliliters переводит объем кормления в миллилитры. ok == false,
// если единица не является объемом.
func ToMilliliters(amount float64, unit string) (ml float64, ok bool) {
	switch unit {
	case "", "ml":
		return amount, true
	case "oz":
		return MillilitersFromOunces(amount), true
	default:
		return 0, false
	}
}
