package ingest

import (
	"strings"
	"time"
)

var spanishWeekdays = map[string]time.Weekday{
	"lunes":     time.Monday,
	"martes":    time.Tuesday,
	"miércoles": time.Wednesday,
	"miercoles": time.Wednesday,
	"jueves":    time.Thursday,
	"viernes":   time.Friday,
	"sábado":    time.Saturday,
	"sabado":    time.Saturday,
	"domingo":   time.Sunday,
}

// ParseWeekday reads a Spanish weekday name such as "Miércoles".
func ParseWeekday(name string) (time.Weekday, bool) {
	d, ok := spanishWeekdays[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}
