package window

import "time"

func NextWeek(anchor time.Time) time.Time { return anchor.AddDate(0, 0, 7) }

func PrevWeek(anchor time.Time) time.Time { return anchor.AddDate(0, 0, -7) }

// ShiftMonth moves a (year, monthIndex) pair by delta months, carrying into
// the year so that monthIndex stays within 0-11.
func ShiftMonth(year, monthIndex, delta int) (int, int) {
	total := year*12 + monthIndex + delta
	y, m := total/12, total%12
	if m < 0 {
		m += 12
		y--
	}
	return y, m
}

// MonthOf returns the (year, monthIndex) pair containing t.
func MonthOf(t time.Time) (int, int) {
	return t.Year(), int(t.Month()) - 1
}

var monthNames = [12]string{
	"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// MonthName is the Spanish month title used by the calendar headers.
func MonthName(monthIndex int) string {
	m := monthIndex % 12
	if m < 0 {
		m += 12
	}
	return monthNames[m]
}

var weekdayNames = [7]string{"Domingo", "Lunes", "Martes", "Miércoles", "Jueves", "Viernes", "Sábado"}

func WeekdayName(d time.Weekday) string { return weekdayNames[d] }

// WeekdayShort is the three letter column label, e.g. "Lun".
func WeekdayShort(d time.Weekday) string {
	r := []rune(weekdayNames[d])
	return string(r[:3])
}

// MondayFirst lists weekdays in grid column order.
var MondayFirst = [7]time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday, time.Sunday,
}
