package dateutil

import (
	"time"
)

// Age calculates the age at a given date
func Age(birthDate, atDate time.Time) int {
	age := atDate.Year() - birthDate.Year()
	if atDate.Month() < birthDate.Month() ||
		(atDate.Month() == birthDate.Month() && atDate.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// BirthdayAt returns the date on which a person born on birthDate turns age.
// A February 29 birthday falls on March 1 in common years.
func BirthdayAt(birthDate time.Time, age int) time.Time {
	return birthDate.AddDate(age, 0, 0)
}

// CalendarYearAtAge returns the calendar year in which a person turns age.
func CalendarYearAtAge(birthDate time.Time, age int) int {
	return birthDate.Year() + age
}
