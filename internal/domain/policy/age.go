package policy

import "time"

// Age returns the age in whole years on the reference date.
func Age(birthDate, reference time.Time) int {
	age := reference.Year() - birthDate.Year()

	// birthday not reached yet this year
	if reference.Month() < birthDate.Month() ||
		(reference.Month() == birthDate.Month() && reference.Day() < birthDate.Day()) {
		age--
	}
	return age
}

// IsMature reports whether someone born on birthDate is strictly older than
// minAge on the reference date. Being exactly minAge is not enough.
// A missing birth date is never mature.
func IsMature(birthDate *time.Time, reference time.Time, minAge int) bool {
	if birthDate == nil {
		return false
	}
	return Age(*birthDate, reference) > minAge
}

// MeetsAccountMinimum reports whether someone is old enough to open an account.
// Unlike IsMature the threshold is inclusive.
func MeetsAccountMinimum(birthDate time.Time, reference time.Time, accountMinAge int) bool {
	return Age(birthDate, reference) >= accountMinAge
}
