package domain

import "strings"

// DigitsOnly strips everything but ASCII digits from phone.
func DigitsOnly(phone string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
}
