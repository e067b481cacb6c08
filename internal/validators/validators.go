package validators

import (
	"regexp"
	"strings"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func IsEmailValid(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

var phoneRe = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// IsPhoneValid accepts international numbers, ignoring common separators.
func IsPhoneValid(phone string) bool {
	cleaned := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(phone)
	return phoneRe.MatchString(cleaned)
}
