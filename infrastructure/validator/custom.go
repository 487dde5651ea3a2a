package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var clockRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
var timeRangeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d - ([01]\d|2[0-3]):[0-5]\d$`)
var matricRegex = regexp.MustCompile(`^[A-Za-z0-9/\-]{4,20}$`)

// 24h wall-clock value, "HH:mm"
func validateClock(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(fl.Field().String())
}

// "HH:mm - HH:mm". The end may be earlier than the start when the range
// crosses midnight so no ordering is enforced here.
func validateTimeRange(fl validator.FieldLevel) bool {
	return timeRangeRegex.MatchString(fl.Field().String())
}

func validateMatricNumber(fl validator.FieldLevel) bool {
	return matricRegex.MatchString(fl.Field().String())
}
