package validators

import (
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// IsoDate checks YYYY-MM-DD dates.
func IsoDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}

// Phone accepts digits, spaces, dashes, dots, parentheses and a leading plus.
func Phone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	digits := 0
	for i, r := range value {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case strings.ContainsRune(" -.()", r):
		default:
			return false
		}
	}
	return digits >= 4
}

func NoWhiteSpaces(fl validator.FieldLevel) bool {
	return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
}

func Register(validate *validator.Validate) {
	_ = validate.RegisterValidation("isodate", IsoDate)
	_ = validate.RegisterValidation("phone", Phone)
	_ = validate.RegisterValidation("nospaces", NoWhiteSpaces)
}
