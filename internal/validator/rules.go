package validator

import (
	"log"
	"time"

	"github.com/go-playground/validator/v10"

	"catalogadmin/internal/model"
)

func registerRules(v *Validator) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.validate.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("register validation tag %q: %v", tag, err)
		}
	}

	// role: value must be a known model.Role.
	mustRegister("role", func(fl validator.FieldLevel) bool {
		return model.Role(fl.Field().String()).Valid()
	})

	// filled: when present the value must not be empty.
	mustRegister("filled", func(fl validator.FieldLevel) bool {
		return !fl.Field().IsZero()
	})

	// calendar_date: a YYYY-MM-DD date. Blank means no date.
	mustRegister("calendar_date", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := ParseDate(s)
		return err == nil
	})

	// today_or_later: a YYYY-MM-DD date not before the current day. Blank passes.
	mustRegister("today_or_later", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		d, err := ParseDate(s)
		if err != nil {
			return false
		}
		now := v.now()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return !d.Before(today)
	})
}

// ParseDate parses a calendar date in DateLayout as a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
