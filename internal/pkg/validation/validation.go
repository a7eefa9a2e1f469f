package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const DateLayout = "2006-01-02"

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Register installs the custom binding tags used by request DTOs:
//
//	clock    24h "HH:MM"
//	isodate  "YYYY-MM-DD" or an RFC 3339 timestamp
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		return IsClock(fl.Field().String())
	}); err != nil {
		return fmt.Errorf("register clock validator: %w", err)
	}
	if err := v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseISODate(fl.Field().String())
		return err == nil
	}); err != nil {
		return fmt.Errorf("register isodate validator: %w", err)
	}
	return nil
}

// IsClock reports whether s is a 24h "HH:MM" clock time.
func IsClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ParseISODate parses "YYYY-MM-DD" or an RFC 3339 timestamp and returns
// midnight UTC of the calendar date it names.
func ParseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
