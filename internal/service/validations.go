package service

import (
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

func InitValidator() {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterValidation("alphanum_underscore", validIdentifier)
		validate.RegisterValidation("entry_date", validEntryDate)
	})
}

// validIdentifier accepts letters, digits and underscores, not starting
// with a digit or underscore. Usernames and custom field names end up as
// JSON keys, so the charset stays locked down.
func validIdentifier(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	for i, char := range value {
		if i == 0 && (unicode.IsDigit(char) || char == '_') {
			return false
		}
		if !unicode.IsLetter(char) && !unicode.IsDigit(char) && char != '_' {
			return false
		}
	}
	return true
}

// validEntryDate accepts the YYYY-MM-DD day form or a full RFC3339
// timestamp, same inputs NormalizeDate takes.
func validEntryDate(fl validator.FieldLevel) bool {
	_, err := NormalizeDate(fl.Field().String())
	return err == nil
}
