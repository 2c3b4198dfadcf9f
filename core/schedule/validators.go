package schedule

import (
	"regexp"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/phoenixdev100/tap/core"
)

var (
	dayOfWeekTag  = "dayofweek"
	dayOfWeekText = "invalid day of week"

	timeHHMMTag   = "timehhmm"
	timeHHMMText  = "time must be in HH:MM format"
	timeHHMMRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

// InitValidators registers schedule-specific validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(dayOfWeekTag, dayOfWeekValidation)
	core.RegisterCustomTranslation(validate, translator, dayOfWeekTag, dayOfWeekText)

	_ = validate.RegisterValidation(timeHHMMTag, timeHHMMValidation)
	core.RegisterCustomTranslation(validate, translator, timeHHMMTag, timeHHMMText)
}

func dayOfWeekValidation(fl validator.FieldLevel) bool {
	day := fl.Field().String()
	for _, d := range Weekdays {
		if day == d {
			return true
		}
	}
	return false
}

func timeHHMMValidation(fl validator.FieldLevel) bool {
	return timeHHMMRegex.MatchString(fl.Field().String())
}
