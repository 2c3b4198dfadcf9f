package attendance

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/phoenixdev100/tap/core"
)

var (
	attStatusTag  = "attstatus"
	attStatusText = "invalid attendance status"
)

// InitValidators registers attendance-specific validators and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(attStatusTag, attStatusValidation)
	core.RegisterCustomTranslation(validate, translator, attStatusTag, attStatusText)
}

func attStatusValidation(fl validator.FieldLevel) bool {
	status := fl.Field().String()
	for _, s := range AllStatuses {
		if status == s {
			return true
		}
	}
	return false
}
