package utils

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/truemail-rb/truemail-go"
)

// Validator bundles struct validation, input sanitization and MX-level email checks.
type Validator struct {
	Validate    *validator.Validate
	VerifyEmail func(email string) bool
}

var instance *Validator
var once sync.Once
var configuration *truemail.Configuration
var sanitizePolicy = bluemonday.StrictPolicy()

var dueTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// GetValidator returns the process-wide validator instance.
func GetValidator() *Validator {
	once.Do(func() {
		configuration, _ = truemail.NewConfiguration(truemail.ConfigurationAttr{
			VerifierEmail:         "noreply@work-planner.app",
			ValidationTypeDefault: "mx",
			SmtpFailFast:          true,
		})

		instance = &Validator{
			Validate:    validator.New(validator.WithRequiredStructEnabled()),
			VerifyEmail: verifyEmail,
		}

		registerCustomValidators(instance.Validate)
	})

	return instance
}

// SanitizeData strips HTML from every exported string field of the given
// struct pointer and trims surrounding whitespace, mirroring what the
// original UI-facing layer did before persisting user input.
func (v *Validator) SanitizeData(obj interface{}) error {
	value := reflect.ValueOf(obj)
	if value.Kind() != reflect.Ptr || value.Elem().Kind() != reflect.Struct {
		return nil
	}

	value = value.Elem()
	for i := 0; i < value.NumField(); i++ {
		field := value.Field(i)
		if !field.CanSet() {
			continue
		}

		switch field.Kind() {
		case reflect.String:
			field.SetString(strings.TrimSpace(sanitizePolicy.Sanitize(field.String())))
		case reflect.Ptr:
			if field.Elem().Kind() == reflect.String {
				sanitized := strings.TrimSpace(sanitizePolicy.Sanitize(field.Elem().String()))
				field.Elem().SetString(sanitized)
			}
		}
	}

	return nil
}

func verifyEmail(email string) bool {
	return truemail.IsValid(email, configuration)
}

func registerCustomValidators(v *validator.Validate) {
	err := v.RegisterValidation("due_time_validation", dueTimeValidation)
	if err != nil {
		return
	}

	err = v.RegisterValidation("due_date_validation", dueDateValidation)
	if err != nil {
		return
	}
}

func dueTimeValidation(fl validator.FieldLevel) bool {
	return dueTimePattern.MatchString(fl.Field().String())
}

func dueDateValidation(fl validator.FieldLevel) bool {
	_, err := ParseDueDate(fl.Field().String(), "")
	return err == nil
}
