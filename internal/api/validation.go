package api

import (
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

var (
	hhmmPattern   = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	registerOnce  sync.Once
	containerNoRe = regexp.MustCompile(`^[A-Z]{4}[0-9]{7}$`)
)

// RegisterValidators adds the custom binding tags used by request DTOs:
// "hhmm" for 24h clock times and "cntrno" for container number shape.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return hhmmPattern.MatchString(fl.Field().String())
		})
		_ = v.RegisterValidation("cntrno", func(fl validator.FieldLevel) bool {
			return containerNoRe.MatchString(fl.Field().String())
		})
	})
}

func FormatValidationErrors(errs validator.ValidationErrors) []ValidationError {
	out := make([]ValidationError, 0, len(errs))
	for _, err := range errs {
		out = append(out, ValidationError{
			Field:   err.Field(),
			Tag:     err.Tag(),
			Message: errorMessage(err),
		})
	}
	return out
}

func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return err.Field() + " must be a valid email address"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "uuid", "uuid4":
		return err.Field() + " must be a valid UUID"
	case "hhmm":
		return err.Field() + " must be a time in HH:MM format"
	case "cntrno":
		return err.Field() + " must be a container number like ABCU1234567"
	case "gtfield":
		return err.Field() + " must be after " + err.Param()
	default:
		return err.Field() + " is invalid"
	}
}
