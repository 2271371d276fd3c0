package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New()

var tanggalRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

func init() {
	// Register custom validation for calendar date strings (YYYY-MM-DD)
	validate.RegisterValidation("tanggal", func(fl validator.FieldLevel) bool {
		return tanggalRe.MatchString(fl.Field().String())
	})
}

func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}
