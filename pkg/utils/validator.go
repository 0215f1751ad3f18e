package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError รายละเอียด validation หนึ่ง field
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// ValidateStruct ตรวจ struct ตาม validate tags
func ValidateStruct(s any) error {
	return validate.Struct(s)
}

// GetValidationErrors แปลง validator error เป็น details สำหรับ response
func GetValidationErrors(err error) []ValidationError {
	var details []ValidationError

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return details
	}

	for _, fieldErr := range validationErrors {
		details = append(details, ValidationError{
			Field:   lowerFirst(fieldErr.Field()),
			Tag:     fieldErr.Tag(),
			Message: validationMessage(fieldErr),
		})
	}
	return details
}

func validationMessage(fe validator.FieldError) string {
	field := lowerFirst(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return field + " must be at least " + fe.Param()
	case "max":
		return field + " must be at most " + fe.Param()
	case "oneof":
		return field + " must be one of: " + fe.Param()
	case "url":
		return field + " must be a valid URL"
	}
	return field + " is invalid"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
