package httpserver

import (
	"github.com/go-playground/validator/v10"
)

type RequestValidator struct {
	validate *validator.Validate
}

func NewValidator() *RequestValidator {
	return &RequestValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

func (v *RequestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
