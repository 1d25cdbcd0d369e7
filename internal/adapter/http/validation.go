package http

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error   string       `json:"error"`
	Code    string       `json:"code,omitempty"`
	Details []FieldError `json:"details,omitempty"`
}

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// 0x-prefixed or bare 40-char hex identity
	_ = v.RegisterValidation("address", func(fl validator.FieldLevel) bool {
		return common.IsHexAddress(fl.Field().String())
	})
	// identities that must not be the zero address
	_ = v.RegisterValidation("nonzeroaddr", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return common.IsHexAddress(s) && common.HexToAddress(s) != (common.Address{})
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "address":
			out = append(out, FieldError{Field: field, Message: "must be a 20-byte hex address"})
		case "nonzeroaddr":
			out = append(out, FieldError{Field: field, Message: "must be a non-zero 20-byte hex address"})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		case "lte":
			out = append(out, FieldError{Field: field, Message: "must be less than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
