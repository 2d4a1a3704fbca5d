package serverutils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest validates a DTO against its validate tags. The error
// handler middleware turns validator errors into 400 responses.
func ValidateRequest(s interface{}) error {
	return validate.Struct(s)
}
