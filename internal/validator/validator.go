package validator

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	v    *validator.Validate
	once sync.Once
)

// NewValidator returns the shared validator instance
func NewValidator() *validator.Validate {
	once.Do(func() {
		v = validator.New()
	})
	return v
}

// ValidateRequest validates a request struct using its validate tags
func ValidateRequest(req interface{}) error {
	return NewValidator().Struct(req)
}
