// Package validator provides a small validation abstraction for request and
// domain structs.
//
// Business code depends on the Validator interface; V10Validator is the
// go-playground/validator v10 implementation.
package validator

// Validator validates a struct according to its `validate` tags.
type Validator interface {
	Validate(data any) error
}
