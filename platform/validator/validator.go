// Package validator wraps go-playground struct validation behind an
// injectable type so handlers can be tested against the same rules the
// server runs.
package validator

import "github.com/go-playground/validator/v10"

// Validator checks transport structs against their validate tags.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the library's default tag set, which covers
// everything the intake DTOs declare.
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Struct validates s against its validate tags.
func (val *Validator) Struct(s interface{}) error {
	return val.v.Struct(s)
}
