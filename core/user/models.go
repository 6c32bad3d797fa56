package user

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ieee-its/nightslip/core"
)

// User is one row of the master roster, independent of any tracked date.
// Emails identify users: matching is always case-insensitive.
type User struct {
	ID    int    `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	RegNo string `json:"reg_no" db:"reg_no"`
	Email string `json:"email" db:"email"`
}

func (u User) EmailMatches(email string) bool {
	return strings.EqualFold(strings.TrimSpace(u.Email), strings.TrimSpace(email))
}

// NewUser is one roster row in a bulk insert-or-update request.
type NewUser struct {
	Name  string `json:"name" validate:"required"`
	RegNo string `json:"reg_no"`
	Email string `json:"email" validate:"required,email"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.RegNo = core.CleanString(nu.RegNo)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return validate.Struct(nu)
}

// Editable roster fields for the admin single-field PATCH.
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldRegNo = "reg_no"
)

// UpdateUserField is an admin edit of a single roster field.
type UpdateUserField struct {
	Field string `json:"field" validate:"required,oneof=name email reg_no"`
	Value string `json:"value"`
}

func (uf *UpdateUserField) Validate(validate *validator.Validate) error {
	uf.Field = core.CleanString(uf.Field, true /* lower */)
	if uf.Field == FieldEmail {
		uf.Value = core.CleanString(uf.Value, true /* lower */)
	} else {
		uf.Value = core.CleanString(uf.Value)
	}
	if err := validate.Struct(uf); err != nil {
		return err
	}
	switch uf.Field {
	case FieldName:
		if uf.Value == "" {
			return core.NewValidationError(nil, core.FieldError{Field: "value", Error: "name cannot be empty"})
		}
	case FieldEmail:
		if err := validate.Var(uf.Value, "required,email"); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "value", Error: "must be a valid email address"})
		}
	}
	return nil
}

// Apply sets the edited field on usr.
func (uf UpdateUserField) Apply(usr User) User {
	switch uf.Field {
	case FieldName:
		usr.Name = uf.Value
	case FieldEmail:
		usr.Email = uf.Value
	case FieldRegNo:
		usr.RegNo = uf.Value
	}
	return usr
}
