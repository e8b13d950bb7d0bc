// Package inputval validates decoded request bodies with struct tags.
//
//	type createInput struct {
//		Name  string `validate:"required,max=200" label:"Name"`
//		Phone string `validate:"required,phone" label:"Phone number"`
//	}
//	if res := inputval.Validate(in); res.HasErrors() {
//		respond.BadRequest(w, res.First())
//	}
package inputval

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/agribizboost/agriadmin/internal/app/system/normalize"
	"github.com/agribizboost/agriadmin/internal/domain/dto"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			_, err := normalize.Phone(fl.Field().String())
			return err == nil
		})
		_ = v.RegisterValidation("permissions", func(fl validator.FieldLevel) bool {
			f := fl.Field()
			if f.Kind() == reflect.Ptr {
				if f.IsNil() {
					return true
				}
				f = f.Elem()
			}
			if f.Kind() != reflect.Slice {
				return false
			}
			for i := 0; i < f.Len(); i++ {
				if !IsKnownPermission(f.Index(i).String()) {
					return false
				}
			}
			return true
		})
		_ = v.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return IsValidObjectID(fl.Field().String())
		})
		validate = v
	})
	return validate
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string
	Message string
}

// Result collects every failed rule in field order.
type Result struct {
	Errors []FieldError
}

func (r *Result) HasErrors() bool { return r != nil && len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if !r.HasErrors() {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	if !r.HasErrors() {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Validate checks v's validate tags. v must be a struct or pointer to one.
func Validate(v any) *Result {
	res := &Result{}
	err := instance().Struct(v)
	if err == nil {
		return res
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		res.Errors = append(res.Errors, FieldError{Message: err.Error()})
		return res
	}
	for _, fe := range verrs {
		res.Errors = append(res.Errors, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s.", label, fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s.", label, fe.Param())
	case "phone":
		return "A valid phone number is required."
	case "permissions":
		return label + " contains an unknown permission."
	case "objectid":
		return label + " must be a valid ID."
	default:
		return label + " is invalid."
	}
}

// IsValidObjectID reports whether s (trimmed) is a 24-character hex id.
func IsValidObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// IsKnownPermission reports whether p names a permission.
func IsKnownPermission(p string) bool {
	for _, known := range dto.AllPermissions {
		if p == known {
			return true
		}
	}
	return false
}
