// Package validation holds the input schemas for the repositories. Schemas
// are the `validate` struct tags on the domain input types; this package
// normalises inputs, runs the tags and turns failures into field-keyed
// validation errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/lensfolio/internal/domain"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var (
	engineOnce sync.Once
	engine     *validator.Validate
)

func validate() *validator.Validate {
	engineOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return field.Name
			}
			return name
		})
		mustRegister(v, "slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
		mustRegister(v, "gallery_category", func(fl validator.FieldLevel) bool {
			return domain.GalleryCategory(fl.Field().String()).Valid()
		})
		mustRegister(v, "inquiry_type", func(fl validator.FieldLevel) bool {
			return domain.InquiryType(fl.Field().String()).Valid()
		})
		mustRegister(v, "inquiry_status", func(fl validator.FieldLevel) bool {
			return domain.InquiryStatus(fl.Field().String()).Valid()
		})
		engine = v
	})
	return engine
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

// Struct runs the schema tags of input. It returns nil when input is valid.
func Struct(input any) *domain.Error {
	err := validate().Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domain.NewValidationError(err.Error(), nil)
	}

	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = message(fe)
	}
	return domain.NewValidationError("", fields)
}

// Slug checks a bare slug value, as used by lookups and availability checks.
func Slug(slug string) *domain.Error {
	if !slugPattern.MatchString(slug) {
		return domain.NewValidationError("", map[string]string{"slug": message(nil)})
	}
	return nil
}

func message(fe validator.FieldError) string {
	if fe == nil {
		return "must contain only lowercase letters, digits and single hyphens"
	}
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "slug":
		return "must contain only lowercase letters, digits and single hyphens"
	case "gallery_category":
		return "must be one of: " + joinValues(domain.GalleryCategories)
	case "inquiry_type":
		return "must be one of: " + joinValues(domain.InquiryTypes)
	case "inquiry_status":
		return "must be one of: " + joinValues(domain.InquiryStatuses)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return "is invalid"
	}
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
