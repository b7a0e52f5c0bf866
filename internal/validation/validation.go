package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const deliveryDateLayout = "2006-01-02"

var phonePattern = regexp.MustCompile(`^[\d\s\-\+\(\)]+$`)

// FieldError describes a single rejected form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when a form fails client-side checks. It blocks
// submission; nothing is sent to the API.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for a field, if that field was rejected.
func (e *ValidationError) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == name {
			return f.Message, true
		}
	}
	return "", false
}

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			return IsPhone(fl.Field().String())
		})
	})
	return validate
}

// Validate checks v against its `validate` struct tags.
func Validate(v interface{}) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}

	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Обязательное поле"
	case "email":
		return "Некорректный email"
	case "phone":
		return "Некорректный номер телефона"
	case "min":
		return "Слишком мало значений"
	default:
		return "Некорректное значение"
	}
}

func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// MinDeliveryDate is the earliest date an order can be delivered: tomorrow.
func MinDeliveryDate(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, now.Location())
}

// DeliveryDate parses a "YYYY-MM-DD" input and rejects dates before tomorrow.
func DeliveryDate(input string, now time.Time) (time.Time, error) {
	t, err := time.ParseInLocation(deliveryDateLayout, strings.TrimSpace(input), now.Location())
	if err != nil {
		return time.Time{}, &ValidationError{Fields: []FieldError{{
			Field:   "delivery_date",
			Message: "Некорректная дата",
		}}}
	}
	if t.Before(MinDeliveryDate(now)) {
		return time.Time{}, &ValidationError{Fields: []FieldError{{
			Field:   "delivery_date",
			Message: "Дата доставки не может быть раньше " + MinDeliveryDate(now).Format(deliveryDateLayout),
		}}}
	}
	return t, nil
}

// Merge folds several validation failures into one; non-validation errors
// are returned unchanged.
func Merge(errs ...error) error {
	var out *ValidationError
	for _, err := range errs {
		if err == nil {
			continue
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		if out == nil {
			out = &ValidationError{}
		}
		out.Fields = append(out.Fields, verr.Fields...)
	}
	if out == nil {
		return nil
	}
	return out
}
