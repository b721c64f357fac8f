package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/ikkim/dealer-admin-backend/internal/app/model"
)

var hhmmPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidationError carries field-level messages keyed by JSON field name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid dealer form: " + strings.Join(parts, "; ")
}

// 필드/태그별 사용자 메시지
var fieldMessages = map[string]map[string]string{
	"dealerName":  {"required": "Dealer name is required"},
	"address":     {"required": "Address is required"},
	"email":       {"required": "Email is required", "email": "Invalid email"},
	"phone":       {"required": "Phone is required"},
	"startTime":   {"required": "Start time required", "hhmm": "Start time must be HH:MM"},
	"endTime":     {"required": "End time required", "hhmm": "End time must be HH:MM"},
	"startPeriod": {"oneof": "Start period must be AM or PM"},
	"endPeriod":   {"oneof": "End period must be AM or PM"},
}

var (
	formValidator     *validator.Validate
	formValidatorOnce sync.Once
)

func dealerFormValidator() *validator.Validate {
	formValidatorOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return hhmmPattern.MatchString(fl.Field().String())
		})
		formValidator = v
	})
	return formValidator
}

// ValidateDealerForm normalizes the form and checks every field rule.
// The normalized form is returned even when validation fails.
func ValidateDealerForm(form model.DealerFormValues) (model.DealerFormValues, error) {
	form = form.Normalize()

	err := dealerFormValidator().Struct(form)
	if err == nil {
		return form, nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return form, err
	}

	verr := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		msg, ok := fieldMessages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fmt.Sprintf("%s is invalid", fe.Field())
		}
		verr.Fields[fe.Field()] = msg
	}
	return form, verr
}
