package validation

import (
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/kafkaready/errors"
)

// structValidator is built once; validator.Validate caches per-type metadata
// and is safe for concurrent use.
var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(configKey)
	return v
})

// configKey names fields by their mapstructure key so messages match what
// the operator wrote in config.yml.
func configKey(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("mapstructure"), ",")
	if name == "" || name == "-" {
		return toSnakeCase(fld.Name)
	}
	return name
}

// Validate checks s against its `validate` struct tags and returns an
// INVALID_INPUT AppError listing every failing field.
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.Validation("validation failed: " + err.Error())
	}

	v := New()
	for _, fe := range fieldErrs {
		v.AddError(fieldPath(fe), describe(fe))
	}
	return v.Error()
}

// fieldPath drops the root struct name: "Config.retry.max_attempts" -> "retry.max_attempts".
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

type tagMessage struct {
	text      string
	withParam bool
}

var tagMessages = map[string]tagMessage{
	"required":      {"is required", false},
	"min":           {"must be at least", true},
	"max":           {"must be at most", true},
	"gt":            {"must be >", true},
	"gte":           {"must be >=", true},
	"oneof":         {"must be one of:", true},
	"url":           {"must be a valid URL", false},
	"http_url":      {"must be a valid URL", false},
	"hostname_port": {"must be host:port", false},
}

func describe(fe validator.FieldError) string {
	if fe.Tag() == "gtefield" {
		return "must be >= " + toSnakeCase(fe.Param())
	}
	m, ok := tagMessages[fe.Tag()]
	switch {
	case !ok:
		return "is invalid"
	case m.withParam:
		return m.text + " " + fe.Param()
	default:
		return m.text
	}
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
