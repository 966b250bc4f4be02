// Package validation checks configuration and topic specs before any
// network call is made.
//
// Struct tags are checked with the validator library; field names in the
// messages follow the mapstructure keys so they match the config file:
//
//	type Config struct {
//	    MaxAttempts int `mapstructure:"max_attempts" validate:"gte=1"`
//	}
//	err := validation.Validate(cfg) // INVALID_INPUT: max_attempts: must be >= 1
//
// Rules that do not fit a tag go through a Validator:
//
//	v := validation.New()
//	v.Required("topic_names_to_create[0]", name)
//	err := v.Error()
package validation
