// Package validation checks configuration structs and reports failures as
// INVALID_ARGUMENT errors from the errors package.
//
// Struct tag validation uses go-playground/validator and names fields by
// their mapstructure keys:
//
//	type PipelineConfig struct {
//	    Take   int    `mapstructure:"take" validate:"min=-1"`
//	    Filter string `mapstructure:"filter" validate:"regexp"`
//	}
//	err := validation.Validate(cfg)
//
// Rules that span fields are collected programmatically:
//
//	v := validation.New()
//	v.Custom(cfg.Batch == 0 || cfg.Window == 0, "pipeline.window", "cannot be combined with batch")
//	err := v.Validate()
package validation
