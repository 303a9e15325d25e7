package module

import (
	"taglint/internal/platform/config"
	"taglint/internal/platform/validate"
)

// Options holds configuration settings for the lint module
type Options struct {
	Input         string `env:"TAGLINT_INPUT" validate:"required"` // path, "-" is stdin
	ClassesFile   string `env:"TAGLINT_CLASSES_FILE"`              // empty uses the embedded classes
	MetricsFile   string `env:"TAGLINT_METRICS_FILE"`              // empty disables the textfile export
	ProgressEvery int64  `env:"TAGLINT_PROGRESS_EVERY" validate:"gte=0"`
	SkipInvalid   bool   `env:"TAGLINT_SKIP_INVALID"`
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	tf := cfg.Prefix("TAGLINT_")
	return Options{
		Input:         tf.MayString("INPUT", "-"),
		ClassesFile:   tf.MayString("CLASSES_FILE", ""),
		MetricsFile:   tf.MayString("METRICS_FILE", ""),
		ProgressEvery: int64(tf.MayInt("PROGRESS_EVERY", 100000)),
		SkipInvalid:   tf.MayBool("SKIP_INVALID", false),
	}
}

// Validate checks the options
func (o Options) Validate() error { return validate.Struct(o) }
