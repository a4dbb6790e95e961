package nexus

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// ConfigError represents domain-specific configuration errors
type ConfigError struct {
	Code    string
	Message string
	Field   string
	Cause   error
}

func (e ConfigError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Field != "" {
		msg += fmt.Sprintf(" (field: %s)", e.Field)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e ConfigError) Unwrap() error {
	return e.Cause
}

const (
	ErrCodeInvalidType   = "CONFIG_INVALID_TYPE"
	ErrCodeFileRead      = "CONFIG_FILE_READ_FAILED"
	ErrCodeValidation    = "CONFIG_VALIDATION_FAILED"
	ErrCodeEnvironment   = "CONFIG_ENV_READ_FAILED"
	ErrCodeMerge         = "CONFIG_MERGE_FAILED"
	ErrCodeSecurityCheck = "CONFIG_SECURITY_CHECK_FAILED"
)

// Validator handles configuration validation
type Validator interface {
	Validate(ctx context.Context, cfg interface{}) error
}

// SecurityChecker performs security validation on configuration
type SecurityChecker interface {
	CheckSecurity(ctx context.Context, cfg interface{}) error
}

// LoaderOptions contains configuration for the loader
type LoaderOptions struct {
	FileName        string
	OnlyEnvironment bool
	Overrides       interface{}
	Validator       Validator
	SecurityChecker SecurityChecker
	Timeout         time.Duration
}

// Loader fills a config struct from an optional file and the environment.
type Loader struct {
	options LoaderOptions
}

// LoaderOption is a functional option for configuring the loader
type LoaderOption func(*LoaderOptions)

// WithFileName reads the named file (yaml, json, toml or .env) before the environment.
// A missing file is skipped.
func WithFileName(fileName string) LoaderOption {
	return func(o *LoaderOptions) {
		o.FileName = fileName
		o.OnlyEnvironment = false
	}
}

// WithOnlyEnvironment configures loader to only read from environment
func WithOnlyEnvironment() LoaderOption {
	return func(o *LoaderOptions) {
		o.OnlyEnvironment = true
		o.FileName = ""
	}
}

// WithOverrides merges the non-zero fields of v over the loaded config.
// v must be a pointer to the same struct type passed to Load.
func WithOverrides(v interface{}) LoaderOption {
	return func(o *LoaderOptions) {
		o.Overrides = v
	}
}

// WithValidator sets a custom validator
func WithValidator(v Validator) LoaderOption {
	return func(o *LoaderOptions) {
		o.Validator = v
	}
}

// WithSecurityChecker sets a custom security checker
func WithSecurityChecker(sc SecurityChecker) LoaderOption {
	return func(o *LoaderOptions) {
		o.SecurityChecker = sc
	}
}

// WithTimeout sets the timeout for loading operations
func WithTimeout(timeout time.Duration) LoaderOption {
	return func(o *LoaderOptions) {
		o.Timeout = timeout
	}
}

// NewLoader creates a new configuration loader with options
func NewLoader(opts ...LoaderOption) *Loader {
	options := LoaderOptions{
		Validator: &DefaultValidator{},
		Timeout:   10 * time.Second,
	}

	for _, opt := range opts {
		opt(&options)
	}

	return &Loader{options: options}
}

// Load loads configuration from all configured sources
func (l *Loader) Load(cfg interface{}) error {
	return l.LoadWithContext(context.Background(), cfg)
}

// LoadWithContext loads configuration with context support
func (l *Loader) LoadWithContext(ctx context.Context, cfg interface{}) error {
	if l.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.options.Timeout)
		defer cancel()
	}

	if err := validateInputType(cfg); err != nil {
		return err
	}

	if err := l.read(cfg); err != nil {
		return err
	}

	if l.options.Overrides != nil {
		if err := mergo.Merge(cfg, l.options.Overrides, mergo.WithOverride); err != nil {
			return &ConfigError{Code: ErrCodeMerge, Message: "failed to merge overrides", Cause: err}
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if l.options.SecurityChecker != nil {
		if err := l.options.SecurityChecker.CheckSecurity(ctx, cfg); err != nil {
			return &ConfigError{Code: ErrCodeSecurityCheck, Message: "security validation failed", Cause: err}
		}
	}

	if l.options.Validator != nil {
		if err := l.options.Validator.Validate(ctx, cfg); err != nil {
			return &ConfigError{Code: ErrCodeValidation, Message: "configuration validation failed", Cause: err}
		}
	}

	return nil
}

func validateInputType(cfg interface{}) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return &ConfigError{
			Code:    ErrCodeInvalidType,
			Message: fmt.Sprintf("configuration must be a pointer to struct, got %T", cfg),
		}
	}
	return nil
}

// read fills cfg from the file, if any, then the environment. cleanenv applies
// env-default tags and lets environment variables win over file values.
func (l *Loader) read(cfg interface{}) error {
	if !l.options.OnlyEnvironment && l.options.FileName != "" {
		if _, err := os.Stat(l.options.FileName); err == nil {
			if err := cleanenv.ReadConfig(l.options.FileName, cfg); err != nil {
				return &ConfigError{
					Code:    ErrCodeFileRead,
					Message: "failed to read configuration file",
					Field:   l.options.FileName,
					Cause:   err,
				}
			}
			return nil
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return &ConfigError{Code: ErrCodeEnvironment, Message: "failed to read environment variables", Cause: err}
	}
	return nil
}

// DefaultValidator implements basic validation using go-playground/validator
type DefaultValidator struct {
	validator *validator.Validate
}

func (v *DefaultValidator) Validate(_ context.Context, cfg interface{}) error {
	if v.validator == nil {
		v.validator = validator.New(validator.WithRequiredStructEnabled())
	}
	return v.validator.Struct(cfg)
}

// WeakSecretChecker rejects well-known placeholder values in fields whose
// names look like secrets. Nested structs are walked.
type WeakSecretChecker struct {
	Weak []string
}

// NewWeakSecretChecker returns a checker with a default placeholder list.
func NewWeakSecretChecker() *WeakSecretChecker {
	return &WeakSecretChecker{Weak: []string{"password", "postgres", "123456", "changeme", "secret"}}
}

func (sc *WeakSecretChecker) CheckSecurity(_ context.Context, cfg interface{}) error {
	return sc.walk(reflect.ValueOf(cfg).Elem(), "")
}

func (sc *WeakSecretChecker) walk(val reflect.Value, prefix string) error {
	typ := val.Type()
	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := prefix + sf.Name

		switch field.Kind() {
		case reflect.Struct:
			if err := sc.walk(field, name+"."); err != nil {
				return err
			}
		case reflect.String:
			if isSensitiveField(sf.Name) && sc.isWeak(field.String()) {
				return fmt.Errorf("sensitive field %s holds a placeholder value", name)
			}
		}
	}
	return nil
}

func isSensitiveField(fieldName string) bool {
	lower := strings.ToLower(fieldName)
	for _, s := range []string{"password", "secret", "token", "credential"} {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func (sc *WeakSecretChecker) isWeak(value string) bool {
	lower := strings.ToLower(value)
	for _, w := range sc.Weak {
		if lower == w {
			return true
		}
	}
	return false
}
