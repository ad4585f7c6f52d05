package config

import (
	"ngc-lower/packages/compiler/render3/view"
)

// DefaultInlineInterpolationLimit is the largest interpolation lowered to
// interpolation<N> by default
const DefaultInlineInterpolationLimit = 8

// CompilerConfig represents the compiler configuration
type CompilerConfig struct {
	// TemplateName is the component name used for the template function
	// names, e.g. `AppCmp_Template`
	TemplateName string `yaml:"template_name"`

	InlineInterpolationLimit int  `yaml:"inline_interpolation_limit"`
	UseVariadicInterpolation bool `yaml:"use_variadic_interpolation"`

	// PreserveWhitespaces keeps whitespace-only text nodes of fixtures
	PreserveWhitespaces bool `yaml:"preserve_whitespaces"`

	// ViewQueryFunction emits view queries as a standalone function
	ViewQueryFunction bool `yaml:"view_query_function"`
}

// NewCompilerConfig creates a new CompilerConfig with optional parameters
func NewCompilerConfig(opts ...CompilerConfigOption) *CompilerConfig {
	config := &CompilerConfig{
		InlineInterpolationLimit: DefaultInlineInterpolationLimit,
		PreserveWhitespaces:      PreserveWhitespacesDefault(nil, false),
	}

	for _, opt := range opts {
		opt(config)
	}

	return config
}

// CompilerConfigOption is a function that modifies CompilerConfig
type CompilerConfigOption func(*CompilerConfig)

// WithTemplateName sets the component name
func WithTemplateName(name string) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.TemplateName = name
	}
}

// WithInlineInterpolationLimit sets the largest interpolation lowered to
// interpolation<N>
func WithInlineInterpolationLimit(limit int) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.InlineInterpolationLimit = limit
	}
}

// WithUseVariadicInterpolation lowers every interpolation to interpolationV
func WithUseVariadicInterpolation(variadic bool) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.UseVariadicInterpolation = variadic
	}
}

// WithPreserveWhitespaces sets whether to preserve whitespaces
func WithPreserveWhitespaces(preserve bool) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.PreserveWhitespaces = preserve
	}
}

// WithViewQueryFunction sets whether view queries get a function of their own
func WithViewQueryFunction(standalone bool) CompilerConfigOption {
	return func(c *CompilerConfig) {
		c.ViewQueryFunction = standalone
	}
}

// PreserveWhitespacesDefault returns the default value for preserveWhitespaces
func PreserveWhitespacesDefault(preserveWhitespacesOption *bool, defaultSetting bool) bool {
	if preserveWhitespacesOption == nil {
		return defaultSetting
	}
	return *preserveWhitespacesOption
}

// TemplateMetadata returns the template compilation settings of the config.
// Directives, pipes and queries are left to the caller.
func (c *CompilerConfig) TemplateMetadata() view.TemplateMetadata {
	return view.TemplateMetadata{
		Name:                     c.TemplateName,
		InlineInterpolationLimit: c.InlineInterpolationLimit,
		VariadicInterpolation:    c.UseVariadicInterpolation,
		ViewQueryFunction:        c.ViewQueryFunction,
	}
}
