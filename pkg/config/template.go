package config

// Default returns the configuration encoded in DefaultTemplate. It is the
// effective configuration when no config file is supplied.
func Default() *Config {
	cfg, err := ParseYAML([]byte(DefaultTemplate))
	if err != nil {
		// The template is a compile-time constant; failing to parse it is a
		// programming error.
		panic(err)
	}
	return cfg
}

// DefaultTemplate is the starter configuration written by "fllint init".
const DefaultTemplate = `# fllint configuration
# Rule settings are a bare severity ("off", "warning", "error" or 0/1/2)
# or a list of [severity, options...].
allow_inline_config: true

rules:
  duplicated-modifiers: error
  unknown-preprocessor-directives: error
  if-closed: error
  single-selector: warning
  excluded-same-domain: error
  no-short-rules:
    - warning
    - minLength: 4
`
