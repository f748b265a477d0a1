package config

// DefaultConfigFile is the config file looked up when --config is not given.
const DefaultConfigFile = ".apivet.yml"

// DefaultConfig returns the configuration used when no file is present.
// Values mirror the tool's documented defaults.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			ConnectTimeoutSec: 10,
			ReadTimeoutSec:    30,
			VerifySSL:         true,
			MaxRetries:        3,
		},
		Validation: ValidationConfig{
			StrictMode:     true,
			MaxConcurrency: 4,
		},
		Reporting: ReportingConfig{
			OutputDir:             "reports",
			OutputFormat:          FormatHTML,
			IncludeRequestDetails: true,
			IncludeResponseBody:   true,
			MaxResponseBodyBytes:  1024,
		},
		Server: ServerConfig{
			Port: 8467,
		},
		Explain: ExplainConfig{
			Model: "gpt-4o-mini",
		},
		DataDir: ".apivet",
	}
}
