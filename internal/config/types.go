package config

// OutputFormat selects which report artifacts a validation run writes.
type OutputFormat string

const (
	FormatHTML OutputFormat = "html"
	FormatJSON OutputFormat = "json"
	FormatBoth OutputFormat = "both"
)

// Config is the top-level apivet configuration, corresponding to .apivet.yml.
type Config struct {
	BaseURL    string            `yaml:"base_url" koanf:"base_url"`
	Include    []string          `yaml:"include" koanf:"include"`
	Exclude    []string          `yaml:"exclude" koanf:"exclude"`
	HTTP       HTTPConfig        `yaml:"http" koanf:"http"`
	Validation ValidationConfig  `yaml:"validation" koanf:"validation"`
	Reporting  ReportingConfig   `yaml:"reporting" koanf:"reporting"`
	Server     ServerConfig      `yaml:"server" koanf:"server"`
	Explain    ExplainConfig     `yaml:"explain" koanf:"explain"`
	Headers    map[string]string `yaml:"headers" koanf:"headers"`
	DataDir    string            `yaml:"data_dir" koanf:"data_dir"`
}

// HTTPConfig controls the request driver.
type HTTPConfig struct {
	ConnectTimeoutSec int  `yaml:"connect_timeout" koanf:"connect_timeout"`
	ReadTimeoutSec    int  `yaml:"read_timeout" koanf:"read_timeout"`
	VerifySSL         bool `yaml:"verify_ssl" koanf:"verify_ssl"`
	MaxRetries        int  `yaml:"max_retries" koanf:"max_retries"`
}

// ValidationConfig controls the validation sweep.
type ValidationConfig struct {
	StrictMode     bool `yaml:"strict_mode" koanf:"strict_mode"`
	MaxConcurrency int  `yaml:"max_concurrency" koanf:"max_concurrency"`
}

// ReportingConfig controls report generation.
type ReportingConfig struct {
	OutputDir              string       `yaml:"output_dir" koanf:"output_dir"`
	OutputFormat           OutputFormat `yaml:"output_format" koanf:"output_format"`
	IncludeRequestDetails  bool         `yaml:"include_request_details" koanf:"include_request_details"`
	IncludeResponseBody    bool         `yaml:"include_response_body" koanf:"include_response_body"`
	MaxResponseBodyBytes   int          `yaml:"max_response_body_size" koanf:"max_response_body_size"`
}

// ServerConfig controls the dashboard server.
type ServerConfig struct {
	Port     int  `yaml:"port" koanf:"port"`
	AllowAll bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// ExplainConfig controls AI failure explanation.
type ExplainConfig struct {
	Model string `yaml:"model" koanf:"model"`
}
