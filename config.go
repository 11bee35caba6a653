package console

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Duration wraps time.Duration so it can be written as "30s" in TOML/JSON
// config files.
type Duration time.Duration

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalText renders the duration in Go's duration syntax.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config consolidates all console settings.
type Config struct {
	API     APIConfig     `json:"api" toml:"api"`
	Server  ServerConfig  `json:"server" toml:"server"`
	Logging LoggingConfig `json:"logging" toml:"logging"`
	Form    FormConfig    `json:"form" toml:"form"`
}

// APIConfig describes the remote platform API the console talks to.
type APIConfig struct {
	BaseURL     string   `json:"base_url" toml:"base_url" validate:"required,url"`
	Timeout     Duration `json:"timeout" toml:"timeout"`
	TokenCookie string   `json:"token_cookie" toml:"token_cookie" validate:"required"`
}

// ServerConfig contains the console gateway listener settings.
type ServerConfig struct {
	Addr         string   `json:"addr" toml:"addr" validate:"required"`
	ReadTimeout  Duration `json:"read_timeout" toml:"read_timeout"`
	WriteTimeout Duration `json:"write_timeout" toml:"write_timeout"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `json:"level" toml:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" toml:"format" validate:"oneof=json console"`
}

// FormConfig tunes form compilation and the relation browser.
type FormConfig struct {
	RelationPageSize int `json:"relation_page_size" toml:"relation_page_size" validate:"min=1,max=100"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:     "http://localhost:8000/api",
			Timeout:     Duration(30 * time.Second),
			TokenCookie: "token",
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration(15 * time.Second),
			WriteTimeout: Duration(30 * time.Second),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Form: FormConfig{
			RelationPageSize: 20,
		},
	}
}

// Validate validates the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return NewConsoleError(ErrorTypeValidation, ErrCodeValidationFailed, "invalid configuration").WithCause(err)
	}
	return nil
}
