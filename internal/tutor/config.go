package tutor

import "github.com/Nda25/anees/internal/quality"

// Config controls generation and retry behavior.
type Config struct {
	// MaxAttempts bounds the generation calls made for one request.
	// Repair calls made during JSON recovery are not counted.
	MaxAttempts int `yaml:"max_attempts" validate:"gte=1,lte=10"`

	// Temperature is used for the first attempt.
	Temperature float64 `yaml:"temperature" validate:"gte=0,lte=1"`

	// TemperatureStep is added for every rejected attempt, capped at 1.0.
	TemperatureStep float64 `yaml:"temperature_step" validate:"gte=0,lte=1"`

	// MaxTokens is the output budget of each generation call.
	MaxTokens int `yaml:"max_tokens" validate:"gte=64"`

	// Quality holds the acceptance thresholds.
	Quality quality.Policy `yaml:"quality"`
}

// DefaultConfig returns the standard retry policy.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:     3,
		Temperature:     0.4,
		TemperatureStep: 0.2,
		MaxTokens:       1400,
		Quality:         quality.DefaultPolicy(),
	}
}

// temperature returns the sampling temperature of attempt (1-based).
func (c Config) temperature(attempt int) float64 {
	t := c.Temperature + float64(attempt-1)*c.TemperatureStep
	if t > 1 {
		return 1
	}
	return t
}
