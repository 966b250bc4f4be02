package stream

import (
	"time"

	"github.com/kbukum/kafkaready/validation"
)

// Config is the `twitter_to_kafka:` block.
type Config struct {
	Keywords       []string `mapstructure:"twitter_keywords" validate:"required,min=1,dive,required"`
	WelcomeMessage string   `mapstructure:"welcome_message"`

	// EnableMockTweets turns on MockRunner.
	EnableMockTweets bool          `mapstructure:"enable_mock_tweets"`
	MockMinWords     int           `mapstructure:"mock_min_tweet_length" validate:"gte=1"`
	MockMaxWords     int           `mapstructure:"mock_max_tweet_length" validate:"gtefield=MockMinWords"`
	MockInterval     time.Duration `mapstructure:"mock_sleep" validate:"gt=0"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.MockMinWords <= 0 {
		c.MockMinWords = 5
	}
	if c.MockMaxWords <= 0 {
		c.MockMaxWords = 15
	}
	if c.MockInterval <= 0 {
		c.MockInterval = time.Second
	}
}

// Validate checks the block.
func (c *Config) Validate() error {
	return validation.Validate(c)
}
