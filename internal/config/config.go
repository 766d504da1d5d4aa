package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	BotToken      string        `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	TimezoneDBKey string        `envconfig:"TIMEZONEDB_API_KEY" required:"true"`
	WeatherAPIKey string        `envconfig:"WEATHERAPI_API_KEY" required:"true"`
	GeminiAPIKey  string        `envconfig:"GEMINI_API_KEY"` // empty disables narration; generic text is used
	DBPath        string        `envconfig:"DB_PATH" default:"./data/weather_bot.db"`
	DefaultTZ     string        `envconfig:"DEFAULT_TZ" default:"Europe/Kyiv"`
	SpeechLang    string        `envconfig:"SPEECH_LANG" default:"uk"` // empty disables voice messages
	WeatherLang   string        `envconfig:"WEATHER_LANG" default:"uk"`
	LogLevel      string        `envconfig:"LOG_LEVEL" default:"info"` // debug|info|warn|error
	HTTPAddr      string        `envconfig:"HTTP_ADDR" default:":8080"`
	ClientTimeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s"`
}

// Load reads environment variables into Config.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
