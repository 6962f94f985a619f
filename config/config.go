package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	NERProse  = "prose"
	NERGoogle = "google"
	NEROpenAI = "openai"

	GeocoderNominatim = "nominatim"
	GeocoderGoogle    = "google"
)

type Config struct {
	Port            string        `mapstructure:"port"`
	AppEnv          string        `mapstructure:"app_env"`
	GinMode         string        `mapstructure:"gin_mode"`
	HTTPDebug       bool          `mapstructure:"http_debug"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	NERProvider                string `mapstructure:"ner_provider"`
	ProseModelDir              string `mapstructure:"prose_model_dir"`
	NaturalLanguageCredentials string `mapstructure:"natural_language_credentials"`
	OpenAIAPIKey               string `mapstructure:"openai_api_key"`
	OpenAIBaseURL              string `mapstructure:"openai_base_url"`
	OpenAIModel                string `mapstructure:"openai_model"`

	GeocoderProvider   string        `mapstructure:"geocoder_provider"`
	NominatimURL       string        `mapstructure:"nominatim_url"`
	NominatimUserAgent string        `mapstructure:"nominatim_user_agent"`
	NominatimRate      float64       `mapstructure:"nominatim_rate"`
	MapsCredentials    string        `mapstructure:"maps_credentials"`
	GeocodeLimit       int           `mapstructure:"geocode_limit"`
	GeocodeTimeout     time.Duration `mapstructure:"geocode_timeout"`
	GeocodeCacheTTL    time.Duration `mapstructure:"geocode_cache_ttl"`

	ImageFetchTimeout time.Duration `mapstructure:"image_fetch_timeout"`
	ImageMaxBytes     int64         `mapstructure:"image_max_bytes"`

	HealthCheckSchedule string `mapstructure:"health_check_schedule"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "5001")
	v.SetDefault("app_env", "development")
	v.SetDefault("gin_mode", "")
	v.SetDefault("http_debug", false)
	v.SetDefault("shutdown_timeout", 10*time.Second)

	v.SetDefault("ner_provider", NERProse)
	v.SetDefault("prose_model_dir", "")
	v.SetDefault("natural_language_credentials", "")
	v.SetDefault("openai_api_key", "")
	v.SetDefault("openai_base_url", "")
	v.SetDefault("openai_model", "gpt-4o-mini")

	v.SetDefault("geocoder_provider", GeocoderNominatim)
	v.SetDefault("nominatim_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("nominatim_user_agent", "geosleuth/1.0")
	v.SetDefault("nominatim_rate", 1.0)
	v.SetDefault("maps_credentials", "")
	v.SetDefault("geocode_limit", 3)
	v.SetDefault("geocode_timeout", 10*time.Second)
	v.SetDefault("geocode_cache_ttl", time.Hour)

	v.SetDefault("image_fetch_timeout", 10*time.Second)
	v.SetDefault("image_max_bytes", int64(25<<20))

	v.SetDefault("health_check_schedule", "@every 5m")
}

// Load reads .env, an optional config.yml and the environment, in increasing precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set directly.")
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AddConfigPath(".")
	v.AddConfigPath("config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the selected providers are known and have what they need.
func (c *Config) Validate() error {
	switch c.NERProvider {
	// google without NATURAL_LANGUAGE_CREDENTIALS uses Application Default Credentials
	case NERProse, NERGoogle:
	case NEROpenAI:
		if c.OpenAIAPIKey == "" && c.OpenAIBaseURL == "" {
			return errors.New("config: OPENAI_API_KEY or OPENAI_BASE_URL is required for the openai NER provider")
		}
	default:
		return fmt.Errorf("config: unknown NER_PROVIDER %q", c.NERProvider)
	}

	switch c.GeocoderProvider {
	case GeocoderNominatim:
		if c.NominatimUserAgent == "" {
			return errors.New("config: NOMINATIM_USER_AGENT must not be empty")
		}
		if c.NominatimRate <= 0 {
			return errors.New("config: NOMINATIM_RATE must be positive")
		}
	case GeocoderGoogle:
		if c.MapsCredentials == "" {
			return errors.New("config: MAPS_CREDENTIALS is required for the google geocoder")
		}
	default:
		return fmt.Errorf("config: unknown GEOCODER_PROVIDER %q", c.GeocoderProvider)
	}

	if c.GeocodeLimit < 1 || c.GeocodeLimit > 50 {
		return fmt.Errorf("config: GEOCODE_LIMIT must be between 1 and 50, got %d", c.GeocodeLimit)
	}
	if c.ImageMaxBytes <= 0 {
		return errors.New("config: IMAGE_MAX_BYTES must be positive")
	}

	return nil
}
