package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Twitter   TwitterConfig   `mapstructure:"twitter"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Minter    MinterConfig    `mapstructure:"minter"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// TwitterConfig holds the feed API credentials and bot identity
type TwitterConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	RefreshToken string `mapstructure:"refresh_token"`
	BotUserID    string `mapstructure:"bot_user_id"`
	BotUsername  string `mapstructure:"bot_username"`
}

// LLMConfig selects and configures the language-model provider
type LLMConfig struct {
	Provider     string `mapstructure:"provider"` // openai or gemini
	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	Model        string `mapstructure:"model"`
}

// MinterConfig holds the coin-creation service configuration
type MinterConfig struct {
	BaseURL         string `mapstructure:"base_url"`
	WalletSecretKey string `mapstructure:"wallet_secret_key"` // base58 ed25519 keypair
	VanityAddress   string `mapstructure:"vanity_address"`
}

// SchedulerConfig holds the polling loop configuration
type SchedulerConfig struct {
	IntervalMinutes  int `mapstructure:"interval_minutes"`
	DailyReplyMax    int `mapstructure:"daily_reply_max"`
	PageSize         int `mapstructure:"page_size"`
	FirstRunPageSize int `mapstructure:"first_run_page_size"`
}

// LoadConfig loads configuration from environment variables and config file
func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set defaults
	setDefaults()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Environment variables override config file
	viper.AutomaticEnv()

	// Bind environment variables
	bindEnvVars()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 3306)

	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.model", "")

	viper.SetDefault("minter.base_url", "https://api.pump.fun")
	viper.SetDefault("minter.vanity_address", "")

	viper.SetDefault("scheduler.interval_minutes", 2)
	viper.SetDefault("scheduler.daily_reply_max", 10)
	viper.SetDefault("scheduler.page_size", 25)
	viper.SetDefault("scheduler.first_run_page_size", 5)
}

// bindEnvVars binds environment variables to configuration keys
func bindEnvVars() {
	// Server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.read_timeout", "SERVER_READ_TIMEOUT")
	viper.BindEnv("server.write_timeout", "SERVER_WRITE_TIMEOUT")

	// Database
	viper.BindEnv("database.host", "DB_HOST")
	viper.BindEnv("database.port", "DB_PORT")
	viper.BindEnv("database.user", "DB_USER")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("database.dbname", "DB_NAME")

	// Twitter
	viper.BindEnv("twitter.client_id", "TWITTER_CLIENT_ID")
	viper.BindEnv("twitter.client_secret", "TWITTER_CLIENT_SECRET")
	viper.BindEnv("twitter.refresh_token", "TWITTER_REFRESH_TOKEN")
	viper.BindEnv("twitter.bot_user_id", "TWITTER_BOT_USER_ID")
	viper.BindEnv("twitter.bot_username", "TWITTER_BOT_USERNAME")

	// LLM
	viper.BindEnv("llm.provider", "LLM_PROVIDER")
	viper.BindEnv("llm.openai_api_key", "OPENAI_API_KEY")
	viper.BindEnv("llm.gemini_api_key", "GEMINI_API_KEY")
	viper.BindEnv("llm.model", "LLM_MODEL")

	// Minter
	viper.BindEnv("minter.base_url", "MINTER_BASE_URL")
	viper.BindEnv("minter.wallet_secret_key", "WALLET_SECRET_KEY")
	viper.BindEnv("minter.vanity_address", "MINTER_VANITY_ADDRESS")

	// Scheduler
	viper.BindEnv("scheduler.interval_minutes", "SCHEDULER_INTERVAL_MINUTES")
	viper.BindEnv("scheduler.daily_reply_max", "SCHEDULER_DAILY_REPLY_MAX")
	viper.BindEnv("scheduler.page_size", "SCHEDULER_PAGE_SIZE")
	viper.BindEnv("scheduler.first_run_page_size", "SCHEDULER_FIRST_RUN_PAGE_SIZE")
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Database.Host == "" || c.Database.User == "" || c.Database.DBName == "" {
		return fmt.Errorf("database host, user, and dbname are required")
	}

	if c.Twitter.ClientID == "" || c.Twitter.ClientSecret == "" || c.Twitter.RefreshToken == "" {
		return fmt.Errorf("twitter OAuth2 credentials are required")
	}
	if c.Twitter.BotUserID == "" || c.Twitter.BotUsername == "" {
		return fmt.Errorf("twitter bot user id and username are required")
	}

	switch c.LLM.Provider {
	case "openai":
		if c.LLM.OpenAIAPIKey == "" {
			return fmt.Errorf("openai api key is required when llm provider is openai")
		}
	case "gemini":
		if c.LLM.GeminiAPIKey == "" {
			return fmt.Errorf("gemini api key is required when llm provider is gemini")
		}
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLM.Provider)
	}

	if c.Minter.BaseURL == "" {
		return fmt.Errorf("minter base url is required")
	}
	if c.Minter.WalletSecretKey == "" {
		return fmt.Errorf("wallet secret key is required")
	}

	if c.Scheduler.IntervalMinutes <= 0 {
		return fmt.Errorf("scheduler interval must be greater than 0")
	}
	if c.Scheduler.DailyReplyMax <= 0 {
		return fmt.Errorf("daily reply max must be greater than 0")
	}

	return nil
}
