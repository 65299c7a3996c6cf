package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8080",
		},
		Database: DatabaseConfig{
			Host:   "localhost",
			User:   "test",
			DBName: "test",
		},
		Twitter: TwitterConfig{
			ClientID:     "cid",
			ClientSecret: "csecret",
			RefreshToken: "rtoken",
			BotUserID:    "42",
			BotUsername:  "tweetmint",
		},
		LLM: LLMConfig{
			Provider:     "openai",
			OpenAIAPIKey: "sk-test",
		},
		Minter: MinterConfig{
			BaseURL:         "https://api.pump.fun",
			WalletSecretKey: "secret",
		},
		Scheduler: SchedulerConfig{
			IntervalMinutes: 2,
			DailyReplyMax:   10,
		},
	}
}

func TestConfigValidation(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	invalid := &Config{
		Server: ServerConfig{Port: ""},
	}
	assert.Error(t, invalid.Validate())
}

func TestConfigValidationRejectsMissingLLMKey(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.OpenAIAPIKey = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.LLM.Provider = "gemini"
	assert.Error(t, cfg.Validate())

	cfg.LLM.GeminiAPIKey = "g-test"
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidationRejectsUnknownProvider(t *testing.T) {
	cfg := validConfig()
	cfg.LLM.Provider = "llama"
	assert.Error(t, cfg.Validate())
}

func TestConfigValidationRejectsZeroBudget(t *testing.T) {
	cfg := validConfig()
	cfg.Scheduler.DailyReplyMax = 0
	assert.Error(t, cfg.Validate())
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     3306,
		User:     "testuser",
		Password: "testpass",
		DBName:   "testdb",
	}

	dsn := cfg.GetDSN()
	expected := "testuser:testpass@tcp(localhost:3306)/testdb?charset=utf8mb4&parseTime=True&loc=Local"
	assert.Equal(t, expected, dsn)
}
