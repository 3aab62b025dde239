package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
		// Dashboard URL users land on after sign-in and sign-out.
		BaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:3000"`
	}

	Redis struct {
		Host     string `env:"REDIS_HOST" envDefault:"localhost"`
		Port     int    `env:"REDIS_PORT" envDefault:"6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Discord struct {
		BotToken   string        `env:"DISCORD_BOT_TOKEN,required"`
		GuildID    string        `env:"DISCORD_GUILD_ID,required"`
		AdminIDs   []string      `env:"ADMIN_IDS" envSeparator:","`
		APITimeout time.Duration `env:"DISCORD_API_TIMEOUT" envDefault:"10s"`
		// Color given to managed roles created during bootstrap (purple).
		RoleColor int `env:"DISCORD_ROLE_COLOR" envDefault:"10181046"`
	}

	OAuth struct {
		ClientID     string        `env:"DISCORD_CLIENT_ID"`
		ClientSecret string        `env:"DISCORD_CLIENT_SECRET"`
		RedirectURL  string        `env:"DISCORD_REDIRECT_URL" envDefault:"http://localhost:8080/api/v1/auth/callback"`
		StateTTL     time.Duration `env:"OAUTH_STATE_TTL" envDefault:"10m"`
	}

	Session struct {
		Secret       string        `env:"SESSION_SECRET"`
		TTL          time.Duration `env:"SESSION_TTL" envDefault:"168h"`
		CookieSecure bool          `env:"SESSION_COOKIE_SECURE" envDefault:"false"`
	}

	Chain struct {
		RPCURL      string        `env:"CHAIN_RPC_URL" envDefault:"https://testnet-rpc.monad.xyz"`
		NFTContract string        `env:"NFT_CONTRACT_ADDRESS" envDefault:"0xfa28a33f198dc84454881fbb14c9d69dea97efdb"`
		Timeout     time.Duration `env:"CHAIN_TIMEOUT" envDefault:"8s"`
	}

	Sync struct {
		Interval     time.Duration `env:"SYNC_INTERVAL" envDefault:"1h"`
		RunOnStart   bool          `env:"SYNC_RUN_ON_START" envDefault:"true"`
		MaxAttempts  int           `env:"SYNC_MAX_ATTEMPTS" envDefault:"3"`
		BaseDelay    time.Duration `env:"SYNC_BASE_DELAY" envDefault:"1s"`
		RoleCheckTTL time.Duration `env:"ROLE_CHECK_TTL" envDefault:"1h"`
		RefreshChain bool          `env:"SYNC_REFRESH_CHAIN" envDefault:"true"`
	}

	Events struct {
		Stream   string `env:"EVENTS_STREAM" envDefault:"roles:events"`
		Group    string `env:"EVENTS_GROUP" envDefault:"role_sync_bot"`
		Consumer string `env:"EVENTS_CONSUMER" envDefault:"bot_1"`
	}
}

// Load reads an optional .env file and then the process environment.
// Missing required Discord credentials are reported as an error.
func Load() (*Config, error) {
	// The .env file is optional; production sets variables directly.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if _, err := snowflake.Parse(cfg.Discord.GuildID); err != nil {
		return nil, fmt.Errorf("invalid DISCORD_GUILD_ID: %w", err)
	}
	return cfg, nil
}

// ValidateWeb checks the settings only the web API needs.
func (c *Config) ValidateWeb() error {
	var errs []error
	if c.OAuth.ClientID == "" {
		errs = append(errs, errors.New("DISCORD_CLIENT_ID is required"))
	}
	if c.OAuth.ClientSecret == "" {
		errs = append(errs, errors.New("DISCORD_CLIENT_SECRET is required"))
	}
	if len(c.Session.Secret) < 32 {
		errs = append(errs, errors.New("SESSION_SECRET must be at least 32 characters"))
	}
	return errors.Join(errs...)
}

// ValidateBot checks the settings the role sync bot needs.
func (c *Config) ValidateBot() error {
	var errs []error
	if c.Sync.MaxAttempts < 1 {
		errs = append(errs, errors.New("SYNC_MAX_ATTEMPTS must be at least 1"))
	}
	if c.Sync.Interval <= 0 {
		errs = append(errs, errors.New("SYNC_INTERVAL must be positive"))
	}
	if c.Events.Stream == "" || c.Events.Group == "" {
		errs = append(errs, errors.New("EVENTS_STREAM and EVENTS_GROUP are required"))
	}
	return errors.Join(errs...)
}

func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// GuildSnowflake returns the parsed guild id. Load has already validated it.
func (c *Config) GuildSnowflake() snowflake.ID {
	id, _ := snowflake.Parse(c.Discord.GuildID)
	return id
}
