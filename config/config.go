package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	MySQL         MySQLConfig         `mapstructure:"mysql"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Razorpay      RazorpayConfig      `mapstructure:"razorpay"`
	Collaborators CollaboratorConfig  `mapstructure:"collaborators"`
	JWT           JWTConfig           `mapstructure:"jwt"`
	Currency      string              `mapstructure:"currency"`
}

type ServerConfig struct {
	Host         string   `mapstructure:"host"`
	Port         int      `mapstructure:"port"`
	AllowOrigins []string `mapstructure:"allow_origins"`
}

type MySQLConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type RazorpayConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	KeyID     string `mapstructure:"key_id"`
	KeySecret string `mapstructure:"key_secret"`
}

// CollaboratorConfig holds base URLs for the external services the order
// pipeline talks to. An empty URL means the collaborator is not wired and
// the corresponding step is skipped.
type CollaboratorConfig struct {
	NotifierURL string `mapstructure:"notifier_url"`
	ETAURL      string `mapstructure:"eta_url"`
	EscrowURL   string `mapstructure:"escrow_url"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// Load reads configuration from the environment (TINDORA_ prefixed, e.g.
// TINDORA_MYSQL_HOST) with sane defaults for local development.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TINDORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allow_origins", []string{"http://localhost:4200"})
	v.SetDefault("mysql.host", "127.0.0.1")
	v.SetDefault("mysql.port", 3306)
	v.SetDefault("mysql.username", "root")
	v.SetDefault("mysql.password", "")
	v.SetDefault("mysql.database", "tindora")
	v.SetDefault("mysql.max_idle_conns", 10)
	v.SetDefault("mysql.max_open_conns", 100)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("razorpay.base_url", "https://api.razorpay.com")
	v.SetDefault("razorpay.key_id", "")
	v.SetDefault("razorpay.key_secret", "")
	v.SetDefault("collaborators.notifier_url", "")
	v.SetDefault("collaborators.eta_url", "")
	v.SetDefault("collaborators.escrow_url", "")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("currency", "INR")

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func (c *MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
