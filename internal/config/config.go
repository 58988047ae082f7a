package config

import (
	"strings"
	"time"

	"github.com/lexikon-app/lexikon/params"
	"github.com/spf13/viper"
)

const (
	DefaultListenAddr = ":3000"
	DefaultCookieName = "session"
)

type MySQLConfig struct {
	Dsn             string `mapstructure:"dsn"`
	ReplicaDsn      string `mapstructure:"replicaDsn"`
	TablePrefix     string `mapstructure:"tablePrefix"`
	MaxIdleConns    int    `mapstructure:"maxIdleConns"`
	MaxOpenConns    int    `mapstructure:"maxOpenConns"`
	ConnMaxIdleTime int    `mapstructure:"connMaxIdleTime"`
	ConnMaxLifetime int    `mapstructure:"connMaxLifetime"`
}

type SessionConfig struct {
	MaxAge       time.Duration `mapstructure:"maxAge"`
	CookieName   string        `mapstructure:"cookieName"`
	CookieSecure bool          `mapstructure:"cookieSecure"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	TLS      bool   `mapstructure:"tls"`
	CertFile string `mapstructure:"certFile"`
	KeyFile  string `mapstructure:"keyFile"`
	CAFile   string `mapstructure:"caFile"`
}

type MailConfig struct {
	Backend string     `mapstructure:"backend"`
	From    string     `mapstructure:"from"`
	SMTP    SMTPConfig `mapstructure:"smtp"`
}

type RedisConfig struct {
	URL         string `mapstructure:"url"`
	PoolSize    int    `mapstructure:"poolSize"`
	ClusterMode bool   `mapstructure:"clusterMode"`
}

type StoreConfig struct {
	Backend string      `mapstructure:"backend"` // "redis" or "memory"
	Redis   RedisConfig `mapstructure:"redis"`
}

type Config struct {
	Debug        bool          `mapstructure:"debug"`
	SiteName     string        `mapstructure:"siteName"`
	BaseURL      string        `mapstructure:"baseURL"`
	ListenAddr   string        `mapstructure:"listenAddr"`
	TemplateDir  string        `mapstructure:"templateDir"`
	AllowOrigins []string      `mapstructure:"allowOrigins"`
	Session      SessionConfig `mapstructure:"session"`
	Mail         MailConfig    `mapstructure:"mail"`
	MySQL        MySQLConfig   `mapstructure:"mysql"`
	Store        StoreConfig   `mapstructure:"store"`
}

func (c *Config) Sanitize() error {
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.Session.MaxAge == 0 {
		c.Session.MaxAge = params.DefaultSessionExpiration
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = DefaultCookieName
	}
	if c.Store.Backend == "" {
		c.Store.Backend = "memory"
	}
	return nil
}

func LoadConfig(filename string) (*Config, error) {
	viper.SetConfigFile(filename)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
