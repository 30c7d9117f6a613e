package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Configuration struct {
	// Name of the server, shown on the web pages.
	Name  string
	Https bool
	// Hostname is the name by which other servers know this one; it is the part of a userid after the '@'.
	Hostname string
	// Url is the server's base url. Actor, inbox and entry IRIs are built from it.
	Url  *url.URL
	Port uint16
	// DbUrl is the connection string of the main SQLite database.
	DbUrl string
	// QueueDbUrl is the connection string of the database used by the federation task queue.
	QueueDbUrl       string
	MigrationsFolder string
	// StaticDir holds the stylesheet and other files served under /static/.
	StaticDir string
	// Debug, if true, will make the application log all HTTP requests and other events.
	Debug bool
	// RegistrationOpen specifies whether anyone may create an account through the API and the web pages.
	RegistrationOpen bool
	// RsaKeySize specifies the size of the RSA keys used to sign outgoing activities.
	RsaKeySize int
	SessionKey string
	// RedisURL enables bearer tokens. When empty, only HTTP Basic authentication is accepted by the API.
	RedisURL string
	TokenTTL time.Duration
	// MeiliURL enables the full text index. Without it, text queries are answered with SQL substring matching.
	MeiliURL    string
	MeiliKey    string
	PageSize    int
	MaxPageSize int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("name", "wididit")
	v.SetDefault("hostname", "localhost")
	v.SetDefault("https", false)
	v.SetDefault("port", 8080)
	v.SetDefault("db_url", "file:wididit.db?_foreign_keys=1&_busy_timeout=5000")
	v.SetDefault("queue_db_url", "file:queue.db?_journal=WAL&_busy_timeout=5000")
	v.SetDefault("migrations_folder", "migrations")
	v.SetDefault("static_dir", "static")
	v.SetDefault("debug", false)
	v.SetDefault("registration_open", true)
	v.SetDefault("rsa_key_size", 2048)
	v.SetDefault("token_ttl", 30*24*time.Hour)
	v.SetDefault("page_size", DefaultPageSize)
	v.SetDefault("max_page_size", MaxPageSize)
}

// ReadConfig loads wididit.yaml, from the working directory or /etc/wididit, and lets WIDIDIT_* environment
// variables override any of its keys. A missing file is not an error.
func ReadConfig() (Configuration, error) {
	v := viper.New()
	v.SetConfigName("wididit")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/wididit")
	v.SetEnvPrefix("wididit")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Configuration{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return FromViper(v)
}

func FromViper(v *viper.Viper) (cfg Configuration, err error) {
	cfg = Configuration{
		Name:             v.GetString("name"),
		Https:            v.GetBool("https"),
		Hostname:         strings.ToLower(strings.TrimSpace(v.GetString("hostname"))),
		Port:             uint16(v.GetUint("port")),
		DbUrl:            v.GetString("db_url"),
		QueueDbUrl:       v.GetString("queue_db_url"),
		MigrationsFolder: v.GetString("migrations_folder"),
		StaticDir:        v.GetString("static_dir"),
		Debug:            v.GetBool("debug"),
		RegistrationOpen: v.GetBool("registration_open"),
		RsaKeySize:       v.GetInt("rsa_key_size"),
		SessionKey:       v.GetString("session_key"),
		RedisURL:         v.GetString("redis_url"),
		TokenTTL:         v.GetDuration("token_ttl"),
		MeiliURL:         v.GetString("meili_url"),
		MeiliKey:         v.GetString("meili_key"),
		PageSize:         v.GetInt("page_size"),
		MaxPageSize:      v.GetInt("max_page_size"),
	}

	if cfg.Hostname == "" {
		return cfg, errors.New("hostname must not be empty")
	}

	raw := v.GetString("url")
	if raw == "" {
		scheme := "http"
		if cfg.Https {
			scheme = "https"
		}
		raw = scheme + "://" + cfg.Hostname
	}

	if cfg.Url, err = url.Parse(raw); err != nil {
		return cfg, fmt.Errorf("invalid url %q: %w", raw, err)
	}

	if len(cfg.SessionKey) != 0 && len(cfg.SessionKey) != 32 {
		return cfg, errors.New("session_key must be exactly 32 bytes long")
	}

	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxPageSize < cfg.PageSize {
		cfg.MaxPageSize = cfg.PageSize
	}
	return cfg, nil
}

// Limit clamps a requested page size to the configured bounds.
func (c *Configuration) Limit(requested int) int {
	size, maxSize := c.PageSize, c.MaxPageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	if maxSize < size {
		maxSize = max(size, MaxPageSize)
	}

	switch {
	case requested <= 0:
		return size
	case requested > maxSize:
		return maxSize
	default:
		return requested
	}
}
