package config

import (
	"flag"
	"regexp"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseDSN string `env:"DATABASE_URI"`
	AuthSecret  string `env:"AUTH_SECRET"`
	BaseURL     string `env:"BASE_URL"`
	EnableHTTPS bool   `env:"ENABLE_HTTPS"`

	// Параметры защиты от перебора пароля
	MaxLoginAttempts   int `env:"MAX_LOGIN_ATTEMPTS" envDefault:"5"`
	LoginTimeout       int `env:"LOGIN_TIMEOUT" envDefault:"300"`      // окно подсчёта, секунды
	BlacklistThreshold int `env:"BLACKLIST_THRESHOLD" envDefault:"10"` // неудач до чёрного списка
	BlacklistDuration  int `env:"BLACKLIST_DURATION" envDefault:"3600"`
}

func NewConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{}
	_ = env.Parse(cfg)

	// flags работают ТОЛЬКО если переменные из env не заданы
	flag.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "строка подключения к БД")
	flag.StringVar(&cfg.AuthSecret, "auth-secret", cfg.AuthSecret, "секрет для подписи auth-cookie")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "адрес сервера в виде host:port")
	flag.BoolVar(&cfg.EnableHTTPS, "https", cfg.EnableHTTPS, "включить HTTPS (Secure на auth-cookie)")
	flag.IntVar(&cfg.MaxLoginAttempts, "max-login-attempts", cfg.MaxLoginAttempts, "порог дросселирования входа")
	flag.IntVar(&cfg.LoginTimeout, "login-timeout", cfg.LoginTimeout, "окно подсчёта неудачных попыток, сек")
	flag.IntVar(&cfg.BlacklistThreshold, "blacklist-threshold", cfg.BlacklistThreshold, "порог попадания в чёрный список")
	flag.IntVar(&cfg.BlacklistDuration, "blacklist-duration", cfg.BlacklistDuration, "срок действия чёрного списка, сек")

	flag.Parse()

	// Defaults
	if cfg.AuthSecret == "" {
		cfg.AuthSecret = "dev-secret-key"
	}
	// validate BaseURL: must be in "address:port" (no scheme, no path). Otherwise use default.
	hostPortRe := regexp.MustCompile(`^[A-Za-z0-9\.\-]+:\d{1,5}$`)
	if !hostPortRe.MatchString(cfg.BaseURL) {
		cfg.BaseURL = "localhost:8080"
	}

	return cfg
}
