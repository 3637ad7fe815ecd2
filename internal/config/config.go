package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	SessionSecret       string
	DatabaseURL         string
	RedisURL            string
	FrontendURLEndsWith string
	DevPassword         string
	AllowCrossSiteDev   bool
	InviteBaseURL       string // base URL for invite links in emails (e.g. https://app.huddle.team)
	InviteExpiryDays    int    // invitation validity window, default 7
	BrevoAPIKey         string // transactional email (invite links, accept/decline notices)
	MailFrom            string
	GoogleClientID      string
	GoogleClientSecret  string
	GoogleRedirectURL   string // must match the OAuth console redirect (…/api/v1/auth/google/callback)
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	expiryDays := viper.GetInt("INVITE_EXPIRY_DAYS")
	if expiryDays <= 0 {
		expiryDays = 7
	}

	return &Config{
		Env:                 env,
		Port:                port,
		SessionSecret:       viper.GetString("SESSION_SECRET"),
		DatabaseURL:         viper.GetString("DATABASE_URL"),
		RedisURL:            viper.GetString("REDIS_URL"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		AllowCrossSiteDev:   strings.EqualFold(viper.GetString("ALLOW_CROSS_SITE_DEV"), "true"),
		InviteBaseURL:       inviteBaseURL(viper.GetString("INVITE_BASE_URL")),
		InviteExpiryDays:    expiryDays,
		BrevoAPIKey:         viper.GetString("BREVO_API_KEY"),
		MailFrom:            viper.GetString("MAIL_FROM"),
		GoogleClientID:      viper.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:  viper.GetString("GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:   viper.GetString("GOOGLE_REDIRECT_URL"),
	}, nil
}

func inviteBaseURL(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "https://app.huddle.team"
	}
	return s
}
