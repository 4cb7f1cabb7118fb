package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Enabled       bool   `yaml:"enabled" json:"enabled"`
	Host          string `yaml:"host" json:"host"`
	Port          int    `yaml:"port" json:"port"`
	JwtSecret     string `yaml:"jwt_secret" json:"jwt_secret"`
	AdminPassword string `yaml:"admin_password" json:"admin_password"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

// RemoteConfig points the data access layer at the storefront API.
// A zero BaseURL means the process runs local-only.
type RemoteConfig struct {
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
	Token   string        `yaml:"token" json:"token"`
}

type SmtpConfig struct {
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
	To       string `yaml:"to" json:"to"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig    `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Remote   RemoteConfig `yaml:"remote" json:"remote"`
	Smtp     SmtpConfig   `yaml:"smtp" json:"smtp"`
	Logger   LogConfig    `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "boutique",
		Location: "Asia/Tashkent",
		Workdir:  "/var/boutique",
		Debug:    true,
	},
	Web: WebConfig{
		Enabled: true,
		Host:    "0.0.0.0",
		Port:    3001,
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "boutique",
		User:     "postgres",
		Passwd:   "",
		MaxConn:  100,
		IdleConn: 10,
	},
	Remote: RemoteConfig{
		Timeout: 5 * time.Second,
	},
	Smtp: SmtpConfig{
		Port: 587,
	},
	Logger: LogConfig{
		Mode:     "development",
		Filename: "/var/boutique/boutique.log",
	},
}

func setEnvStr(name string, val *string) {
	if v := os.Getenv(name); v != "" {
		*val = v
	}
}

func setEnvInt(name string, val *int) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToInt(v)
	}
}

func setEnvBool(name string, val *bool) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToBool(v)
	}
}

// LoadConfig reads the yaml config file if present and applies environment
// overrides on top. Missing file falls back to defaults entirely.
func LoadConfig(cfile string) *AppConfig {
	_ = godotenv.Load()

	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvStr("BOUTIQUE_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBool("BOUTIQUE_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvBool("BOUTIQUE_WEB_ENABLED", &cfg.Web.Enabled)
	setEnvStr("BOUTIQUE_WEB_HOST", &cfg.Web.Host)
	setEnvInt("BOUTIQUE_WEB_PORT", &cfg.Web.Port)
	setEnvStr("BOUTIQUE_WEB_JWT_SECRET", &cfg.Web.JwtSecret)
	setEnvStr("BOUTIQUE_WEB_ADMIN_PASSWORD", &cfg.Web.AdminPassword)

	setEnvStr("BOUTIQUE_DB_HOST", &cfg.Database.Host)
	setEnvInt("BOUTIQUE_DB_PORT", &cfg.Database.Port)
	setEnvStr("BOUTIQUE_DB_NAME", &cfg.Database.Name)
	setEnvStr("BOUTIQUE_DB_USER", &cfg.Database.User)
	setEnvStr("BOUTIQUE_DB_PASSWD", &cfg.Database.Passwd)
	setEnvBool("BOUTIQUE_DB_DEBUG", &cfg.Database.Debug)

	setEnvStr("BOUTIQUE_REMOTE_BASE_URL", &cfg.Remote.BaseURL)
	setEnvStr("BOUTIQUE_REMOTE_TOKEN", &cfg.Remote.Token)
	if v := os.Getenv("BOUTIQUE_REMOTE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Remote.Timeout = d
		}
	}

	setEnvStr("BOUTIQUE_SMTP_HOST", &cfg.Smtp.Host)
	setEnvInt("BOUTIQUE_SMTP_PORT", &cfg.Smtp.Port)
	setEnvStr("BOUTIQUE_SMTP_USERNAME", &cfg.Smtp.Username)
	setEnvStr("BOUTIQUE_SMTP_PASSWORD", &cfg.Smtp.Password)
	setEnvStr("BOUTIQUE_SMTP_FROM", &cfg.Smtp.From)
	setEnvStr("BOUTIQUE_SMTP_TO", &cfg.Smtp.To)

	setEnvStr("BOUTIQUE_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBool("BOUTIQUE_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvStr("BOUTIQUE_LOGGER_FILENAME", &cfg.Logger.Filename)

	if cfg.Remote.Timeout <= 0 {
		cfg.Remote.Timeout = DefaultAppConfig.Remote.Timeout
	}
	return cfg
}
