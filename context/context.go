package context

import (
	"github.com/sirupsen/logrus"
)

// AppConfig is the config for the app
type AppConfig struct {
	Name string
	URL  string
}

// CookieConfig is the config for the session cookie
type CookieConfig struct {
	HashKey    string `mapstructure:"hash-key"`
	EncryptKey string `mapstructure:"encrypt-key"`
}

// DatabaseConfig is the database configuration
type DatabaseConfig struct {
	Host string `mapstructure:"hostname"`
	Port int
	User string `mapstructure:"username"`
	Pass string `mapstructure:"password"`
	Name string `mapstructure:"db"`
	Pool int
}

// HostConfig is the config for the server host
type HostConfig struct {
	Name          string
	Port          int
	HTTPSEnabled  bool   `mapstructure:"https-enabled"`
	HTTPSCacheDir string `mapstructure:"https-cache-dir"`
}

// AdminConfig is the config for the admin authentication
type AdminConfig struct {
	Username string `mapstructure:"admin-username"`
	Password string `mapstructure:"admin-password"`
}

// ParamsConfig is the config for platform-wide reward params
type ParamsConfig struct {
	ReferralRewardPoints int64 `mapstructure:"referral-reward-points"`
	ReviewRewardPoints   int64 `mapstructure:"review-reward-points"`
}

// Config contains all the config variables for the API server
type Config struct {
	App      AppConfig
	Cookie   CookieConfig
	Database DatabaseConfig
	Host     HostConfig
	Admin    AdminConfig
	Params   ParamsConfig
}

// APIContext stores the config for the API and the underlying client context
type APIContext struct {
	Config Config
	Logger logrus.FieldLogger
}

// NewAPIContext creates a new API context
func NewAPIContext(config Config) APIContext {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	return APIContext{
		Config: config,
		Logger: logger.WithField("service", config.App.Name),
	}
}
