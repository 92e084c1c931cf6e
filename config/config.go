package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the HR notification server and agent
type Config struct {
	Service  ServiceConfig
	Database DatabaseConfig
	Logging  LoggingConfig
	Schedule ScheduleConfig
	Updates  UpdatesConfig
	Agent    AgentConfig
}

// ServiceConfig holds HTTP service configuration
type ServiceConfig struct {
	Name string
	Port string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string
}

// ScheduleConfig holds content scheduling configuration
type ScheduleConfig struct {
	// UTCOffsetMinutes is the fixed local offset used to anchor wall-clock
	// schedule input and relative delay choices (reference deployment: +330,
	// i.e. UTC+5:30)
	UTCOffsetMinutes int

	// NotificationLead is how long before scheduled_time the advance
	// notification fires
	NotificationLead time.Duration
}

// UpdatesConfig holds app-version reconciliation configuration
type UpdatesConfig struct {
	// CurrentVersion is the authoritative agent version; a device reporting
	// this version has its update status forced to success
	CurrentVersion string
}

// AgentConfig holds desktop agent configuration
type AgentConfig struct {
	ServerURL      string
	EmployeeID     string
	DeviceID       string
	Version        string
	StateDir       string
	StatePassword  string
	PollInterval   time.Duration
	QueueInterval  time.Duration
	QueueCap       int
	SendAttempts   int
	RequestTimeout time.Duration
	// ViewMark is how long after display the view duration is recorded
	ViewMark time.Duration
}

// Result is fx.Out struct for providing config dependencies
type Result struct {
	fx.Out

	Config         *Config
	ServiceConfig  *ServiceConfig
	DatabaseConfig *DatabaseConfig
	LoggingConfig  *LoggingConfig
	ScheduleConfig *ScheduleConfig
	UpdatesConfig  *UpdatesConfig
	AgentConfig    *AgentConfig
}

// Out returns fx-compatible config result
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:         cfg,
		ServiceConfig:  &cfg.Service,
		DatabaseConfig: &cfg.Database,
		LoggingConfig:  &cfg.Logging,
		ScheduleConfig: &cfg.Schedule,
		UpdatesConfig:  &cfg.Updates,
		AgentConfig:    &cfg.Agent,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "hr-notification"),
			Port: getEnv("SERVICE_PORT", "8081"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DATABASE_HOST", "localhost"),
			Port:     getEnv("DATABASE_PORT", "5432"),
			User:     getEnv("DATABASE_USER", "hr_user"),
			Password: getEnv("DATABASE_PASSWORD", "hr_pass"),
			DBName:   getEnv("DATABASE_NAME", "hr_notification"),
			SSLMode:  getEnv("DATABASE_SSLMODE", "disable"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Schedule: ScheduleConfig{
			UTCOffsetMinutes: getEnvInt("SCHEDULE_UTC_OFFSET_MINUTES", 330),
			NotificationLead: getEnvDuration("NOTIFICATION_LEAD", 5*time.Minute),
		},
		Updates: UpdatesConfig{
			CurrentVersion: getEnv("APP_CURRENT_VERSION", "1.0.0"),
		},
		Agent: AgentConfig{
			ServerURL:      getEnv("AGENT_SERVER_URL", "http://localhost:8081"),
			EmployeeID:     getEnv("AGENT_EMPLOYEE_ID", ""),
			DeviceID:       getEnv("AGENT_DEVICE_ID", ""),
			Version:        getEnv("AGENT_VERSION", "1.0.0"),
			StateDir:       getEnv("AGENT_STATE_DIR", "./data/agent"),
			StatePassword:  getEnv("AGENT_STATE_PASSWORD", "hr-agent"),
			PollInterval:   getEnvDuration("AGENT_POLL_INTERVAL", 60*time.Second),
			QueueInterval:  getEnvDuration("AGENT_QUEUE_INTERVAL", 30*time.Second),
			QueueCap:       getEnvInt("AGENT_QUEUE_CAP", 50),
			SendAttempts:   getEnvInt("AGENT_SEND_ATTEMPTS", 3),
			RequestTimeout: getEnvDuration("AGENT_REQUEST_TIMEOUT", 15*time.Second),
			ViewMark:       getEnvDuration("AGENT_VIEW_MARK", 30*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DATABASE_HOST is required")
	}

	if c.Database.User == "" {
		return fmt.Errorf("DATABASE_USER is required")
	}

	if c.Database.DBName == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}

	if c.Agent.ServerURL == "" {
		return fmt.Errorf("AGENT_SERVER_URL is required")
	}

	if c.Agent.QueueCap <= 0 {
		return fmt.Errorf("AGENT_QUEUE_CAP must be positive")
	}

	if c.Agent.SendAttempts <= 0 {
		return fmt.Errorf("AGENT_SEND_ATTEMPTS must be positive")
	}

	return nil
}

// GetDSN returns database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Location returns the fixed local zone used for schedule input and
// relative delay anchoring
func (c *ScheduleConfig) Location() *time.Location {
	return time.FixedZone("local", c.UTCOffsetMinutes*60)
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets environment variable as int with default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// getEnvDuration gets environment variable as duration with default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}
