package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/joho/godotenv"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Attendance AttendanceConfig
	Leave      LeaveConfig
	SMTP       SMTPConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
	MaxConns    int
	MinConns    int
	MaxIdleTime time.Duration
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
}

// AttendanceConfig holds the punctuality policy inputs
type AttendanceConfig struct {
	OfficeStart         string
	RequiredWorkMinutes int
	Timezone            string
}

type LeaveConfig struct {
	CasualPerYear int
}

// SMTPConfig holds outgoing mail settings. An empty Host disables email.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	autoMigrate, err := strconv.ParseBool(getEnv("DB_AUTO_MIGRATE", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_AUTO_MIGRATE: %w", err)
	}

	maxConns, err := strconv.Atoi(getEnv("DB_MAX_CONNS", "25"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.Atoi(getEnv("DB_MIN_CONNS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}
	maxIdle, err := time.ParseDuration(getEnv("DB_MAX_CONN_IDLE_TIME", "30m"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONN_IDLE_TIME: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "attendance"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		AutoMigrate: autoMigrate,
		MaxConns:    maxConns,
		MinConns:    minConns,
		MaxIdleTime: maxIdle,
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
	}

	// JWT configuration
	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	// Attendance policy
	requiredMinutes, err := strconv.Atoi(getEnv("ATTENDANCE_REQUIRED_WORK_MINUTES", "540"))
	if err != nil {
		return nil, fmt.Errorf("invalid ATTENDANCE_REQUIRED_WORK_MINUTES: %w", err)
	}

	config.Attendance = AttendanceConfig{
		OfficeStart:         getEnv("ATTENDANCE_OFFICE_START", "10:00"),
		RequiredWorkMinutes: requiredMinutes,
		Timezone:            getEnv("ATTENDANCE_TIMEZONE", "Local"),
	}

	casualPerYear, err := strconv.Atoi(getEnv("LEAVE_CASUAL_PER_YEAR", "24"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_CASUAL_PER_YEAR: %w", err)
	}
	config.Leave = LeaveConfig{CasualPerYear: casualPerYear}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@localhost"),
		FromName: getEnv("SMTP_FROM_NAME", "Attendance"),
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET_KEY is required")
	}
	if c.JWT.AccessExpiration <= 0 {
		return errors.New("JWT_ACCESS_EXPIRATION_TIME must be positive")
	}
	if c.Database.MaxConns < 0 || c.Database.MinConns < 0 {
		return errors.New("DB_MAX_CONNS and DB_MIN_CONNS must not be negative")
	}
	if c.Leave.CasualPerYear < 0 {
		return errors.New("LEAVE_CASUAL_PER_YEAR must not be negative")
	}
	if _, err := c.AttendancePolicy(); err != nil {
		return err
	}
	return nil
}

// AttendancePolicy builds the punctuality policy from the attendance settings.
func (c *Config) AttendancePolicy() (attendance.Policy, error) {
	hour, minute, err := attendance.ParseOfficeStart(c.Attendance.OfficeStart)
	if err != nil {
		return attendance.Policy{}, fmt.Errorf("invalid ATTENDANCE_OFFICE_START: %w", err)
	}

	if c.Attendance.RequiredWorkMinutes <= 0 {
		return attendance.Policy{}, errors.New("ATTENDANCE_REQUIRED_WORK_MINUTES must be positive")
	}

	loc := time.Local
	if c.Attendance.Timezone != "" && c.Attendance.Timezone != "Local" {
		loc, err = time.LoadLocation(c.Attendance.Timezone)
		if err != nil {
			return attendance.Policy{}, fmt.Errorf("invalid ATTENDANCE_TIMEZONE: %w", err)
		}
	}

	return attendance.Policy{
		OfficeStartHour:     hour,
		OfficeStartMinute:   minute,
		RequiredWorkMinutes: c.Attendance.RequiredWorkMinutes,
		Location:            loc,
	}, nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// PoolOptions returns the connection pool sizing.
func (c *Config) PoolOptions() database.PoolOptions {
	return database.PoolOptions{
		MaxConns:        int32(c.Database.MaxConns),
		MinConns:        int32(c.Database.MinConns),
		MaxConnIdleTime: c.Database.MaxIdleTime,
	}
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
