package core

import (
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string
		Build    string
		Debug    bool
		TestMode bool

		AppName         string
		SecretKey       []byte
		FrontendBaseURL string
		WorkDir         string

		DefaultFromEmail mail.Address
		SendgridAPIKey   string
		RollbarToken     string

		PasswordResetTimeoutDelta time.Duration

		Server     ServerConfig
		Database   DatabaseConfig
		RateLimit  RateLimitConfig
		Assignment AssignmentConfig
		Attendance AttendanceConfig
		Upload     UploadConfig
	}

	ServerConfig struct {
		Host                      string
		Addr                      string
		DebugHost                 string
		AllowedOrigins            []string
		ShutdownTimeout           time.Duration
		JWTExpirationDelta        time.Duration
		JWTRefreshExpirationDelta time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		Host          string
		Port          string
		DisableTLS    bool
	}

	RateLimitConfig struct {
		MaxAttempts   int
		Window        time.Duration
		SweepInterval time.Duration
	}

	AssignmentConfig struct {
		// OpenEnrollment controls what an empty assignedTo list means:
		// true -> the assignment is open to every student;
		// false -> it is open to nobody until students are assigned.
		OpenEnrollment bool
	}

	AttendanceConfig struct {
		CurrentSemester string
	}

	UploadConfig struct {
		MaxSize      int64
		AllowedTypes []string
	}
)

func (c DatabaseConfig) Address() string {
	return c.Host + ":" + c.Port
}

func NewConfig() *Config {
	conf := viper.New()
	conf.SetTypeByDefaultValue(true)

	// defaults
	conf.SetDefault("build", "dev")
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "TAP")
	conf.SetDefault("secretKey", "x#2v)b8s=q5l*x+a7c&^0neh9-wu$3(h_m4!fgz1kyj@tdr6po")
	conf.SetDefault("frontendBaseURL", "http://localhost:3000")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("passwordResetTimeoutDelta", 3*24*time.Hour)

	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.addr", ":8000")
	conf.SetDefault("server.debugHost", "localhost:8001")
	conf.SetDefault("server.allowedOrigins", []string{"http://localhost:3000", "http://localhost:8080"})
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.jwtExpirationDelta", 24*time.Hour)
	conf.SetDefault("server.jwtRefreshExpirationDelta", 7*24*time.Hour)

	conf.SetDefault("database.engine", "postgres")
	conf.SetDefault("database.name", "tap")
	conf.SetDefault("database.user", "tap")
	conf.SetDefault("database.password", "tap")
	conf.SetDefault("database.adminUser", "")
	conf.SetDefault("database.adminPassword", "")
	conf.SetDefault("database.host", "localhost")
	conf.SetDefault("database.port", "5432")
	conf.SetDefault("database.disableTLS", true)

	conf.SetDefault("rateLimit.maxAttempts", 5)
	conf.SetDefault("rateLimit.window", 15*time.Minute)
	conf.SetDefault("rateLimit.sweepInterval", 5*time.Minute)

	conf.SetDefault("assignment.openEnrollment", true)
	conf.SetDefault("attendance.currentSemester", "Spring 2024")

	conf.SetDefault("upload.maxSize", 10<<20)
	conf.SetDefault("upload.allowedTypes", []string{
		"application/pdf",
		"application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"text/plain",
	})

	env := os.Getenv("ENV") // DEV (local; default), TEST, QA, PROD
	if env == "" {
		env = "DEV"
	}
	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:      env,
		Build:    conf.GetString("build"),
		Debug:    conf.GetBool("debug"),
		TestMode: env == "TEST",

		AppName:         conf.GetString("appName"),
		SecretKey:       []byte(conf.GetString("secretKey")),
		FrontendBaseURL: conf.GetString("frontendBaseURL"),
		WorkDir:         wd,

		DefaultFromEmail: mail.Address{Name: conf.GetString("appName"), Address: conf.GetString("defaultFromEmail")},
		SendgridAPIKey:   conf.GetString("sendgridAPIKey"),
		RollbarToken:     conf.GetString("rollbarToken"),

		PasswordResetTimeoutDelta: conf.GetDuration("passwordResetTimeoutDelta"),

		Server: ServerConfig{
			Host:                      conf.GetString("server.host"),
			Addr:                      conf.GetString("server.addr"),
			DebugHost:                 conf.GetString("server.debugHost"),
			AllowedOrigins:            conf.GetStringSlice("server.allowedOrigins"),
			ShutdownTimeout:           conf.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta:        conf.GetDuration("server.jwtExpirationDelta"),
			JWTRefreshExpirationDelta: conf.GetDuration("server.jwtRefreshExpirationDelta"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("database.engine"),
			Name:          conf.GetString("database.name"),
			User:          conf.GetString("database.user"),
			Password:      conf.GetString("database.password"),
			AdminUser:     conf.GetString("database.adminUser"),
			AdminPassword: conf.GetString("database.adminPassword"),
			Host:          conf.GetString("database.host"),
			Port:          conf.GetString("database.port"),
			DisableTLS:    conf.GetBool("database.disableTLS"),
		},
		RateLimit: RateLimitConfig{
			MaxAttempts:   conf.GetInt("rateLimit.maxAttempts"),
			Window:        conf.GetDuration("rateLimit.window"),
			SweepInterval: conf.GetDuration("rateLimit.sweepInterval"),
		},
		Assignment: AssignmentConfig{
			OpenEnrollment: conf.GetBool("assignment.openEnrollment"),
		},
		Attendance: AttendanceConfig{
			CurrentSemester: conf.GetString("attendance.currentSemester"),
		},
		Upload: UploadConfig{
			MaxSize:      conf.GetInt64("upload.maxSize"),
			AllowedTypes: conf.GetStringSlice("upload.allowedTypes"),
		},
	}
}
