// Copyright (c) 2026 WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

// Package config loads the QR Studio configuration from environment
// variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/payload"
	"github.com/wso2-open-operations/common-tools/operations/qr-studio/internal/style"
)

const (
	PortKey            = "PORT"
	ReadTimeoutKey     = "READ_TIMEOUT"
	WriteTimeoutKey    = "WRITE_TIMEOUT"
	ShutdownTimeoutKey = "SHUTDOWN_TIMEOUT"
	MaxBodySizeKey     = "MAX_BODY_SIZE"

	MinSizeKey            = "MIN_SIZE"
	MaxSizeKey            = "MAX_SIZE"
	PreviewSizeKey        = "PREVIEW_SIZE"
	DownloadSizeKey       = "DOWNLOAD_SIZE"
	PreviewDebounceKey    = "PREVIEW_DEBOUNCE"
	MaxPreviewSessionsKey = "MAX_PREVIEW_SESSIONS"
	PreviewIdleTimeoutKey = "PREVIEW_IDLE_TIMEOUT"
	BulkWorkersKey        = "BULK_WORKERS"
	BulkMaxItemsKey       = "BULK_MAX_ITEMS"
	ContactFormatKey      = "CONTACT_FORMAT"
	StylePresetsFileKey   = "STYLE_PRESETS_FILE"
	PublicBaseURLKey      = "PUBLIC_BASE_URL"

	DBTypeKey            = "DB_TYPE"
	DBHostKey            = "DB_HOST"
	DBPortKey            = "DB_PORT"
	DBNameKey            = "DB_NAME"
	DBUserKey            = "DB_USER"
	DBPasswordKey        = "DB_PASSWORD"
	DBSSLModeKey         = "DB_SSLMODE"
	DBMaxOpenConnsKey    = "DB_MAX_OPEN_CONNECTIONS"
	DBMaxIdleConnsKey    = "DB_MAX_IDLE_CONNECTIONS"
	DBConnMaxLifetimeKey = "DB_CONN_MAX_LIFETIME"

	S3EndpointKey  = "S3_ENDPOINT"
	S3AccessKeyKey = "S3_ACCESS_KEY"
	S3SecretKeyKey = "S3_SECRET_KEY"
	S3BucketKey    = "S3_BUCKET"
	S3RegionKey    = "S3_REGION"
	S3UseSSLKey    = "S3_USE_SSL"
)

// Database types accepted in DB_TYPE.
const (
	DBTypeMemory   = "memory"
	DBTypeMySQL    = "mysql"
	DBTypePostgres = "postgres"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	MaxBodySize     int64

	MinSize            int
	MaxSize            int
	PreviewSize        int
	DownloadSize       int
	PreviewDebounce    time.Duration
	MaxPreviewSessions int
	PreviewIdleTimeout time.Duration
	BulkWorkers        int
	BulkMaxItems       int
	ContactFormat      payload.ContactFormat
	StylePresetsFile   string
	Presets            style.Presets
	PublicBaseURL      string

	Database    DatabaseConfig
	ObjectStore ObjectStoreConfig
}

// DatabaseConfig describes the record store connection.
type DatabaseConfig struct {
	Type             string
	Host             string
	Port             string
	Name             string
	User             string
	ConnectionString string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// ObjectStoreConfig describes the S3 compatible image bucket. An empty
// Endpoint selects the in-memory store.
type ObjectStoreConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// LoadConfig reads configuration from environment variables. Malformed
// numbers and durations fall back to defaults with a warning; inconsistent
// settings are reported as errors.
func LoadConfig(logger *zap.Logger) (*Config, error) {
	logger.Info("Loading configuration from environment variables")

	cfg := &Config{
		Port:            getEnv(PortKey, "8080"),
		ReadTimeout:     parseDuration(logger, ReadTimeoutKey, "5s", 5*time.Second),
		WriteTimeout:    parseDuration(logger, WriteTimeoutKey, "10s", 10*time.Second),
		ShutdownTimeout: parseDuration(logger, ShutdownTimeoutKey, "5s", 5*time.Second),
		MaxBodySize:     parseInt64(logger, MaxBodySizeKey, "2097152", 2097152),

		MinSize:            parseInt(logger, MinSizeKey, "64", 64),
		MaxSize:            parseInt(logger, MaxSizeKey, "2048", 2048),
		PreviewSize:        parseInt(logger, PreviewSizeKey, "256", 256),
		DownloadSize:       parseInt(logger, DownloadSizeKey, "1024", 1024),
		PreviewDebounce:    parseDuration(logger, PreviewDebounceKey, "400ms", 400*time.Millisecond),
		MaxPreviewSessions: parseInt(logger, MaxPreviewSessionsKey, "1000", 1000),
		PreviewIdleTimeout: parseDuration(logger, PreviewIdleTimeoutKey, "10m", 10*time.Minute),
		BulkWorkers:        parseInt(logger, BulkWorkersKey, "4", 4),
		BulkMaxItems:       parseInt(logger, BulkMaxItemsKey, "500", 500),
		ContactFormat:      payload.ParseContactFormat(getEnv(ContactFormatKey, string(payload.ContactVCard))),
		StylePresetsFile:   getEnv(StylePresetsFileKey, ""),
		PublicBaseURL:      strings.TrimRight(getEnv(PublicBaseURLKey, "http://localhost:8080"), "/"),

		ObjectStore: ObjectStoreConfig{
			Endpoint:  getEnv(S3EndpointKey, ""),
			AccessKey: getEnv(S3AccessKeyKey, ""),
			SecretKey: getEnv(S3SecretKeyKey, ""),
			Bucket:    getEnv(S3BucketKey, "qr-codes"),
			Region:    getEnv(S3RegionKey, "us-east-1"),
			UseSSL:    parseBool(getEnv(S3UseSSLKey, "true")),
		},
	}

	db, err := loadDatabaseConfig(logger)
	if err != nil {
		return nil, err
	}
	cfg.Database = db

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.StylePresetsFile != "" {
		presets, err := style.LoadPresets(cfg.StylePresetsFile)
		if err != nil {
			return nil, fmt.Errorf("load style presets: %w", err)
		}
		cfg.Presets = presets
	}

	logger.Info("Configuration loaded successfully",
		zap.String("port", cfg.Port),
		zap.Int("min_size", cfg.MinSize),
		zap.Int("max_size", cfg.MaxSize),
		zap.Int("preview_size", cfg.PreviewSize),
		zap.Int("download_size", cfg.DownloadSize),
		zap.Duration("preview_debounce", cfg.PreviewDebounce),
		zap.Duration("preview_idle_timeout", cfg.PreviewIdleTimeout),
		zap.String("contact_format", string(cfg.ContactFormat)),
		zap.String("db_type", cfg.Database.Type),
		zap.Bool("object_store_remote", cfg.ObjectStore.Endpoint != ""),
		zap.Int("style_presets", len(cfg.Presets)),
	)

	return cfg, nil
}

func (c *Config) validate() error {
	if c.MinSize < 1 || c.MaxSize < c.MinSize {
		return fmt.Errorf("invalid size range: %s=%d %s=%d", MinSizeKey, c.MinSize, MaxSizeKey, c.MaxSize)
	}
	for key, size := range map[string]int{PreviewSizeKey: c.PreviewSize, DownloadSizeKey: c.DownloadSize} {
		if size < c.MinSize || size > c.MaxSize {
			return fmt.Errorf("%s=%d must be between %d and %d", key, size, c.MinSize, c.MaxSize)
		}
	}
	if c.BulkWorkers < 1 {
		return fmt.Errorf("%s must be positive", BulkWorkersKey)
	}
	if c.BulkMaxItems < 1 {
		return fmt.Errorf("%s must be positive", BulkMaxItemsKey)
	}
	if c.MaxBodySize < 1 {
		return fmt.Errorf("%s must be positive", MaxBodySizeKey)
	}
	return nil
}

// loadDatabaseConfig reads the record store settings and builds the DSN.
func loadDatabaseConfig(logger *zap.Logger) (DatabaseConfig, error) {
	dbType := strings.ToLower(strings.TrimSpace(getEnv(DBTypeKey, DBTypeMemory)))
	db := DatabaseConfig{
		Type:            dbType,
		MaxOpenConns:    parseInt(logger, DBMaxOpenConnsKey, "10", 10),
		MaxIdleConns:    parseInt(logger, DBMaxIdleConnsKey, "10", 10),
		ConnMaxLifetime: parseDuration(logger, DBConnMaxLifetimeKey, "1m", time.Minute),
	}

	switch dbType {
	case DBTypeMemory:
		return db, nil
	case DBTypeMySQL, DBTypePostgres:
	default:
		return db, fmt.Errorf("unsupported %s %q (expected memory, mysql or postgres)", DBTypeKey, dbType)
	}

	defaultPort := "3306"
	if dbType == DBTypePostgres {
		defaultPort = "5432"
	}
	db.Host = getEnv(DBHostKey, "localhost")
	db.Port = getEnv(DBPortKey, defaultPort)
	db.Name = getEnv(DBNameKey, "")
	db.User = getEnv(DBUserKey, "")
	if db.Name == "" || db.User == "" {
		return db, fmt.Errorf("missing required config: %s and %s are required for %s", DBNameKey, DBUserKey, dbType)
	}

	password := getEnv(DBPasswordKey, "")
	sslMode := getEnv(DBSSLModeKey, "require")
	db.ConnectionString = buildConnectionString(dbType, db.Host, db.Port, db.Name, db.User, password, sslMode)
	return db, nil
}

// buildConnectionString creates a database connection string based on type.
func buildConnectionString(dbType, host, port, database, user, password, sslMode string) string {
	switch dbType {
	case DBTypePostgres:
		return fmt.Sprintf(
			"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s connect_timeout=30",
			host, port, user, password, database, sslMode,
		)
	default:
		tls := "true"
		if sslMode == "disable" {
			tls = "false"
		}
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?tls=%s&parseTime=true&timeout=30s&readTimeout=60s&writeTimeout=60s",
			user, password, host, port, database, tls,
		)
	}
}

// getEnv retrieves the value of the environment variable for the given key.
// If the variable is not set or empty, it returns the provided defaultValue.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseInt fetches an environment variable by key and converts it to an
// integer. If conversion fails, it logs a warning and returns fallback.
func parseInt(logger *zap.Logger, key, defaultValue string, fallback int) int {
	v := getEnv(key, defaultValue)
	i, err := strconv.Atoi(v)
	if err != nil {
		logger.Warn(fmt.Sprintf("Invalid %s, using default", key),
			zap.String("value", v),
			zap.Int("default", fallback),
			zap.Error(err))
		return fallback
	}
	return i
}

func parseInt64(logger *zap.Logger, key, defaultValue string, fallback int64) int64 {
	v := getEnv(key, defaultValue)
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		logger.Warn(fmt.Sprintf("Invalid %s, using default", key),
			zap.String("value", v),
			zap.Int64("default", fallback),
			zap.Error(err))
		return fallback
	}
	return i
}

// parseDuration reads a duration from the environment. Unparseable or
// non-positive values log a warning and return fallback.
func parseDuration(logger *zap.Logger, key, defaultValue string, fallback time.Duration) time.Duration {
	v := getEnv(key, defaultValue)
	d, err := time.ParseDuration(v)
	if err != nil {
		logger.Warn(fmt.Sprintf("Invalid %s, using default", key),
			zap.String("value", v),
			zap.Duration("default", fallback),
			zap.Error(err))
		return fallback
	}
	if d <= 0 {
		return fallback
	}
	return d
}

// parseBool converts a string into a boolean.
func parseBool(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	return v == "true" || v == "1" || v == "yes"
}
