package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig  `json:"server"`
	Cache   CacheConfig   `json:"cache"`
	Redis   RedisConfig   `json:"redis"`
	MongoDB MongoDBConfig `json:"mongodb"`
	History HistoryConfig `json:"history"`
	Upload  UploadConfig  `json:"upload"`
	Alerts  AlertsConfig  `json:"alerts"`
	GeoIP   GeoIPConfig   `json:"geoip"`
	Client  ClientConfig  `json:"client"`
	Engine  EngineConfig  `json:"engine"`
}

type ServerConfig struct {
	Port           int      `json:"port"`
	Host           string   `json:"host"`
	AllowedOrigins []string `json:"allowed_origins"`
	LogLevel       string   `json:"log_level"`
	LogFormat      string   `json:"log_format"`
}

type CacheConfig struct {
	TTL     int `json:"ttl_seconds"`
	MaxSize int `json:"max_size"`
}

type RedisConfig struct {
	Address  string `json:"address"`
	Password string `json:"password"`
	DB       int    `json:"db"`
	Enabled  bool   `json:"enabled"`
	UseTLS   bool   `json:"use_tls"`
}

type MongoDBConfig struct {
	URI      string `json:"uri"`
	Database string `json:"database"`
	Enabled  bool   `json:"enabled"`
}

type HistoryConfig struct {
	MaxRecords int `json:"max_records"`
}

type UploadConfig struct {
	MaxFileSizeMB int `json:"max_file_size_mb"`
	MaxRows       int `json:"max_rows"`
}

type AlertsConfig struct {
	DiscordToken     string  `json:"discord_token"`
	DiscordChannelID string  `json:"discord_channel_id"`
	Enabled          bool    `json:"enabled"`
	MarginThreshold  float64 `json:"margin_threshold"`
}

type GeoIPConfig struct {
	DBPath string `json:"db_path"`
}

type ClientConfig struct {
	MinVersion string `json:"min_version"`
}

// EngineConfig overrides the built-in normalization defaults. Zero values
// keep the engine's own defaults.
type EngineConfig struct {
	DefaultCountry      string  `json:"default_country"`
	DefaultAnnualVolume int     `json:"default_annual_volume"`
	DefaultFixedCosts   float64 `json:"default_fixed_costs"`
	DefaultCashReserve  float64 `json:"default_cash_reserve"`
}

func LoadConfig() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	// Default configuration
	cfg := &Config{
		Server: ServerConfig{
			Port:           8080,
			Host:           "0.0.0.0",
			AllowedOrigins: []string{"*"},
			LogLevel:       "info",
			LogFormat:      "json",
		},
		Cache: CacheConfig{
			TTL:     300,
			MaxSize: 1000,
		},
		Redis: RedisConfig{
			Address:  "localhost:6379",
			Password: "",
			DB:       0,
			Enabled:  true,
			UseTLS:   false,
		},
		MongoDB: MongoDBConfig{
			URI:      "mongodb://localhost:27017",
			Database: "profitpilot",
			Enabled:  true,
		},
		History: HistoryConfig{
			MaxRecords: 200,
		},
		Upload: UploadConfig{
			MaxFileSizeMB: 10,
			MaxRows:       1000,
		},
		Alerts: AlertsConfig{
			DiscordToken:     "",
			DiscordChannelID: "",
			Enabled:          false,
			MarginThreshold:  5,
		},
		GeoIP: GeoIPConfig{
			DBPath: "",
		},
		Client: ClientConfig{
			MinVersion: "",
		},
	}

	// Load from config file if exists
	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "config/config.json"
	}

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err == nil {
			defer file.Close()
			decoder := json.NewDecoder(file)
			if err := decoder.Decode(cfg); err != nil {
				fmt.Printf("Warning: Failed to decode config file: %v\n", err)
			}
		}
	}

	// Load from environment variables (overrides config file)
	loadEnv(cfg)

	// Load from command-line flags (overrides everything)
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	var serverPort int
	var serverHost string

	fs.IntVar(&serverPort, "port", 0, "Server port")
	fs.StringVar(&serverHost, "host", "", "Server host")

	_ = fs.Parse(os.Args[1:])

	if isFlagPassed(fs, "port") {
		cfg.Server.Port = serverPort
	}
	if isFlagPassed(fs, "host") {
		cfg.Server.Host = serverHost
	}

	return cfg, nil
}

func isFlagPassed(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func loadEnv(cfg *Config) {
	// Server configuration
	if val := os.Getenv("SERVER_PORT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Server.Port = p
		}
	}
	if val := os.Getenv("SERVER_HOST"); val != "" {
		cfg.Server.Host = val
	}
	if val := os.Getenv("ALLOWED_ORIGINS"); val != "" {
		cfg.Server.AllowedOrigins = strings.Split(val, ",")
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Server.LogLevel = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		cfg.Server.LogFormat = val
	}

	// Cache configuration
	if val := os.Getenv("CACHE_TTL"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Cache.TTL = p
		}
	}
	if val := os.Getenv("CACHE_MAX_SIZE"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Cache.MaxSize = p
		}
	}

	// Redis configuration
	if val := os.Getenv("REDIS_ADDRESS"); val != "" {
		cfg.Redis.Address = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		cfg.Redis.Password = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Redis.DB = p
		}
	}
	if val := os.Getenv("REDIS_ENABLED"); val != "" {
		cfg.Redis.Enabled = val == "true" || val == "1"
	}
	if val := os.Getenv("REDIS_USE_TLS"); val != "" {
		cfg.Redis.UseTLS = val == "true" || val == "1"
	}

	// MongoDB configuration
	if val := os.Getenv("MONGODB_URI"); val != "" {
		cfg.MongoDB.URI = val
	}
	if val := os.Getenv("MONGODB_DATABASE"); val != "" {
		cfg.MongoDB.Database = val
	}
	if val := os.Getenv("MONGODB_ENABLED"); val != "" {
		cfg.MongoDB.Enabled = val == "true" || val == "1"
	}

	// History configuration
	if val := os.Getenv("HISTORY_MAX_RECORDS"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.History.MaxRecords = p
		}
	}

	// Upload configuration
	if val := os.Getenv("UPLOAD_MAX_FILE_SIZE_MB"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Upload.MaxFileSizeMB = p
		}
	}
	if val := os.Getenv("UPLOAD_MAX_ROWS"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Upload.MaxRows = p
		}
	}

	// Alerts configuration
	if val := os.Getenv("DISCORD_TOKEN"); val != "" {
		cfg.Alerts.DiscordToken = val
	}
	if val := os.Getenv("DISCORD_CHANNEL_ID"); val != "" {
		cfg.Alerts.DiscordChannelID = val
	}
	if val := os.Getenv("ALERTS_ENABLED"); val != "" {
		cfg.Alerts.Enabled = val == "true" || val == "1"
	}
	if val := os.Getenv("ALERTS_MARGIN_THRESHOLD"); val != "" {
		if p, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Alerts.MarginThreshold = p
		}
	}

	// GeoIP configuration
	if val := os.Getenv("GEOIP_DB_PATH"); val != "" {
		cfg.GeoIP.DBPath = val
	}

	// Client configuration
	if val := os.Getenv("CLIENT_MIN_VERSION"); val != "" {
		cfg.Client.MinVersion = val
	}

	// Engine defaults
	if val := os.Getenv("ENGINE_DEFAULT_COUNTRY"); val != "" {
		cfg.Engine.DefaultCountry = val
	}
	if val := os.Getenv("ENGINE_DEFAULT_ANNUAL_VOLUME"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			cfg.Engine.DefaultAnnualVolume = p
		}
	}
	if val := os.Getenv("ENGINE_DEFAULT_FIXED_COSTS"); val != "" {
		if p, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Engine.DefaultFixedCosts = p
		}
	}
	if val := os.Getenv("ENGINE_DEFAULT_CASH_RESERVE"); val != "" {
		if p, err := strconv.ParseFloat(val, 64); err == nil {
			cfg.Engine.DefaultCashReserve = p
		}
	}
}

// Helper methods for duration conversion
func (c *Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.Cache.TTL) * time.Second
}

func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Upload.MaxFileSizeMB) << 20
}
