package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config defines the structure of the configuration file.
type Config struct {
	GitCommit          string          `yaml:"git_commit" envconfig:"HCB_GIT_COMMIT"`
	GitTag             string          `yaml:"git_tag" envconfig:"HCB_GIT_TAG"`
	BuildTime          string          `yaml:"build_time" envconfig:"HCB_BUILD_TIME"`
	IsProduction       bool            `yaml:"is_production" envconfig:"HCB_IS_PRODUCTION"`
	LogLevel           zapcore.Level   `yaml:"log_level" envconfig:"HCB_LOG_LEVEL"`
	LogFolder          string          `yaml:"log_folder" envconfig:"HCB_LOG_FOLDER"`
	LogMaxSize         int             `yaml:"log_max_size" envconfig:"HCB_LOG_MAX_SIZE"` // megabytes before rotation
	ProfilerEnable     bool            `yaml:"profiler_enable" envconfig:"HCB_PROFILER_ENABLE"`
	OpsEndpointsEnable bool            `yaml:"ops_endpoints_enable" envconfig:"HCB_OPS_ENDPOINTS_ENABLE"`
	Server             ServerConfig    `yaml:"server"`
	Redis              RedisConfig     `yaml:"redis"`
	BoltDB             BoltDBConfig    `yaml:"boltdb"`
	Hardcover          HardcoverConfig `yaml:"hardcover"`
}

type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HCB_SERVER_HOST"`
	Port            string        `yaml:"port" envconfig:"HCB_SERVER_PORT"`
	CertsFile       string        `yaml:"certs_file" envconfig:"HCB_SERVER_CERTS_FILE"`
	KeyFile         string        `yaml:"key_file" envconfig:"HCB_SERVER_KEY_FILE"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"HCB_SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"HCB_SERVER_WRITE_TIMEOUT"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"HCB_SERVER_REQUEST_TIMEOUT"` // Time to wait for a request to finish
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"HCB_SERVER_SHUTDOWN_TIMEOUT"`
}

type RedisConfig struct {
	Host          string        `yaml:"host" envconfig:"HCB_REDIS_HOST"`
	Port          string        `yaml:"port" envconfig:"HCB_REDIS_PORT"`
	DialTimeout   time.Duration `yaml:"dial_timeout" envconfig:"HCB_REDIS_DIAL_TIMEOUT"`
	ReadTimeout   time.Duration `yaml:"read_timeout" envconfig:"HCB_REDIS_READ_TIMEOUT"`
	WriteTimeout  time.Duration `yaml:"write_timeout" envconfig:"HCB_REDIS_WRITE_TIMEOUT"`
	PoolSize      int           `yaml:"pool_size" envconfig:"HCB_REDIS_POOL_SIZE"`
	PoolTimeout   time.Duration `yaml:"pool_timeout" envconfig:"HCB_REDIS_POOL_TIMEOUT"`
	Username      string        `yaml:"username" envconfig:"HCB_REDIS_USERNAME"`
	Password      string        `yaml:"password" envconfig:"HCB_REDIS_PASSWORD"`
	DatabaseIndex int           `yaml:"db_index" envconfig:"HCB_REDIS_DATABASE_INDEX"`
}

type BoltDBConfig struct {
	FilePath   string        `yaml:"filepath" envconfig:"HCB_BOLTDB_FILE_PATH"`
	Timeout    time.Duration `yaml:"timeout" envconfig:"HCB_BOLTDB_TIMEOUT"`
	BucketName string        `yaml:"bucket_name" envconfig:"HCB_BOLTDB_BUCKET_NAME"`
}

// HardcoverConfig groups everything related to the remote GraphQL API.
// Token is the global account token, overridable per search call by the
// X-Hardcover-Token header and by the HARDCOVER_TOKEN variable as last
// resort on the search side.
type HardcoverConfig struct {
	Endpoint       string        `yaml:"endpoint" envconfig:"HCB_HARDCOVER_ENDPOINT"`
	Token          string        `yaml:"token" envconfig:"HCB_HARDCOVER_TOKEN"`
	UserAgent      string        `yaml:"user_agent" envconfig:"HCB_HARDCOVER_USER_AGENT"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"HCB_HARDCOVER_REQUEST_TIMEOUT"`
	CacheTTL       time.Duration `yaml:"cache_ttl" envconfig:"HCB_HARDCOVER_CACHE_TTL"`
	SearchPageSize int           `yaml:"search_page_size" envconfig:"HCB_HARDCOVER_SEARCH_PAGE_SIZE"`
}

// Defaults applied by InitConfig for non provided hardcover parameters.
const (
	defaultHardcoverEndpoint  = "https://api.hardcover.app/v1/graphql"
	defaultHardcoverUserAgent = "hardcover-bridge"
	defaultHardcoverTimeout   = 30 * time.Second
	defaultAuthorsCacheTTL    = 167 * time.Hour
	defaultSearchPageSize     = 50
)

// LoadConfigFile provides an instance of config structure for the all application.
func LoadConfigFile(configFile string) (*Config, error) {
	file, err := os.Open(configFile)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	cfg := &Config{}
	yd := yaml.NewDecoder(file)
	err = yd.Decode(cfg)

	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigEnvs reads the environments variables and provides an instance of the App config.
func LoadConfigEnvs(prefix string, config *Config) error {
	return envconfig.Process(prefix, config)
}

// InitConfig setup defaults values for non provided parameters
// and configures build tags values to be used if provided.
func InitConfig(config *Config, gitCommit, gitTag, buildTime string) error {
	if len(gitCommit) != 0 {
		config.GitCommit = gitCommit
	}

	if len(gitTag) != 0 {
		config.GitTag = gitTag
	}

	if len(buildTime) != 0 {
		config.BuildTime = buildTime
	}

	if len(config.Server.Host) == 0 || len(config.Server.Port) == 0 {
		return errors.New("make sure to set valid server address and port in configuration file")
	}

	if len(config.Redis.Host) == 0 || len(config.Redis.Port) == 0 {
		return errors.New("make sure to set valid redis address and port in configuration file")
	}

	if len(config.Hardcover.Endpoint) == 0 {
		config.Hardcover.Endpoint = defaultHardcoverEndpoint
	}

	if len(config.Hardcover.UserAgent) == 0 {
		config.Hardcover.UserAgent = defaultHardcoverUserAgent
	}

	if config.Hardcover.RequestTimeout <= 0 {
		config.Hardcover.RequestTimeout = defaultHardcoverTimeout
	}

	if config.Hardcover.CacheTTL <= 0 {
		config.Hardcover.CacheTTL = defaultAuthorsCacheTTL
	}

	if config.Hardcover.SearchPageSize <= 0 {
		config.Hardcover.SearchPageSize = defaultSearchPageSize
	}

	return nil
}

// LoadAndInitConfigs loads in order the configs from various predefined sources
// then build the App configuration data.
func LoadAndInitConfigs(gitCommit, gitTag, buildTime string) (*Config, error) {
	// Setup the yaml configuration from file.
	config, err := LoadConfigFile("./config.yml")
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from file: %s", err)
	}

	// Set the environment configuration.
	err = godotenv.Load("./config.env")
	if err != nil {
		return config, fmt.Errorf("failed to set environment configurations: %s", err)
	}

	// Use environment variables with prefix `HCB`.
	err = LoadConfigEnvs("HCB", config)
	if err != nil {
		return config, fmt.Errorf("failed to load configurations from environment: %s", err)
	}

	err = InitConfig(config, gitCommit, gitTag, buildTime)
	if err != nil {
		return config, fmt.Errorf("failed to initialize configurations: %s", err)
	}
	return config, nil
}
