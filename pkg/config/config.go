package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Wallet WalletConfig

	// AuthToken 网页端获取的 Bearer token（可选，部分接口需要）
	AuthToken string

	ChainID         int64
	BaseURL         string
	CollateralToken string
	CacheDir        string
	Timeout         time.Duration

	LogLevel string // 日志级别
	LogFile  string // 日志文件路径（可选）
}

// WalletConfig 钱包配置。PrivateKey 与 Mnemonic 二选一
type WalletConfig struct {
	PrivateKey   string
	Mnemonic     string
	AccountIndex uint32

	// MakerAddress 下单主体地址（通常是 Gnosis Safe），为空则用签名者地址
	MakerAddress string
}

// ConfigFile 配置文件结构（支持 YAML 和 JSON）
type ConfigFile struct {
	Wallet struct {
		PrivateKey   string `yaml:"private_key" json:"private_key"`
		Mnemonic     string `yaml:"mnemonic" json:"mnemonic"`
		AccountIndex uint32 `yaml:"account_index" json:"account_index"`
		MakerAddress string `yaml:"maker_address" json:"maker_address"`
	} `yaml:"wallet" json:"wallet"`
	AuthToken       string `yaml:"auth_token" json:"auth_token"`
	ChainID         int64  `yaml:"chain_id" json:"chain_id"`
	BaseURL         string `yaml:"base_url" json:"base_url"`
	CollateralToken string `yaml:"collateral_token" json:"collateral_token"`
	CacheDir        string `yaml:"cache_dir" json:"cache_dir"`
	TimeoutSeconds  int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	LogLevel        string `yaml:"log_level" json:"log_level"`
	LogFile         string `yaml:"log_file" json:"log_file"`
}

var globalConfig *Config
var configFilePath string

// SetConfigPath 设置配置文件路径
func SetConfigPath(path string) {
	configFilePath = path
}

// Load 加载配置
func Load() (*Config, error) {
	return LoadFromFile(configFilePath)
}

// LoadFromFile 从指定文件加载配置。
// 优先级：配置文件 > 环境变量 > 默认值；filePath 为空时只读环境变量
func LoadFromFile(filePath string) (*Config, error) {
	if globalConfig != nil && configFilePath == filePath {
		return globalConfig, nil
	}

	var configFile *ConfigFile
	if filePath != "" {
		var err error
		configFile, err = loadConfigFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败 %s: %w", filePath, err)
		}
	}

	config := &Config{
		Wallet: WalletConfig{
			PrivateKey:   firstNonEmpty(fileString(configFile, func(cf *ConfigFile) string { return cf.Wallet.PrivateKey }), getEnv("PRIVATE_KEY", "")),
			Mnemonic:     firstNonEmpty(fileString(configFile, func(cf *ConfigFile) string { return cf.Wallet.Mnemonic }), getEnv("MNEMONIC", "")),
			AccountIndex: fileUint32(configFile, func(cf *ConfigFile) uint32 { return cf.Wallet.AccountIndex }, uint32(parseIntEnv("ACCOUNT_INDEX", 0))),
			MakerAddress: firstNonEmpty(fileString(configFile, func(cf *ConfigFile) string { return cf.Wallet.MakerAddress }), getEnv("MAKER_ADDRESS", "")),
		},
		AuthToken:       firstNonEmpty(fileString(configFile, func(cf *ConfigFile) string { return cf.AuthToken }), getEnv("AUTHORIZATION_TOKEN", "")),
		ChainID:         fileInt64(configFile, func(cf *ConfigFile) int64 { return cf.ChainID }, int64(parseIntEnv("CHAIN_ID", 0))),
		BaseURL:         firstNonEmpty(fileString(configFile, func(cf *ConfigFile) string { return cf.BaseURL }), getEnv("API_BASE_URL", "")),
		CollateralToken: firstNonEmpty(fileString(configFile, func(cf *ConfigFile) string { return cf.CollateralToken }), getEnv("COLLATERAL_TOKEN", "")),
		CacheDir:        firstNonEmpty(fileString(configFile, func(cf *ConfigFile) string { return cf.CacheDir }), getEnv("CACHE_DIR", "")),
		Timeout:         time.Duration(fileInt(configFile, func(cf *ConfigFile) int { return cf.TimeoutSeconds }, parseIntEnv("REQUEST_TIMEOUT_SECONDS", 0))) * time.Second,
		LogLevel:        firstNonEmpty(fileString(configFile, func(cf *ConfigFile) string { return cf.LogLevel }), getEnv("LOG_LEVEL", "info")),
		LogFile:         firstNonEmpty(fileString(configFile, func(cf *ConfigFile) string { return cf.LogFile }), getEnv("LOG_FILE", "")),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	globalConfig = config
	configFilePath = filePath
	return config, nil
}

// Get 获取全局配置（如果已加载）
func Get() *Config {
	return globalConfig
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Wallet.PrivateKey == "" && c.Wallet.Mnemonic == "" {
		return fmt.Errorf("PRIVATE_KEY 或 MNEMONIC 至少配置一个")
	}
	if c.ChainID < 0 {
		return fmt.Errorf("CHAIN_ID 不能为负数")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_SECONDS 不能为负数")
	}
	return nil
}

// loadConfigFile 加载配置文件（支持 YAML 和 JSON）
func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var configFile ConfigFile
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &configFile); err != nil {
			return nil, fmt.Errorf("解析 YAML 配置文件失败: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &configFile); err != nil {
			return nil, fmt.Errorf("解析 JSON 配置文件失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的配置文件格式: %s (支持 .yaml, .yml, .json)", ext)
	}

	return &configFile, nil
}

func fileString(cf *ConfigFile, getter func(*ConfigFile) string) string {
	if cf == nil {
		return ""
	}
	return getter(cf)
}

func fileInt(cf *ConfigFile, getter func(*ConfigFile) int, fallback int) int {
	if cf != nil && getter(cf) != 0 {
		return getter(cf)
	}
	return fallback
}

func fileInt64(cf *ConfigFile, getter func(*ConfigFile) int64, fallback int64) int64 {
	if cf != nil && getter(cf) != 0 {
		return getter(cf)
	}
	return fallback
}

func fileUint32(cf *ConfigFile, getter func(*ConfigFile) uint32, fallback uint32) uint32 {
	if cf != nil && getter(cf) != 0 {
		return getter(cf)
	}
	return fallback
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv 解析整数环境变量
func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
