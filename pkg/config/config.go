package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const envPrefix = "DOCDRAFT"

var (
	ErrInvalidConfig         = errors.New("invalid configuration")
	ErrInvalidDatabaseConfig = errors.New("invalid database configuration")
)

var (
	config *viper.Viper
	once   sync.Once
)

// Init 初始化配置，配置文件不存在时只使用默认值和环境变量
func Init(configFiles ...string) error {
	var err error
	once.Do(func() {
		config = viper.New()
		configFile := "config.yaml"
		if len(configFiles) > 0 && configFiles[0] != "" {
			configFile = configFiles[0]
		}
		config.SetConfigFile(configFile)

		// 设置默认值
		setDefaults()

		// 环境变量覆盖，如 DOCDRAFT_LLM_API_KEY
		config.SetEnvPrefix(envPrefix)
		config.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		config.AutomaticEnv()

		if _, statErr := os.Stat(configFile); errors.Is(statErr, fs.ErrNotExist) {
			return
		}

		// 读取配置文件
		if err = config.ReadInConfig(); err != nil {
			err = fmt.Errorf("%w: read config file failed: %v", ErrInvalidConfig, err)
			return
		}

		// 监听配置文件变化
		config.WatchConfig()
	})
	return err
}

// setDefaults 设置默认值
func setDefaults() {
	config.SetDefault("server.port", 8080)
	config.SetDefault("server.mode", "debug")
	config.SetDefault("server.app_name", "docdraft")
	config.SetDefault("server.print_routes", false)

	config.SetDefault("database.type", "sqlite")
	config.SetDefault("database.path", "data/docdraft.db")
	config.SetDefault("database.host", "localhost")
	config.SetDefault("database.port", 5432)
	config.SetDefault("database.user", "postgres")
	config.SetDefault("database.password", "postgres")
	config.SetDefault("database.dbname", "docdraft")
	config.SetDefault("database.max_idle_conns", 10)
	config.SetDefault("database.max_open_conns", 100)
	config.SetDefault("database.conn_max_lifetime", 3600)

	config.SetDefault("log.filename", "logs/app.log")
	config.SetDefault("log.level", "info")
	config.SetDefault("log.console", false)
	config.SetDefault("log.max_size", 100)
	config.SetDefault("log.max_backups", 3)
	config.SetDefault("log.max_age", 28)
	config.SetDefault("log.compress", true)

	config.SetDefault("llm.provider", "openai")
	config.SetDefault("llm.model", "gemini-2.5-flash")
	config.SetDefault("llm.base_url", "https://generativelanguage.googleapis.com/v1beta/openai/")
	config.SetDefault("llm.models", []string{"gemini-2.5-flash", "gemini-3-pro-preview"})
	config.SetDefault("llm.api_key", "")
	config.SetDefault("llm.timeout", 120)

	config.SetDefault("document.heading_threshold", 100)
	config.SetDefault("document.role_title", "HIỆU TRƯỞNG")
	config.SetDefault("document.font_family", "Times New Roman")
	config.SetDefault("document.footer_text", "Trang ")
	config.SetDefault("document.margin_top", 1134)
	config.SetDefault("document.margin_bottom", 1134)
	config.SetDefault("document.margin_left", 1701)
	config.SetDefault("document.margin_right", 1134)

	config.SetDefault("upload.max_size", 20*1024*1024)

	config.SetDefault("security.allowed_origins", "*")
	config.SetDefault("security.api_keys", []string{})

	config.SetDefault("rate_limit.enabled", true)
	config.SetDefault("rate_limit.max_requests", 1000)
	config.SetDefault("rate_limit.duration", 3600)
}

// Get 获取配置值
func Get(key string) interface{} {
	return config.Get(key)
}

// GetString 获取字符串配置值
func GetString(key string) string {
	return config.GetString(key)
}

// GetInt 获取整数配置值
func GetInt(key string) int {
	return config.GetInt(key)
}

// GetInt64 获取64位整数配置值
func GetInt64(key string) int64 {
	return config.GetInt64(key)
}

// GetBool 获取布尔配置值
func GetBool(key string) bool {
	return config.GetBool(key)
}

// GetStringSlice 获取字符串切片配置值
func GetStringSlice(key string) []string {
	return config.GetStringSlice(key)
}

// Set 设置配置值
func Set(key string, value interface{}) {
	config.Set(key, value)
}

// IsSet 检查配置值是否已设置
func IsSet(key string) bool {
	return config.IsSet(key)
}

// AllSettings 获取所有配置
func AllSettings() map[string]interface{} {
	return config.AllSettings()
}

// GetDSN 获取数据库连接字符串
func GetDSN() string {
	dbType := GetString("database.type")
	switch strings.ToLower(dbType) {
	case "postgres":
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			GetString("database.host"),
			GetInt("database.port"),
			GetString("database.user"),
			GetString("database.password"),
			GetString("database.dbname"),
		)
	case "mysql":
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			GetString("database.user"),
			GetString("database.password"),
			GetString("database.host"),
			GetInt("database.port"),
			GetString("database.dbname"),
		)
	case "sqlite":
		return GetString("database.path")
	default:
		return ""
	}
}

// GetServerAddress 获取服务器地址
func GetServerAddress() string {
	return fmt.Sprintf(":%d", GetInt("server.port"))
}
