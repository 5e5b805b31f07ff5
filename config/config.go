package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"db"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Log      LogConfig      `mapstructure:"log"`
	Feature  FeatureConfig  `mapstructure:"feature"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port int        `mapstructure:"port"`
	CORS CORSConfig `mapstructure:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL 数据库配置
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"` // 分钟
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置（限流与 Token 黑名单）
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT 认证配置
type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json | console
	Output string `mapstructure:"output"` // stdout | stderr | 文件路径
}

// FeatureConfig 功能开关配置
type FeatureConfig struct {
	// OwnerOnlyDetail 为 true 时，普通员工只能查看/修改/删除本人的日报
	OwnerOnlyDetail    bool `mapstructure:"owner_only_detail"`
	RateLimitPerMinute int  `mapstructure:"rate_limit_per_minute"`
}

// defaults 未在配置文件与环境变量中出现时使用的值。
// 每个键都必须在此登记，AutomaticEnv 只绑定已知键
var defaults = map[string]interface{}{
	"server.port":               8080,
	"server.cors.allow_origins": []string{"http://localhost:5173"},

	"db.host":              "localhost",
	"db.port":              5432,
	"db.name":              "daily_report",
	"db.user":              "postgres",
	"db.password":          "",
	"db.sslmode":           "disable",
	"db.timezone":          "Asia/Tokyo",
	"db.max_open_conns":    25,
	"db.max_idle_conns":    10,
	"db.conn_max_lifetime": 60,

	"redis.addr":     "localhost:6379",
	"redis.password": "",
	"redis.db":       0,

	"auth.jwt_secret":       "",
	"auth.access_token_ttl": "8h",

	"log.level":  "info",
	"log.format": "json",
	"log.output": "stdout",

	"feature.owner_only_detail":     false,
	"feature.rate_limit_per_minute": 30,
}

// Load 加载配置，优先级：环境变量 (REPORT_*) > 配置文件 > 默认值。
// path 为空时依次查找 ./config/config.yaml 与 ./config.yaml，文件不存在不视为错误
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("REPORT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验关键配置项，返回全部不合法项
func (c *Config) Validate() error {
	var errs []error
	if len(c.Auth.JWTSecret) < 16 {
		errs = append(errs, errors.New("auth.jwt_secret 长度不能少于 16 字符"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, errors.New("server.port 必须在 1-65535 之间"))
	}
	if _, err := time.LoadLocation(c.Database.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("db.timezone 无效: %q", c.Database.Timezone))
	}
	if c.Feature.RateLimitPerMinute < 0 {
		errs = append(errs, errors.New("feature.rate_limit_per_minute 不能为负数"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("配置校验失败: %w", errors.Join(errs...))
	}
	return nil
}
