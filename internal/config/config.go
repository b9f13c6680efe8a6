package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig 定义 HTTP 服务器的监听配置参数
type ServerConfig struct {
	Host string // 监听地址，默认 "0.0.0.0"
	Port int    // 监听端口，默认 8080
}

// CORSConfig 定义跨域资源共享 (CORS) 配置
type CORSConfig struct {
	AllowedOrigins []string // 允许的来源列表，"*" 表示允许所有来源
}

// LogConfig 定义日志系统配置
type LogConfig struct {
	Level       string // 日志级别: debug, info, warn, error
	Development bool   // 开发模式: 启用彩色输出和详细堆栈信息
	File        string // 日志文件路径，留空表示仅输出到 stdout
}

// DatabaseConfig 定义数据库连接配置（支持 PostgreSQL 和 MySQL）
type DatabaseConfig struct {
	Type            string        // 数据库类型: "postgres" 或 "mysql"，留空使用内存存储
	DSN             string        // 数据库连接字符串
	MaxOpenConns    int           // 最大打开连接数，默认 25
	MaxIdleConns    int           // 最大空闲连接数，默认 5
	ConnMaxLifetime time.Duration // 连接最大生命周期，默认 5 分钟
}

// RedisConfig 定义 Redis 缓存服务配置
type RedisConfig struct {
	Enabled  bool   // 是否启用 Redis 缓存
	Address  string // Redis 服务地址，格式 "host:port"
	Password string // Redis 认证密码，留空表示无密码
	DB       int    // Redis 数据库编号，默认 0
}

// JWTConfig 定义 JWT 认证相关配置
type JWTConfig struct {
	Secret        string        // JWT 签名密钥，必须至少 32 字符
	Issuer        string        // JWT 签发者标识
	AccessExpiry  time.Duration // 访问令牌有效期，默认 15 分钟
	RefreshExpiry time.Duration // 刷新令牌有效期，默认 7 天
}

// MailConfig 定义外发邮件（SMTP 中继）配置
//
// API Key / 凭证缺失不会阻止进程启动，只会在调用发送操作时
// 返回配置错误（ConfigurationError 语义）。
type MailConfig struct {
	Host     string        // SMTP 中继主机，留空表示未配置
	Port     int           // SMTP 端口，默认 587
	Username string        // SMTP 认证用户名
	Password string        // SMTP 认证密码
	From     string        // 发件人地址
	Timeout  time.Duration // 单次发送超时，默认 30 秒
}

// AIConfig 定义 AI 文本生成服务配置
type AIConfig struct {
	APIKey  string        // API Key，留空表示 AI 功能禁用（调用时报配置错误）
	Model   string        // 模型名称，默认 "gpt-4o"
	BaseURL string        // 自定义 API 入口（可选，用于代理）
	Timeout time.Duration // 单次生成超时，默认 120 秒
}

// NewsletterConfig 定义通讯生成与发送的业务配置
type NewsletterConfig struct {
	BatchSize int    // 批量发送的每批收件人数量，默认 50
	SiteName  string // 站点名称，用于邮件主题与模板
	BaseURL   string // 站点基础 URL，用于邮件内链接

	// 定时生成调度（周历），在 Timezone 指定的时区求值
	ScheduleEnabled bool
	ScheduleWeekday string // 英文星期缩写: mon..sun
	ScheduleHour    int    // 0-23
	ScheduleMinute  int    // 0-59
	Timezone        string // IANA 时区名，默认 "Asia/Seoul"
	AutoSend        bool   // 定时生成后是否立即发送（false 表示仅存草稿）
	PeriodDays      int    // 聚合内容的时间窗口天数，默认 7
}

// Config 是系统核心配置的根结构体，包含所有子系统的配置
type Config struct {
	Server     ServerConfig     // HTTP 服务器配置
	CORS       CORSConfig       // 跨域配置
	Log        LogConfig        // 日志配置
	Database   DatabaseConfig   // 数据库配置
	Redis      RedisConfig      // Redis 配置
	JWT        JWTConfig        // JWT 认证配置
	Mail       MailConfig       // 外发邮件配置
	AI         AIConfig         // AI 生成配置
	Newsletter NewsletterConfig // 通讯业务配置
}

// Load 从环境变量和 .env 文件加载系统配置
//
// 配置加载优先级（从高到低）：
//  1. 系统环境变量（最高优先级）
//  2. .env 文件（如果存在）
//  3. 默认值
//
// 环境变量前缀: TEAMSITE_
// 例如: TEAMSITE_SERVER_PORT, TEAMSITE_JWT_SECRET, TEAMSITE_AI_API_KEY
func Load() (*Config, error) {
	// 尝试加载 .env 文件（静默失败，因为 .env 文件是可选的）
	loadEnvFile()

	viper.SetEnvPrefix("teamsite")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("cors.allowed_origins", "*")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)
	viper.SetDefault("log.file", "")
	viper.SetDefault("database.type", "") // 默认为空，使用内存存储
	viper.SetDefault("database.dsn", "")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", "5m")
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.address", "localhost:6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("jwt.secret", "change-me-in-production")
	viper.SetDefault("jwt.issuer", "teamsite")
	viper.SetDefault("jwt.access_expiry", "15m")
	viper.SetDefault("jwt.refresh_expiry", "168h")
	viper.SetDefault("mail.host", "")
	viper.SetDefault("mail.port", 587)
	viper.SetDefault("mail.username", "")
	viper.SetDefault("mail.password", "")
	viper.SetDefault("mail.from", "newsletter@teamsite.local")
	viper.SetDefault("mail.timeout", "30s")
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.model", "gpt-4o")
	viper.SetDefault("ai.base_url", "")
	viper.SetDefault("ai.timeout", "120s")
	viper.SetDefault("newsletter.batch_size", 50)
	viper.SetDefault("newsletter.site_name", "Team Site")
	viper.SetDefault("newsletter.base_url", "http://localhost:3000")
	viper.SetDefault("newsletter.schedule_enabled", false)
	viper.SetDefault("newsletter.schedule_weekday", "mon")
	viper.SetDefault("newsletter.schedule_hour", 9)
	viper.SetDefault("newsletter.schedule_minute", 0)
	viper.SetDefault("newsletter.timezone", "Asia/Seoul")
	viper.SetDefault("newsletter.auto_send", false)
	viper.SetDefault("newsletter.period_days", 7)

	corsOrigins := parseList(viper.GetString("cors.allowed_origins"))
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	connMaxLifetime, err := time.ParseDuration(viper.GetString("database.conn_max_lifetime"))
	if err != nil {
		connMaxLifetime = 5 * time.Minute
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("jwt.access_expiry"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	refreshExpiry, err := time.ParseDuration(viper.GetString("jwt.refresh_expiry"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
	}

	mailTimeout, err := time.ParseDuration(viper.GetString("mail.timeout"))
	if err != nil {
		mailTimeout = 30 * time.Second
	}

	aiTimeout, err := time.ParseDuration(viper.GetString("ai.timeout"))
	if err != nil {
		aiTimeout = 120 * time.Second
	}

	jwtSecret := viper.GetString("jwt.secret")

	// 安全检查：禁止使用默认的 JWT secret
	if jwtSecret == "change-me-in-production" {
		return nil, fmt.Errorf("SECURITY ERROR: JWT secret cannot be the default value. Please set TEAMSITE_JWT_SECRET environment variable")
	}

	// JWT secret 必须至少 32 字符
	if len(jwtSecret) < 32 {
		return nil, fmt.Errorf("SECURITY ERROR: JWT secret must be at least 32 characters long")
	}

	batchSize := viper.GetInt("newsletter.batch_size")
	if batchSize <= 0 {
		batchSize = 50
	}

	weekday := strings.ToLower(strings.TrimSpace(viper.GetString("newsletter.schedule_weekday")))
	if !validWeekday(weekday) {
		return nil, fmt.Errorf("invalid newsletter.schedule_weekday: %q (expected mon..sun)", weekday)
	}

	hour := viper.GetInt("newsletter.schedule_hour")
	minute := viper.GetInt("newsletter.schedule_minute")
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("invalid newsletter schedule time: %02d:%02d", hour, minute)
	}

	periodDays := viper.GetInt("newsletter.period_days")
	if periodDays < 1 || periodDays > 30 {
		return nil, fmt.Errorf("invalid newsletter.period_days: %d (expected 1-30)", periodDays)
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: viper.GetString("server.host"),
			Port: viper.GetInt("server.port"),
		},
		CORS: CORSConfig{
			AllowedOrigins: corsOrigins,
		},
		Log: LogConfig{
			Level:       viper.GetString("log.level"),
			Development: viper.GetBool("log.development"),
			File:        viper.GetString("log.file"),
		},
		Database: DatabaseConfig{
			Type:            viper.GetString("database.type"),
			DSN:             viper.GetString("database.dsn"),
			MaxOpenConns:    viper.GetInt("database.max_open_conns"),
			MaxIdleConns:    viper.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("redis.enabled"),
			Address:  viper.GetString("redis.address"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		JWT: JWTConfig{
			Secret:        jwtSecret,
			Issuer:        viper.GetString("jwt.issuer"),
			AccessExpiry:  accessExpiry,
			RefreshExpiry: refreshExpiry,
		},
		Mail: MailConfig{
			Host:     viper.GetString("mail.host"),
			Port:     viper.GetInt("mail.port"),
			Username: viper.GetString("mail.username"),
			Password: viper.GetString("mail.password"),
			From:     viper.GetString("mail.from"),
			Timeout:  mailTimeout,
		},
		AI: AIConfig{
			APIKey:  viper.GetString("ai.api_key"),
			Model:   viper.GetString("ai.model"),
			BaseURL: viper.GetString("ai.base_url"),
			Timeout: aiTimeout,
		},
		Newsletter: NewsletterConfig{
			BatchSize:       batchSize,
			SiteName:        viper.GetString("newsletter.site_name"),
			BaseURL:         viper.GetString("newsletter.base_url"),
			ScheduleEnabled: viper.GetBool("newsletter.schedule_enabled"),
			ScheduleWeekday: weekday,
			ScheduleHour:    hour,
			ScheduleMinute:  minute,
			Timezone:        viper.GetString("newsletter.timezone"),
			AutoSend:        viper.GetBool("newsletter.auto_send"),
			PeriodDays:      periodDays,
		},
	}

	return cfg, nil
}

// validWeekday 检查英文星期缩写是否合法
func validWeekday(w string) bool {
	switch w {
	case "mon", "tue", "wed", "thu", "fri", "sat", "sun":
		return true
	}
	return false
}

// parseList 将逗号分隔的字符串解析为字符串切片
func parseList(value string) []string {
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// loadEnvFile 尝试加载 .env 文件
//
// 加载顺序：
//  1. 当前目录的 .env
//  2. 父目录的 .env（用于从子目录运行的情况）
//
// 文件不存在时静默失败（.env 是可选的），已存在的环境变量优先级更高。
func loadEnvFile() {
	if err := godotenv.Load(".env"); err == nil {
		return
	}

	parentEnv := filepath.Join("..", ".env")
	if _, err := os.Stat(parentEnv); err == nil {
		_ = godotenv.Load(parentEnv)
	}
}
