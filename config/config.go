package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 应用全局配置结构体
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"db"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Log         LogConfig         `mapstructure:"log"`
	Catalog     CatalogConfig     `mapstructure:"catalog"`
	Persistence PersistenceConfig `mapstructure:"persistence"`
	Planner     PlannerConfig     `mapstructure:"planner"`
	Wizard      WizardConfig      `mapstructure:"wizard"`
}

// ServerConfig HTTP 服务器配置
type ServerConfig struct {
	Port           int             `mapstructure:"port"`
	BaseURL        string          `mapstructure:"base_url"`
	BodyLimitBytes int64           `mapstructure:"body_limit_bytes"`
	CORS           CORSConfig      `mapstructure:"cors"`
	RateLimit      RateLimitConfig `mapstructure:"rate_limit"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// RateLimitConfig 接口限流配置（依赖 Redis，未连接时放行）
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ── 数据库 ──

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig 数据库配置；driver 为空表示不启用数据库
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	SQLitePath      string `mapstructure:"sqlite_path"`
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

// Enabled 是否配置了数据库
func (c *DatabaseConfig) Enabled() bool {
	return c.Driver != ""
}

// DSN 生成 PostgreSQL 连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis 配置；addr 为空表示不启用
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ── 课程目录 ──

const (
	CatalogEmbedded = "embedded"
	CatalogFile     = "file"
	CatalogDatabase = "database"
)

// CatalogConfig 课程目录来源
type CatalogConfig struct {
	Source       string `mapstructure:"source"`
	Path         string `mapstructure:"path"`
	SeedDatabase bool   `mapstructure:"seed_database"` // 数据库目录为空时写入内置目录
}

// ── 本地持久化 ──

const (
	PersistMemory   = "memory"
	PersistFile     = "file"
	PersistDatabase = "database"
	PersistRedis    = "redis"
)

// PersistenceConfig 规划状态的键值持久化
type PersistenceConfig struct {
	Driver    string `mapstructure:"driver"`
	Dir       string `mapstructure:"dir"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// PlannerConfig 规划引擎参数
type PlannerConfig struct {
	CreditLimit         int `mapstructure:"credit_limit"`
	HistoryCapacity     int `mapstructure:"history_capacity"`
	Years               int `mapstructure:"years"`
	TermsPerYear        int `mapstructure:"terms_per_year"`
	LockedTerms         int `mapstructure:"locked_terms"`
	RecommendationLimit int `mapstructure:"recommendation_limit"`
	PerAreaLimit        int `mapstructure:"per_area_limit"`
}

// WizardConfig 选课向导参数
type WizardConfig struct {
	Delay     time.Duration `mapstructure:"delay"` // 模拟生成耗时
	MaxTerms  int           `mapstructure:"max_terms"`
	WarnTerms int           `mapstructure:"warn_terms"`
}

// Load 从 .env、配置文件与环境变量加载配置
// 优先级：环境变量 > 配置文件 > 默认值
func Load(path string) (*Config, error) {
	// .env 仅补充未设置的环境变量；文件不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("读取 .env 失败: %w", err)
	}

	v := viper.New()

	// ── 默认值 ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.body_limit_bytes", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.rate_limit.enabled", true)
	v.SetDefault("server.rate_limit.requests", 120)
	v.SetDefault("server.rate_limit.window", "1m")

	v.SetDefault("db.driver", "")
	v.SetDefault("db.sqlite_path", "./data/uni-guide.db")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "uni_guide")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Shanghai")
	v.SetDefault("db.max_open_conns", 10)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", 60)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("catalog.source", CatalogEmbedded)
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.seed_database", true)

	v.SetDefault("persistence.driver", PersistFile)
	v.SetDefault("persistence.dir", "./data/state")
	v.SetDefault("persistence.key_prefix", "uni-guide:")

	v.SetDefault("planner.credit_limit", 18)
	v.SetDefault("planner.history_capacity", 3)
	v.SetDefault("planner.years", 4)
	v.SetDefault("planner.terms_per_year", 2)
	v.SetDefault("planner.locked_terms", 3)
	v.SetDefault("planner.recommendation_limit", 5)
	v.SetDefault("planner.per_area_limit", 2)

	v.SetDefault("wizard.delay", "1500ms")
	v.SetDefault("wizard.max_terms", 10)
	v.SetDefault("wizard.warn_terms", 8)

	// ── 配置文件 ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── 环境变量 ──
	v.SetEnvPrefix("UNIGUIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件不存在时仅依赖默认值和环境变量
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	// ── 关键配置校验 ──
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate 校验关键配置项
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("配置校验失败: server.port 必须在 1-65535 之间")
	}
	switch c.Database.Driver {
	case "", DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("配置校验失败: db.driver 仅支持 sqlite / postgres，当前为 %q", c.Database.Driver)
	}

	switch c.Catalog.Source {
	case CatalogEmbedded:
	case CatalogFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("配置校验失败: catalog.source=file 时 catalog.path 不能为空")
		}
	case CatalogDatabase:
		if !c.Database.Enabled() {
			return fmt.Errorf("配置校验失败: catalog.source=database 需要配置 db.driver")
		}
	default:
		return fmt.Errorf("配置校验失败: 未知的 catalog.source %q", c.Catalog.Source)
	}

	switch c.Persistence.Driver {
	case PersistMemory:
	case PersistFile:
		if c.Persistence.Dir == "" {
			return fmt.Errorf("配置校验失败: persistence.driver=file 时 persistence.dir 不能为空")
		}
	case PersistDatabase:
		if !c.Database.Enabled() {
			return fmt.Errorf("配置校验失败: persistence.driver=database 需要配置 db.driver")
		}
	case PersistRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("配置校验失败: persistence.driver=redis 需要配置 redis.addr")
		}
	default:
		return fmt.Errorf("配置校验失败: 未知的 persistence.driver %q", c.Persistence.Driver)
	}

	p := c.Planner
	if p.CreditLimit <= 0 {
		return fmt.Errorf("配置校验失败: planner.credit_limit 必须大于 0")
	}
	if p.HistoryCapacity < 1 {
		return fmt.Errorf("配置校验失败: planner.history_capacity 不能小于 1")
	}
	if p.Years < 1 {
		return fmt.Errorf("配置校验失败: planner.years 不能小于 1")
	}
	if p.TermsPerYear != 1 && p.TermsPerYear != 2 {
		return fmt.Errorf("配置校验失败: planner.terms_per_year 只能为 1 或 2")
	}
	if p.LockedTerms < 0 || p.LockedTerms > p.Years*p.TermsPerYear {
		return fmt.Errorf("配置校验失败: planner.locked_terms 超出学期总数")
	}
	if c.Wizard.MaxTerms < 1 || c.Wizard.WarnTerms > c.Wizard.MaxTerms {
		return fmt.Errorf("配置校验失败: wizard.max_terms / wizard.warn_terms 取值无效")
	}
	return nil
}
