package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config 服务全部配置，均来自环境变量（可由 .env 提供）
type Config struct {
	// 服务
	ServerPort  string   `envconfig:"SERVER_PORT" default:"8080"`
	GinMode     string   `envconfig:"GIN_MODE" default:"release"`
	CORSOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`

	// 日志
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	LogEncoding string `envconfig:"LOG_ENCODING" default:"json"`

	// 数据库
	DBDriver string `envconfig:"DB_DRIVER" default:"sqlite"` // sqlite / postgres
	DBDSN    string `envconfig:"DB_DSN" default:"contenta.db"`

	// 历史记录与设置的 KV 后端
	KVBackend     string        `envconfig:"KV_BACKEND" default:"sql"` // sql / redis / memory
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string        `envconfig:"REDIS_PREFIX" default:"contenta:"`
	MemoryKVTTL   time.Duration `envconfig:"KV_MEMORY_TTL" default:"0s"` // memory 后端条目过期时间，0 表示不过期

	// 模型
	LLMProvider     string        `envconfig:"LLM_PROVIDER" default:"gemini"` // gemini / openai
	GeminiAPIKey    string        `envconfig:"GEMINI_API_KEY"`
	GeminiModel     string        `envconfig:"GEMINI_MODEL" default:"gemini-1.5-flash"`
	OpenAIAPIKey    string        `envconfig:"OPENAI_API_KEY"`
	OpenAIModel     string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	OpenAIBaseURL   string        `envconfig:"OPENAI_BASE_URL"`
	GenerateTimeout time.Duration `envconfig:"GENERATE_TIMEOUT" default:"60s"`

	// 生成接口冷却
	GenerateCooldown time.Duration `envconfig:"GENERATE_COOLDOWN" default:"2s"`

	// 鉴权
	JWTSecret   string `envconfig:"JWT_SECRET"` // 为空时不接受任何 Token，全部按 local 处理
	JWTIssuer   string `envconfig:"JWT_ISSUER" default:"contenta"`
	RequireAuth bool   `envconfig:"REQUIRE_AUTH" default:"false"`

	// 导出文件存储
	StorageProvider  string `envconfig:"STORAGE_PROVIDER" default:"local"` // local / s3
	StorageBasePath  string `envconfig:"STORAGE_BASE_PATH" default:"./exports"`
	StoragePublicURL string `envconfig:"STORAGE_PUBLIC_URL" default:"http://localhost:8080/exports"`
	AWSBucket        string `envconfig:"AWS_BUCKET"`
	AWSRegion        string `envconfig:"AWS_REGION"`
	AWSAccessKey     string `envconfig:"AWS_ACCESS_KEY_ID"`
	AWSSecretKey     string `envconfig:"AWS_SECRET_ACCESS_KEY"`
	AWSEndpoint      string `envconfig:"AWS_ENDPOINT"`
	AWSCDNDomain     string `envconfig:"AWS_CDN_DOMAIN"`

	AWSBasePath      string        `envconfig:"AWS_BASE_PATH" default:"exports"`
	StorageSignedTTL time.Duration `envconfig:"STORAGE_SIGNED_URL_TTL" default:"0s"` // 0 表示返回公开地址

	ExportPrefix string `envconfig:"EXPORT_PREFIX" default:"contenta"`

	// 定时任务
	AILogRetentionDays int    `envconfig:"AI_LOG_RETENTION_DAYS" default:"30"`
	SweepSpec          string `envconfig:"SWEEP_SPEC" default:"0 * * * * *"` // 内存状态清扫（秒级表达式）
}

// Load 读取 .env（不存在则跳过）后解析环境变量
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("加载 %s 失败: %w", f, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验枚举类配置
func (c *Config) Validate() error {
	c.DBDriver = strings.ToLower(c.DBDriver)
	c.KVBackend = strings.ToLower(c.KVBackend)
	c.LLMProvider = strings.ToLower(c.LLMProvider)
	c.StorageProvider = strings.ToLower(c.StorageProvider)

	if !oneOf(c.DBDriver, "sqlite", "postgres") {
		return fmt.Errorf("不支持的 DB_DRIVER: %s", c.DBDriver)
	}
	if !oneOf(c.KVBackend, "sql", "redis", "memory") {
		return fmt.Errorf("不支持的 KV_BACKEND: %s", c.KVBackend)
	}
	if !oneOf(c.LLMProvider, "gemini", "openai") {
		return fmt.Errorf("不支持的 LLM_PROVIDER: %s", c.LLMProvider)
	}
	if !oneOf(c.StorageProvider, "local", "s3") {
		return fmt.Errorf("不支持的 STORAGE_PROVIDER: %s", c.StorageProvider)
	}
	if c.RequireAuth && c.JWTSecret == "" {
		return fmt.Errorf("REQUIRE_AUTH=true 时必须设置 JWT_SECRET")
	}
	return nil
}

// LLMAPIKey 当前提供方的 API Key
func (c *Config) LLMAPIKey() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// LLMModel 当前提供方的模型名
func (c *Config) LLMModel() string {
	if c.LLMProvider == "openai" {
		return c.OpenAIModel
	}
	return c.GeminiModel
}

func oneOf(v string, options ...string) bool {
	for _, o := range options {
		if v == o {
			return true
		}
	}
	return false
}
