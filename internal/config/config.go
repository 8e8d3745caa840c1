// Package config 演示服务的配置管理
//
// 配置加载优先级（高→低）：
//  1. 环境变量（可经 .env 文件注入，godotenv）
//  2. YAML 配置文件（--config 指定）
//  3. 代码硬编码默认值
//
// 凭据只走环境变量：MONGO_URI 可能携带密码，YAML 中不存储，
// String() 输出前做脱敏。
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 演示服务运行配置
type Config struct {
	Env        string // dev / test / prod
	ListenAddr string // HTTP 监听地址
	MongoURI   string // MongoDB 连接 URI
	Database   string // 数据库名
	BcryptCost int    // 密码哈希成本
}

// yamlConfig YAML 配置文件结构
type yamlConfig struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Database struct {
		URI  string `yaml:"uri"`
		Name string `yaml:"name"`
	} `yaml:"database"`
	Auth struct {
		BcryptCost int `yaml:"bcrypt_cost"`
	} `yaml:"auth"`
}

// Load 按默认值 ← YAML ← 环境变量的顺序装配配置
//
// path 为空时跳过 YAML。.env 文件不存在不算错误。
func Load(path string) (*Config, error) {
	// .env 注入环境变量（已设置的变量 godotenv 不覆盖）
	_ = godotenv.Load()

	cfg := &Config{
		Env:        "dev",
		ListenAddr: ":8080",
		MongoURI:   "mongodb://localhost:27017",
		Database:   "uniquedoc",
		BcryptCost: 10,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		var yc yamlConfig
		if err := yaml.Unmarshal(data, &yc); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		applyYAML(cfg, &yc)
	}

	applyEnv(cfg)

	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, fmt.Errorf("config: bcrypt cost %d out of range [4,31]", cfg.BcryptCost)
	}
	return cfg, nil
}

func applyYAML(cfg *Config, yc *yamlConfig) {
	if yc.Server.ListenAddr != "" {
		cfg.ListenAddr = yc.Server.ListenAddr
	}
	if yc.Database.URI != "" {
		cfg.MongoURI = yc.Database.URI
	}
	if yc.Database.Name != "" {
		cfg.Database = yc.Database.Name
	}
	if yc.Auth.BcryptCost != 0 {
		cfg.BcryptCost = yc.Auth.BcryptCost
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.MongoURI = v
	}
	if v := os.Getenv("MONGO_DB"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BcryptCost = n
		}
	}
}

// String 输出配置摘要，连接 URI 中的密码脱敏
func (c *Config) String() string {
	return fmt.Sprintf("env=%s listen=%s mongo=%s db=%s",
		c.Env, c.ListenAddr, redactURI(c.MongoURI), c.Database)
}

// redactURI 抹掉 URI 里的用户凭据
func redactURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.User == nil {
		return uri
	}
	u.User = url.User("***")
	return u.String()
}
