/*
 * @Description: 统一配置管理，conf.ini 提供默认值，环境变量覆盖
 * @Date: 2026-10-09 09:12:37
 * @LastEditTime: 2026-10-13 22:05:48
 */
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"

	"github.com/dustinreed/portfolio/pkg/constant"
)

const (
	// DefaultConfigPath 默认配置文件路径
	DefaultConfigPath = "data/conf.ini"
	// DefaultDotEnvPath 工作目录下的 .env 文件
	DefaultDotEnvPath = ".env"
	// EnvPrefix 环境变量前缀，例如 PORTFOLIO_STORAGE_BUCKET
	EnvPrefix = "PORTFOLIO"
)

const (
	KeyServerPort      = "System.Port"
	KeyServerDebug     = "System.Debug"
	KeyServerTimezone  = "System.Timezone"
	KeyServerStaticDir = "System.StaticDir"

	KeyStorageDriver    = "Storage.Driver"
	KeyStorageBucket    = "Storage.Bucket"
	KeyStorageKey       = "Storage.Key"
	KeyStorageRegion    = "Storage.Region"
	KeyStorageEndpoint  = "Storage.Endpoint"
	KeyStorageAccessKey = "Storage.AccessKey"
	KeyStorageSecretKey = "Storage.SecretKey"
	KeyStorageDomain    = "Storage.Domain"
	KeyStorageLocalPath = "Storage.LocalPath"

	KeyRedisAddr     = "Redis.Addr"
	KeyRedisPassword = "Redis.Password"
	KeyRedisDB       = "Redis.DB"

	KeyAnalyticsUsername       = "Analytics.Username"
	KeyAnalyticsPassword       = "Analytics.Password"
	KeyAnalyticsSkipPaths      = "Analytics.SkipPaths"
	KeyAnalyticsTrackReports   = "Analytics.TrackReports"
	KeyAnalyticsBackupSchedule = "Analytics.BackupSchedule"
	KeyAnalyticsRateLimit      = "Analytics.RateLimit"
)

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerPort, KeyServerDebug, KeyServerTimezone, KeyServerStaticDir,
	KeyStorageDriver, KeyStorageBucket, KeyStorageKey, KeyStorageRegion, KeyStorageEndpoint,
	KeyStorageAccessKey, KeyStorageSecretKey, KeyStorageDomain, KeyStorageLocalPath,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeyAnalyticsUsername, KeyAnalyticsPassword, KeyAnalyticsSkipPaths,
	KeyAnalyticsTrackReports, KeyAnalyticsBackupSchedule, KeyAnalyticsRateLimit,
}

// legacyEnvKeys 旧部署使用的环境变量名
var legacyEnvKeys = map[string]string{
	"ANALYTICS_USERNAME": KeyAnalyticsUsername,
	"ANALYTICS_PASSWORD": KeyAnalyticsPassword,
	"S3_BUCKET":          KeyStorageBucket,
	"DEBUG":              KeyServerDebug,
}

// 内置默认值，配置文件与环境变量都未提供时生效
var defaults = map[string]interface{}{
	KeyServerPort:              8080,
	KeyServerDebug:             false,
	KeyServerTimezone:          "Local",
	KeyServerStaticDir:         "static",
	KeyStorageDriver:           string(constant.DriverS3),
	KeyStorageBucket:           constant.DefaultVisitorBucket,
	KeyStorageKey:              constant.DefaultVisitorObjectKey,
	KeyStorageRegion:           constant.DefaultS3Region,
	KeyStorageLocalPath:        constant.DefaultLocalStoragePath,
	KeyRedisDB:                 0,
	KeyAnalyticsSkipPaths:      "/static/,/favicon.ico",
	KeyAnalyticsTrackReports:   false,
	KeyAnalyticsBackupSchedule: "0 3 * * *",
	KeyAnalyticsRateLimit:      60,
}

type Config struct {
	vp *viper.Viper
}

// NewConfig 从默认位置加载配置
func NewConfig() (*Config, error) {
	if err := LoadDotEnv(DefaultDotEnvPath); err != nil {
		log.Printf("警告: 加载 %s 失败: %v", DefaultDotEnvPath, err)
	}
	return Load(DefaultConfigPath)
}

// Load 按 内置默认值 -> conf.ini -> 环境变量 的顺序加载配置
func Load(filePath string) (*Config, error) {
	vp := viper.New()
	for key, value := range defaults {
		vp.SetDefault(key, value)
	}

	// --- 步骤 1: 使用 go-ini 从文件加载配置 ---
	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("提示: 未找到 %s，将创建默认配置文件。", filePath)
			if err := createDefaultConfigFile(filePath); err != nil {
				log.Printf("警告: 创建默认配置文件失败: %v，将仅依赖环境变量或内部默认值。", err)
			} else {
				log.Printf("已创建默认配置文件: %s", filePath)
				iniCfg, err = ini.Load(filePath)
				if err != nil {
					log.Printf("警告: 重新加载配置文件失败: %v", err)
				}
			}
		} else {
			return nil, fmt.Errorf("解析配置文件 '%s' 失败: %w", filePath, err)
		}
	}

	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				if section.Name() == ini.DefaultSection {
					viperKey = key.Name()
				}
				// 空值不覆盖内置默认值
				if key.Value() == "" {
					continue
				}
				vp.Set(viperKey, key.Value())
			}
		}
		log.Printf("从 %s 文件加载了配置。", filePath)
	}

	// --- 步骤 2: 旧环境变量名 ---
	for envVarName, key := range legacyEnvKeys {
		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("发现环境变量: %s, 已覆盖配置 '%s'。", envVarName, key)
		}
	}

	// --- 步骤 3: 带前缀的环境变量，优先级最高 ---
	for _, key := range allKeys {
		envVarName := EnvVarName(key)
		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("发现环境变量: %s, 已覆盖配置 '%s'。", envVarName, key)
		}
	}

	log.Println("配置加载器初始化完成。")
	return &Config{vp: vp}, nil
}

// EnvVarName 配置键对应的环境变量名，例如 Storage.Bucket -> PORTFOLIO_STORAGE_BUCKET
func EnvVarName(key string) string {
	return EnvPrefix + "_" + strings.ReplaceAll(strings.ToUpper(key), ".", "_")
}

// LoadDotEnv 把 .env 文件中的变量写入进程环境，已存在的变量不覆盖
func LoadDotEnv(filePath string) error {
	if _, err := os.Stat(filePath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	envFile, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:       true,
		UnescapeValueDoubleQuotes: true,
	}, filePath)
	if err != nil {
		return fmt.Errorf("解析 %s 失败: %w", filePath, err)
	}

	for _, key := range envFile.Section(ini.DefaultSection).Keys() {
		name := strings.TrimSpace(strings.TrimPrefix(key.Name(), "export "))
		if _, exists := os.LookupEnv(name); exists {
			continue
		}
		if err := os.Setenv(name, key.Value()); err != nil {
			return fmt.Errorf("设置环境变量 %s 失败: %w", name, err)
		}
	}
	return nil
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// GetStringSlice 逗号分隔的列表，忽略空项
func (c *Config) GetStringSlice(key string) []string {
	var items []string
	for _, item := range strings.Split(c.vp.GetString(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// createDefaultConfigFile 创建默认的配置文件
func createDefaultConfigFile(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	defaultConfig := `[System]
Port = 8080
Debug = false
Timezone = Local
StaticDir = static

# 访客统计文档的存储位置
# Driver 可选 aws_s3, aliyun_oss, tencent_cos, qiniu_kodo, redis, local, memory, none
[Storage]
Driver = aws_s3
Bucket = mail.dustinreed.info
Key = visitor_count.json
Region = us-east-1
Endpoint =
AccessKey =
SecretKey =
Domain =
LocalPath = data/storage

# Redis 配置（可选），Storage.Driver = redis 时使用
[Redis]
Addr =
Password =
DB = 0

# 仪表盘账号，未配置时仪表盘不可访问
# Password 以 $2 开头时按 bcrypt 哈希校验
[Analytics]
Username =
Password =
SkipPaths = /static/,/favicon.ico
TrackReports = false
BackupSchedule = 0 3 * * *
RateLimit = 60
`

	if err := os.WriteFile(filePath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
