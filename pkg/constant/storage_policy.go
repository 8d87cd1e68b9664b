/*
 * @Description: 访客统计文档的存储驱动类型
 * @Date: 2026-10-08 11:02:18
 * @LastEditTime: 2026-10-12 09:47:30
 */
package constant

import "strings"

// StorageDriver 定义了统计文档的存储驱动类型，提供了更强的类型安全
type StorageDriver string

// 定义支持的存储驱动常量
const (
	DriverS3         StorageDriver = "aws_s3"
	DriverAliOSS     StorageDriver = "aliyun_oss"
	DriverTencentCOS StorageDriver = "tencent_cos"
	DriverQiniu      StorageDriver = "qiniu_kodo"
	DriverRedis      StorageDriver = "redis"
	DriverLocal      StorageDriver = "local"
	DriverMemory     StorageDriver = "memory"
	// DriverNone 不持久化：读取返回空文档，写入直接丢弃
	DriverNone StorageDriver = "none"
)

// Default storage configurations
const (
	DefaultVisitorBucket    = "mail.dustinreed.info"
	DefaultVisitorObjectKey = "visitor_count.json"
	DefaultS3Region         = "us-east-1"
	DefaultLocalStoragePath = "data/storage" // 相对于应用根目录
)

// ParseStorageDriver 解析配置中的驱动名称，大小写不敏感，空值视为 aws_s3
func ParseStorageDriver(name string) StorageDriver {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == "s3" {
		return DriverS3
	}
	return StorageDriver(name)
}

// IsValid 检查给定的类型是否是受支持的存储驱动
func (d StorageDriver) IsValid() bool {
	switch d {
	case DriverS3, DriverAliOSS, DriverTencentCOS, DriverQiniu, DriverRedis, DriverLocal, DriverMemory, DriverNone:
		return true
	default:
		return false
	}
}
