/*
 * @Description: 定义了所有对象存储驱动需要遵守的接口和公共结构
 * @Date: 2026-10-08 11:20:45
 * @LastEditTime: 2026-10-13 10:18:02
 */
package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/dustinreed/portfolio/pkg/constant"
)

// ErrObjectNotFound 对象不存在。与网络或权限错误区分开，上层据此判断“首次运行”。
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore 定义了统计文档所需的最小对象存储能力：整对象读、整对象写。
type ObjectStore interface {
	// Get 读取对象全部内容。对象不存在时返回 ErrObjectNotFound。
	Get(ctx context.Context, key string) ([]byte, error)
	// Put 整体覆盖写入对象。
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// Describe 返回面向人的存储位置描述，例如 "S3 (bucket)"。
	Describe() string
}

// Options 创建对象存储所需的配置
type Options struct {
	Driver    constant.StorageDriver
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	// Domain 七牛云下载域名，需带协议头
	Domain    string
	LocalPath string
}

// NewObjectStore 根据驱动类型创建对象存储。
// 驱动为 none 时返回 (nil, nil)，调用方应视为“无存储后端”。
// redisClient 仅在 redis 驱动下使用，可以为 nil。
func NewObjectStore(ctx context.Context, opts Options, redisClient *redis.Client) (ObjectStore, error) {
	if !opts.Driver.IsValid() {
		return nil, fmt.Errorf("不支持的存储驱动: %s", opts.Driver)
	}
	if opts.Driver != constant.DriverNone && opts.Driver != constant.DriverMemory && strings.TrimSpace(opts.Bucket) == "" {
		return nil, fmt.Errorf("存储驱动 %s 缺少存储桶名称", opts.Driver)
	}

	log.Printf("[存储] 初始化对象存储 - 驱动: %s, 存储桶: %s", opts.Driver, opts.Bucket)

	var (
		store ObjectStore
		err   error
	)
	switch opts.Driver {
	case constant.DriverS3:
		store, err = asObjectStore(NewAWSS3Store(ctx, opts))
	case constant.DriverAliOSS:
		store, err = asObjectStore(NewAliOSSStore(opts))
	case constant.DriverTencentCOS:
		store, err = asObjectStore(NewTencentCOSStore(opts))
	case constant.DriverQiniu:
		store, err = asObjectStore(NewQiniuKodoStore(opts))
	case constant.DriverRedis:
		if redisClient == nil {
			return nil, fmt.Errorf("redis 存储驱动需要可用的 Redis 连接")
		}
		store = NewRedisStore(redisClient, opts.Bucket)
	case constant.DriverLocal:
		store, err = asObjectStore(NewLocalStore(opts.LocalPath, opts.Bucket))
	case constant.DriverMemory:
		store = NewMemoryStore()
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// asObjectStore 避免把带类型的 nil 指针装进接口
func asObjectStore[T ObjectStore](s T, err error) (ObjectStore, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

