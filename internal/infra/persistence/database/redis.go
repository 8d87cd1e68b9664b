/*
 * @Description: Redis 客户端
 * @Date: 2026-10-09 14:20:31
 * @LastEditTime: 2026-10-12 18:03:44
 */
package database

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dustinreed/portfolio/pkg/config"
)

// pingTimeout 启动时连通性检查的超时时间
const pingTimeout = 5 * time.Second

// NewRedisClient 根据配置创建 Redis 客户端
// 未配置地址时返回 nil，只有 Storage.Driver = redis 时调用方才要求客户端存在
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	redisAddr := cfg.GetString(config.KeyRedisAddr)
	redisPassword := cfg.GetString(config.KeyRedisPassword)

	if redisAddr == "" {
		log.Println("[Redis] 地址未配置，跳过连接")
		return nil, nil
	}

	redisDB := 0
	if raw := cfg.GetString(config.KeyRedisDB); raw != "" {
		var err error
		redisDB, err = strconv.Atoi(raw)
		if err != nil {
			log.Printf("[Redis] 无效的 DB 值 '%s': %v，使用 DB 0", raw, err)
			redisDB = 0
		}
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Printf("[Redis] 连接 %s (DB %d) 失败: %v", redisAddr, redisDB, err)
		rdb.Close()
		return nil, nil
	}

	log.Printf("[Redis] 成功连接到 %s (DB %d)", redisAddr, redisDB)
	return rdb, nil
}
