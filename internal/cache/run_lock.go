package cache

import (
	"context"
	"time"
)

const settlementRunLockKey = "settlement:run_lock"

// AcquireRunLock 获取结算运行锁，防止同一时刻并发触发批次。
// 缓存未启用时直接放行。
func AcquireRunLock(ctx context.Context, ttlSeconds int) (bool, error) {
	if ttlSeconds <= 0 {
		ttlSeconds = 1800
	}
	return SetNX(ctx, settlementRunLockKey, "1", time.Duration(ttlSeconds)*time.Second)
}

// ReleaseRunLock 释放结算运行锁
func ReleaseRunLock(ctx context.Context) error {
	return Del(ctx, settlementRunLockKey)
}
