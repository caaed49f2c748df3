package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter Telegram 发送限流, 全局QPS 加上每个聊天的最小间隔
type RateLimiter struct {
	global *rate.Limiter

	mu       sync.Mutex
	interval time.Duration
	chats    map[int64]*rate.Limiter
}

// NewRateLimiter 创建限流器
// qps<=0 不限全局, chatInterval<=0 不限单个聊天
func NewRateLimiter(qps int, chatInterval time.Duration) *RateLimiter {
	global := rate.NewLimiter(rate.Inf, 1)
	if qps > 0 {
		global = rate.NewLimiter(rate.Limit(qps), qps)
	}
	return &RateLimiter{
		global:   global,
		interval: chatInterval,
		chats:    make(map[int64]*rate.Limiter),
	}
}

// Allow 不阻塞地检查, 任一方拒绝时两边的令牌都不消耗
func (r *RateLimiter) Allow(chatID int64) bool {
	now := time.Now()

	global := r.global.ReserveN(now, 1)
	if !global.OK() || global.DelayFrom(now) > 0 {
		global.CancelAt(now)
		return false
	}

	chat := r.chat(chatID).ReserveN(now, 1)
	if !chat.OK() || chat.DelayFrom(now) > 0 {
		chat.CancelAt(now)
		global.CancelAt(now)
		return false
	}
	return true
}

// Forget 聊天不再需要更新时释放它的限流器
func (r *RateLimiter) Forget(chatID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.chats, chatID)
}

func (r *RateLimiter) chat(chatID int64) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.chats[chatID]
	if !ok {
		limit := rate.Inf
		if r.interval > 0 {
			limit = rate.Every(r.interval)
		}
		l = rate.NewLimiter(limit, 1)
		r.chats[chatID] = l
	}
	return l
}
