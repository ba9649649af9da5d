package cache

import (
	"fmt"
	"time"

	"github.com/relaychat-io/relaychat-backend/internal/repository"
	"github.com/vmihailenco/msgpack/v5"
)

// History reads dominate the workload, so both feeds get a short TTL cache.
const (
	InboxTTL        = 2 * time.Minute
	GroupHistoryTTL = 2 * time.Minute
)

// HistoryCache caches the read side of the two conversation feeds. Every
// method tolerates a nil receiver or missing redis, so the server runs
// uncached when redis is unavailable. Cached group history never bypasses
// the mark-as-read side effect; the services upsert receipts separately on
// a cache hit.
type HistoryCache struct {
	redis *RedisCache
}

func NewHistoryCache(redis *RedisCache) *HistoryCache {
	return &HistoryCache{redis: redis}
}

func inboxKey(userID uint) string {
	return fmt.Sprintf("inbox:%d", userID)
}

func groupHistoryKey(groupID uint) string {
	return fmt.Sprintf("grouphist:%d", groupID)
}

// GetInbox retrieves a cached personal feed.
func (hc *HistoryCache) GetInbox(userID uint) ([]repository.InboxRow, bool) {
	if hc == nil || hc.redis == nil {
		return nil, false
	}
	data, err := hc.redis.Get(inboxKey(userID))
	if err != nil || data == nil {
		return nil, false
	}

	var rows []repository.InboxRow
	if err := msgpack.Unmarshal(data, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

// SetInbox caches a personal feed.
func (hc *HistoryCache) SetInbox(userID uint, rows []repository.InboxRow) error {
	if hc == nil || hc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(rows)
	if err != nil {
		return err
	}
	return hc.redis.Set(inboxKey(userID), data, InboxTTL)
}

// InvalidateInbox drops a user's cached feed after a mutation.
func (hc *HistoryCache) InvalidateInbox(userID uint) error {
	if hc == nil || hc.redis == nil {
		return nil
	}
	return hc.redis.Delete(inboxKey(userID))
}

// GetGroupHistory retrieves a cached group feed.
func (hc *HistoryCache) GetGroupHistory(groupID uint) ([]repository.GroupMessageRow, bool) {
	if hc == nil || hc.redis == nil {
		return nil, false
	}
	data, err := hc.redis.Get(groupHistoryKey(groupID))
	if err != nil || data == nil {
		return nil, false
	}

	var rows []repository.GroupMessageRow
	if err := msgpack.Unmarshal(data, &rows); err != nil {
		return nil, false
	}
	return rows, true
}

// SetGroupHistory caches a group feed.
func (hc *HistoryCache) SetGroupHistory(groupID uint, rows []repository.GroupMessageRow) error {
	if hc == nil || hc.redis == nil {
		return nil
	}
	data, err := msgpack.Marshal(rows)
	if err != nil {
		return err
	}
	return hc.redis.Set(groupHistoryKey(groupID), data, GroupHistoryTTL)
}

// InvalidateGroupHistory drops a group's cached feed after a mutation.
func (hc *HistoryCache) InvalidateGroupHistory(groupID uint) error {
	if hc == nil || hc.redis == nil {
		return nil
	}
	return hc.redis.Delete(groupHistoryKey(groupID))
}
