package services

import (
	"context"
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"profitpilot/config"
	"profitpilot/models"
)

// CacheMode indicates which cache backend is active
type CacheMode string

const (
	CacheModeRedis    CacheMode = "redis"
	CacheModeInMemory CacheMode = "in-memory"
)

// CacheItem for in-memory fallback
type CacheItem struct {
	Data      []byte
	ExpiresAt time.Time
}

// CacheService memoizes calculation results and bulk reports. The engine
// is deterministic, so a result keyed by the hash of its input stays valid
// until the fee tables change. Redis is the primary backend with an
// in-memory fallback; the health loop switches modes in both directions.
type CacheService struct {
	cfg *config.Config
	log *zap.Logger

	redis       *redis.Client
	redisCtx    context.Context
	redisCancel context.CancelFunc
	mode        CacheMode
	modeMutex   sync.RWMutex

	inMemoryStore sync.Map

	stopChan chan struct{}
	stopOnce sync.Once
}

func NewCacheService(cfg *config.Config, log *zap.Logger) *CacheService {
	ctx, cancel := context.WithCancel(context.Background())

	cs := &CacheService{
		cfg:         cfg,
		log:         log,
		redisCtx:    ctx,
		redisCancel: cancel,
		stopChan:    make(chan struct{}),
		mode:        CacheModeInMemory,
	}

	if cfg.Redis.Enabled {
		cs.connectRedis()
	} else {
		log.Info("redis disabled in config, using in-memory cache only")
	}

	return cs
}

func (cs *CacheService) connectRedis() {
	if cs.cfg.Redis.Address == "" {
		cs.log.Info("redis address not configured, using in-memory cache")
		return
	}

	options := &redis.Options{
		Addr:         cs.cfg.Redis.Address,
		Password:     cs.cfg.Redis.Password,
		DB:           cs.cfg.Redis.DB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		PoolTimeout:  10 * time.Second,
	}

	if cs.cfg.Redis.UseTLS {
		options.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	cs.redis = redis.NewClient(options)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := cs.redis.Ping(ctx).Result(); err != nil {
		cs.log.Warn("redis connection failed, running in-memory", zap.Error(err))
		cs.setMode(CacheModeInMemory)
		return
	}

	cs.log.Info("redis connected", zap.String("address", cs.cfg.Redis.Address))
	cs.setMode(CacheModeRedis)
}

func (cs *CacheService) setMode(mode CacheMode) {
	cs.modeMutex.Lock()
	defer cs.modeMutex.Unlock()
	cs.mode = mode
}

func (cs *CacheService) getMode() CacheMode {
	cs.modeMutex.RLock()
	defer cs.modeMutex.RUnlock()
	return cs.mode
}

// StartHealthLoop runs the Redis health check in the background. On
// failure the cache degrades to in-memory; on recovery it copies unexpired
// in-memory entries back to Redis and switches back.
func (cs *CacheService) StartHealthLoop() {
	go cs.runHealthCheckLoop()
}

func (cs *CacheService) Stop() {
	cs.stopOnce.Do(func() {
		close(cs.stopChan)
		cs.redisCancel()

		if cs.redis != nil {
			cs.redis.Close()
		}
	})
}

func (cs *CacheService) runHealthCheckLoop() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cs.checkRedisHealth()
		case <-cs.stopChan:
			return
		}
	}
}

func (cs *CacheService) checkRedisHealth() {
	if !cs.cfg.Redis.Enabled || cs.redis == nil {
		return
	}

	mode := cs.getMode()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := cs.redis.Ping(ctx).Result()

	if mode == CacheModeRedis && err != nil {
		cs.log.Warn("redis health check failed, switching to in-memory", zap.Error(err))
		cs.setMode(CacheModeInMemory)
	} else if mode == CacheModeInMemory && err == nil {
		cs.log.Info("redis reconnected, switching back")
		cs.syncInMemoryToRedis()
		cs.setMode(CacheModeRedis)
	}
}

func (cs *CacheService) syncInMemoryToRedis() {
	synced := 0
	cs.inMemoryStore.Range(func(key, value interface{}) bool {
		keyStr := key.(string)
		item := value.(*CacheItem)

		ttl := time.Until(item.ExpiresAt)
		if ttl > 0 {
			if err := cs.setRedis(keyStr, item.Data, ttl); err == nil {
				synced++
			}
		}
		return true
	})

	cs.log.Info("synced in-memory cache to redis", zap.Int("items", synced))
}

// InputKey derives the cache key for a product input from a hash of its
// canonical JSON form. Two requests with identical parameters share one
// cached result.
func InputKey(input models.ProductInput) string {
	data, err := json.Marshal(input)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return "calc:" + hex.EncodeToString(sum[:16])
}

// GetResult returns the cached calculation for an input, if present.
func (cs *CacheService) GetResult(input models.ProductInput) (*models.CalculationResult, bool) {
	key := InputKey(input)
	if key == "" {
		return nil, false
	}

	raw, found := cs.get(key)
	if !found {
		return nil, false
	}

	var result models.CalculationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false
	}
	return &result, true
}

// SetResult caches a calculation under its input hash.
func (cs *CacheService) SetResult(input models.ProductInput, result *models.CalculationResult) {
	key := InputKey(input)
	if key == "" || result == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	cs.set(key, data, cs.cfg.CacheTTLDuration())
}

// GetBulkReport returns a cached bulk report by id.
func (cs *CacheService) GetBulkReport(id string) (*models.BulkReport, bool) {
	raw, found := cs.get("bulk:" + id)
	if !found {
		return nil, false
	}

	var report models.BulkReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, false
	}
	return &report, true
}

// SetBulkReport caches a bulk report so clients can re-fetch it by id
// without re-uploading the file.
func (cs *CacheService) SetBulkReport(id string, report *models.BulkReport) {
	data, err := json.Marshal(report)
	if err != nil {
		return
	}
	cs.set("bulk:"+id, data, cs.cfg.CacheTTLDuration())
}

// ============================================
// Generic Set/Get with Redis + In-Memory
// ============================================

func (cs *CacheService) set(key string, data []byte, ttl time.Duration) {
	if cs.getMode() == CacheModeRedis {
		if err := cs.setRedis(key, data, ttl); err != nil {
			cs.log.Warn("redis SET failed, falling back to in-memory",
				zap.String("key", key), zap.Error(err))
			cs.setInMemory(key, data, ttl)
		}
	} else {
		cs.setInMemory(key, data, ttl)
	}
}

func (cs *CacheService) get(key string) ([]byte, bool) {
	if cs.getMode() == CacheModeRedis {
		data, found, err := cs.getRedis(key)
		if err != nil {
			return cs.getInMemory(key)
		}
		return data, found
	}

	return cs.getInMemory(key)
}

// ============================================
// Redis Operations
// ============================================

func (cs *CacheService) setRedis(key string, data []byte, ttl time.Duration) error {
	if cs.redis == nil {
		return fmt.Errorf("redis client not initialized")
	}

	ctx, cancel := context.WithTimeout(cs.redisCtx, 2*time.Second)
	defer cancel()

	return cs.redis.Set(ctx, key, data, ttl).Err()
}

func (cs *CacheService) getRedis(key string) ([]byte, bool, error) {
	if cs.redis == nil {
		return nil, false, fmt.Errorf("redis client not initialized")
	}

	ctx, cancel := context.WithTimeout(cs.redisCtx, 2*time.Second)
	defer cancel()

	data, err := cs.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return data, true, nil
}

// ============================================
// In-Memory Operations (Fallback)
// ============================================

func (cs *CacheService) setInMemory(key string, data []byte, ttl time.Duration) {
	cs.inMemoryStore.Store(key, &CacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

func (cs *CacheService) getInMemory(key string) ([]byte, bool) {
	val, ok := cs.inMemoryStore.Load(key)
	if !ok {
		return nil, false
	}

	item := val.(*CacheItem)
	if time.Now().After(item.ExpiresAt) {
		cs.inMemoryStore.Delete(key)
		return nil, false
	}

	return item.Data, true
}

// ============================================
// Utility Methods
// ============================================

func (cs *CacheService) GetCacheMode() CacheMode {
	return cs.getMode()
}

// ClearCache drops every calculation and bulk-report entry. Used after a
// fee-table change, when memoized results are no longer valid.
func (cs *CacheService) ClearCache() error {
	if cs.getMode() == CacheModeRedis && cs.redis != nil {
		ctx, cancel := context.WithTimeout(cs.redisCtx, 5*time.Second)
		defer cancel()

		deleted := 0
		for _, pattern := range []string{"calc:*", "bulk:*"} {
			iter := cs.redis.Scan(ctx, 0, pattern, 0).Iterator()
			for iter.Next(ctx) {
				cs.redis.Del(ctx, iter.Val())
				deleted++
			}
			if err := iter.Err(); err != nil {
				return err
			}
		}
		cs.log.Info("redis cache cleared", zap.Int("keys", deleted))
	}

	cs.inMemoryStore = sync.Map{}
	cs.log.Info("in-memory cache cleared")

	return nil
}

func (cs *CacheService) GetCacheStats() map[string]interface{} {
	stats := map[string]interface{}{
		"mode":    string(cs.getMode()),
		"enabled": cs.cfg.Redis.Enabled,
	}

	if cs.getMode() == CacheModeRedis && cs.redis != nil {
		ctx, cancel := context.WithTimeout(cs.redisCtx, 2*time.Second)
		defer cancel()

		if dbSize, err := cs.redis.DBSize(ctx).Result(); err == nil {
			stats["redis_keys"] = dbSize
		}
	}

	inMemCount := 0
	now := time.Now()
	cs.inMemoryStore.Range(func(_, v interface{}) bool {
		if item, ok := v.(*CacheItem); ok && now.Before(item.ExpiresAt) {
			inMemCount++
		}
		return true
	})
	stats["in_memory_keys"] = inMemCount

	return stats
}
