package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-canvas-vault/internal/logger"
)

// defaultJanitorInterval is the sweep period applied when the config leaves
// it unset.
const defaultJanitorInterval = time.Minute

// SecretCache is the part of the vault the janitor sweeps: expired plaintext
// slots that no read has touched since their TTL passed.
type SecretCache interface {
	PurgeExpiredSecrets() int
}

// CacheJanitor периодически вычищает из кэша хранилища просроченные
// расшифрованные секреты. Кэш и так проверяет срок жизни при каждом чтении,
// но запись, которую больше никто не читает, без уборщика оставалась бы в
// памяти до блокировки хранилища.
type CacheJanitor struct {
	cache    SecretCache
	interval time.Duration
	log      *logger.Logger
}

func NewCacheJanitor(cache SecretCache, interval time.Duration, log *logger.Logger) *CacheJanitor {
	if interval <= 0 {
		interval = defaultJanitorInterval
	}
	return &CacheJanitor{
		cache:    cache,
		interval: interval,
		log:      log,
	}
}

// Run implements [Worker]. Sweeps the cache every interval until ctx is
// cancelled.
func (j *CacheJanitor) Run(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if purged := j.cache.PurgeExpiredSecrets(); purged > 0 {
				j.log.Debug().Int("purged", purged).Msg("expired secrets evicted from cache")
			}
		}
	}
}
