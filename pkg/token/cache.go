package token

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wandersonbarradas/bb-cobranca/pkg/config"
)

// Cache define o contrato de armazenamento de tokens com TTL.
// As escritas substituem o valor inteiro, então chamadores concorrentes no
// pior caso disparam uma autenticação redundante, nunca corrompem a entrada.
type Cache interface {
	// Get retorna o valor, um indicador de presença e erro.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set armazena o valor com o TTL informado.
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// NewCacheFromConfig cria o backend de cache selecionado na configuração.
func NewCacheFromConfig(cfg config.CacheConf) (Cache, error) {
	switch cfg.Method {
	case "", "memory":
		return NewMemoryCache(), nil
	case "file":
		return NewFileCache(cfg.FilePath), nil
	case "redis":
		return NewRedisCache(redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})), nil
	default:
		return nil, fmt.Errorf("método de cache não suportado: %s", cfg.Method)
	}
}

// MemoryCache é o backend default, adequado para uso como biblioteca.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memoryEntry)}
}

func (m *MemoryCache) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	m.entries[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
	return nil
}

// FileCache persiste cada chave como um arquivo JSON sob o diretório base.
type FileCache struct {
	dir string
}

type fileEntry struct {
	Value     string `json:"value"`
	ExpiresAt int64  `json:"expires_at"`
}

func NewFileCache(dir string) *FileCache {
	return &FileCache{dir: dir}
}

func (f *FileCache) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

func (f *FileCache) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("erro ao ler cache em arquivo: %w", err)
	}

	var entry fileEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		// Entrada corrompida conta como ausência; será sobrescrita
		return "", false, nil
	}

	if time.Now().Unix() >= entry.ExpiresAt {
		return "", false, nil
	}
	return entry.Value, true, nil
}

func (f *FileCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("erro ao criar diretório de cache: %w", err)
	}

	entry := fileEntry{
		Value:     value,
		ExpiresAt: time.Now().Add(ttl).Unix(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	if err := os.WriteFile(f.path(key), data, 0o600); err != nil {
		return fmt.Errorf("erro ao gravar cache em arquivo: %w", err)
	}
	return nil
}

// RedisCache delega get/set ao Redis, que já provê TTL e atomicidade.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("erro ao consultar redis: %w", err)
	}
	return val, true, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("erro ao gravar no redis: %w", err)
	}
	return nil
}
