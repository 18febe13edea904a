package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

// Source returns the raw settings of a community. Implementations read fresh
// on every call; the bot never caches settings.
type Source interface {
	Get(ctx context.Context, community string) (PingSettings, error)
}

// Saver persists settings edited by a moderator.
type Saver interface {
	Save(ctx context.Context, community string, s PingSettings) error
}

// LoadValidated reads the settings of community and validates them.
func LoadValidated(ctx context.Context, src Source, community string) (PingSettings, error) {
	s, err := src.Get(ctx, community)
	if err != nil {
		return PingSettings{}, fmt.Errorf("load settings: %w", err)
	}
	return Validate(s)
}

// MemorySource holds settings in memory; communities without an entry get Fallback.
type MemorySource struct {
	mu       sync.RWMutex
	settings map[string]PingSettings
	Fallback PingSettings
}

func NewMemorySource() *MemorySource {
	return &MemorySource{settings: map[string]PingSettings{}, Fallback: Default()}
}

func (m *MemorySource) Get(_ context.Context, community string) (PingSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.settings[community]; ok {
		return s, nil
	}
	return m.Fallback, nil
}

// Set stores s without validation (the moderator UI may hold invalid input).
func (m *MemorySource) Set(community string, s PingSettings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[community] = s
}

func (m *MemorySource) Save(_ context.Context, community string, s PingSettings) error {
	if err := ValidateForm(s); err != nil {
		return err
	}
	m.Set(community, s)
	return nil
}

// fileLayout is the YAML shape read by FileSource.
type fileLayout struct {
	Default     *PingSettings           `yaml:"default"`
	Communities map[string]PingSettings `yaml:"communities"`
}

// FileSource reads a YAML file on every call, so edits apply to the next command.
//
//	default:
//	  enablePingBot: true
//	communities:
//	  golang:
//	    enablePingBot: true
//	    groups:
//	      - {enabled: true, name: news}
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Get(_ context.Context, community string) (PingSettings, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		return PingSettings{}, err
	}
	var layout fileLayout
	if err := yaml.Unmarshal(b, &layout); err != nil {
		return PingSettings{}, fmt.Errorf("parse %s: %w", f.Path, err)
	}
	if s, ok := layout.Communities[community]; ok {
		return s, nil
	}
	if layout.Default != nil {
		return *layout.Default, nil
	}
	return Default(), nil
}

// RedisSource stores settings as JSON under "<prefix><community>".
type RedisSource struct {
	client *redis.Client
	prefix string
}

func NewRedisSource(client *redis.Client, prefix string) *RedisSource {
	if prefix == "" {
		prefix = "settings:"
	}
	return &RedisSource{client: client, prefix: prefix}
}

func (r *RedisSource) Get(ctx context.Context, community string) (PingSettings, error) {
	b, err := r.client.Get(ctx, r.prefix+community).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Default(), nil
		}
		return PingSettings{}, err
	}
	var s PingSettings
	if err := json.Unmarshal(b, &s); err != nil {
		return PingSettings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

func (r *RedisSource) Save(ctx context.Context, community string, s PingSettings) error {
	if err := ValidateForm(s); err != nil {
		return err
	}
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.prefix+community, b, 0).Err()
}
