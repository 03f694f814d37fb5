// Package dictionary keeps user-defined trivial words in a Redis set so they
// survive across sessions and can be shared between machines.
package dictionary

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Config is the [dictionary] table.
type Config struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Key      string `toml:"key"`
}

// DefaultKey is the Redis set used when none is configured.
const DefaultKey = "redline:trivial_words"

// DefaultConfig returns a disabled dictionary pointing at a local server.
func DefaultConfig() Config {
	return Config{Addr: "localhost:6379", Key: DefaultKey}
}

// Dictionary wraps a Redis client to store trivial words.
type Dictionary struct {
	client *redis.Client
	key    string
}

// New creates a Dictionary with the provided Redis client.
func New(client *redis.Client, key string) *Dictionary {
	if key == "" {
		key = DefaultKey
	}
	return &Dictionary{client: client, key: key}
}

// Open connects to the server in cfg and checks that it answers.
func Open(ctx context.Context, cfg Config) (*Dictionary, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to dictionary at %s: %w", cfg.Addr, err)
	}
	return New(client, cfg.Key), nil
}

func normalize(words []string) []interface{} {
	out := make([]interface{}, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// Add inserts words, lower-cased, into the dictionary.
func (d *Dictionary) Add(ctx context.Context, words ...string) error {
	members := normalize(words)
	if len(members) == 0 {
		return nil
	}
	return d.client.SAdd(ctx, d.key, members...).Err()
}

// Remove deletes words from the dictionary.
func (d *Dictionary) Remove(ctx context.Context, words ...string) error {
	members := normalize(words)
	if len(members) == 0 {
		return nil
	}
	return d.client.SRem(ctx, d.key, members...).Err()
}

// Words returns every stored word in sorted order.
func (d *Dictionary) Words(ctx context.Context) ([]string, error) {
	words, err := d.client.SMembers(ctx, d.key).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(words)
	return words, nil
}

// Close releases the Redis connection.
func (d *Dictionary) Close() error {
	return d.client.Close()
}
