// Package cache persists types-registry snapshots in Redis, so a
// fresh process can warm its type cache without querying the system
// catalog again.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/conduit-lang/pgtypes/pkg/pgtypes"
)

// ErrSnapshotMiss is returned when no snapshot exists for a key
type ErrSnapshotMiss struct {
	Key string
}

// Error implements the error interface
func (e ErrSnapshotMiss) Error() string {
	return fmt.Sprintf("no types snapshot for key: %s", e.Key)
}

// TypeRecord is the serialised form of one TypeInfo.
type TypeRecord struct {
	Name      string `json:"name"`
	OID       uint32 `json:"oid"`
	ArrayOID  uint32 `json:"array_oid"`
	Regtype   string `json:"regtype,omitempty"`
	Delimiter string `json:"delimiter,omitempty"`
}

// Snapshot is a point-in-time dump of a registry for one server.
type Snapshot struct {
	ID      uuid.UUID    `json:"id"`
	SavedAt time.Time    `json:"saved_at"`
	Types   []TypeRecord `json:"types"`
}

// Config holds snapshot store configuration
type Config struct {
	// Prefix is prepended to every Redis key
	Prefix string
	// TTL bounds how long a snapshot stays valid
	TTL time.Duration
}

// DefaultConfig returns a default snapshot store configuration
func DefaultConfig() Config {
	return Config{
		Prefix: "pgtypes:",
		TTL:    24 * time.Hour,
	}
}

// Store reads and writes registry snapshots in Redis.
type Store struct {
	client *redis.Client
	config Config
}

// NewStore creates a snapshot store on an existing Redis client.
func NewStore(client *redis.Client, config Config) *Store {
	return &Store{client: client, config: config}
}

// Save dumps the registry's distinct types under key and returns the
// snapshot ID.
func (s *Store) Save(ctx context.Context, key string, registry *pgtypes.TypesRegistry) (uuid.UUID, error) {
	snap := Snapshot{
		ID:      uuid.New(),
		SavedAt: time.Now().UTC(),
	}
	for _, info := range registry.Types() {
		rec := TypeRecord{
			Name:     info.Name,
			OID:      info.OID,
			ArrayOID: info.ArrayOID,
		}
		if info.Regtype != info.Name {
			rec.Regtype = info.Regtype
		}
		if info.Delimiter != "," {
			rec.Delimiter = info.Delimiter
		}
		snap.Types = append(snap.Types, rec)
	}

	payload, err := json.Marshal(snap)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := s.client.Set(ctx, s.config.Prefix+key, payload, s.config.TTL).Err(); err != nil {
		return uuid.Nil, fmt.Errorf("failed to store snapshot: %w", err)
	}
	return snap.ID, nil
}

// Load retrieves the snapshot stored under key.
func (s *Store) Load(ctx context.Context, key string) (*Snapshot, error) {
	payload, err := s.client.Get(ctx, s.config.Prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotMiss{Key: key}
		}
		return nil, err
	}

	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// LoadInto adds the types of the snapshot stored under key to the
// registry and returns how many were added.
func (s *Store) LoadInto(ctx context.Context, key string, registry *pgtypes.TypesRegistry) (int, error) {
	snap, err := s.Load(ctx, key)
	if err != nil {
		return 0, err
	}

	for _, rec := range snap.Types {
		var opts []pgtypes.TypeInfoOption
		if rec.Regtype != "" {
			opts = append(opts, pgtypes.WithRegtype(rec.Regtype))
		}
		if rec.Delimiter != "" {
			opts = append(opts, pgtypes.WithDelimiter(rec.Delimiter))
		}
		registry.Add(pgtypes.NewTypeInfo(rec.Name, rec.OID, rec.ArrayOID, opts...))
	}
	return len(snap.Types), nil
}

// Delete removes the snapshot stored under key.
func (s *Store) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.config.Prefix+key).Err()
}
