// Package memstore is an in-process lifecycle.Store. Every InTx works on a
// private copy of the data and publishes it only when fn succeeds, so a
// failed operation leaves nothing behind.
package memstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"os"
	"sort"
	"sync"
	"time"

	"Gin_postgres_redis_asset_tool/lifecycle"
	"Gin_postgres_redis_asset_tool/models"
)

var ErrReadOnly = errors.New("memstore: write in read-only view")

type entry[T any] struct {
	v   T
	seq uint64
}

type table[T any] map[string]entry[T]

type state struct {
	users   table[models.User]
	assets  table[models.Asset]
	loans   table[models.LoanRequest]
	damage  table[models.DamageReport]
	maint   table[models.MaintenanceRecord]
	nextSeq uint64
}

func newState() *state {
	return &state{
		users:  table[models.User]{},
		assets: table[models.Asset]{},
		loans:  table[models.LoanRequest]{},
		damage: table[models.DamageReport]{},
		maint:  table[models.MaintenanceRecord]{},
	}
}

func (s *state) clone() *state {
	return &state{
		users:   maps.Clone(s.users),
		assets:  maps.Clone(s.assets),
		loans:   maps.Clone(s.loans),
		damage:  maps.Clone(s.damage),
		maint:   maps.Clone(s.maint),
		nextSeq: s.nextSeq,
	}
}

func (s *state) seq() uint64 {
	s.nextSeq++
	return s.nextSeq
}

type Store struct {
	mu sync.RWMutex
	st *state
}

func New() *Store { return &Store{st: newState()} }

var _ lifecycle.Store = (*Store)(nil)

func (s *Store) InTx(ctx context.Context, fn func(tx lifecycle.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(&tx{st: work}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) View(ctx context.Context, fn func(tx lifecycle.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&tx{st: s.st, readOnly: true})
}

// PutUser inserts or replaces reference data.
func (s *Store) PutUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	put(s.st, s.st.users, u.ID, u)
}

// PutAsset inserts or replaces an asset. A zero Version starts at 1.
func (s *Store) PutAsset(a models.Asset) {
	if a.Version == 0 {
		a.Version = 1
	}
	if a.Status == "" {
		a.Status = models.AssetAvailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	put(s.st, s.st.assets, a.ID, a)
}

// Seed is the on-disk shape read by LoadSeed.
type Seed struct {
	Users  []models.User  `json:"users"`
	Assets []models.Asset `json:"assets"`
}

// LoadSeed fills the store with users and assets from a JSON file.
func (s *Store) LoadSeed(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read seed: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(b, &seed); err != nil {
		return fmt.Errorf("parse seed %s: %w", path, err)
	}
	for _, u := range seed.Users {
		s.PutUser(u)
	}
	for _, a := range seed.Assets {
		s.PutAsset(a)
	}
	return nil
}

func put[T any](st *state, t table[T], id string, v T) {
	seq := st.seq()
	if old, ok := t[id]; ok {
		seq = old.seq
	}
	t[id] = entry[T]{v: v, seq: seq}
}

func find[T any](t table[T], id string) (*T, error) {
	e, ok := t[id]
	if !ok {
		return nil, lifecycle.ErrNoRecord
	}
	v := e.v
	return &v, nil
}

// scan returns matching rows newest first; insertion order breaks ties.
func scan[T any](t table[T], match func(T) bool, created func(T) time.Time) []T {
	hits := make([]entry[T], 0, len(t))
	for _, e := range t {
		if match(e.v) {
			hits = append(hits, e)
		}
	}
	sort.Slice(hits, func(i, j int) bool {
		ci, cj := created(hits[i].v), created(hits[j].v)
		if !ci.Equal(cj) {
			return ci.After(cj)
		}
		return hits[i].seq > hits[j].seq
	})
	out := make([]T, len(hits))
	for i, e := range hits {
		out[i] = e.v
	}
	return out
}
