package service

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/benbeisheim/duckchess-backend/internal/model"
	"github.com/google/uuid"
)

type Status string

const (
	StatusRequest   Status = "request"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Record is one stored game in any of its lifecycle stages. Request is set
// while the game waits for a joiner, Game from then on.
type Record struct {
	ID        string             `json:"id"`
	Version   int                `json:"version"`
	Status    Status             `json:"status"`
	Request   *model.GameRequest `json:"request,omitempty"`
	Game      *model.AnyGame     `json:"game,omitempty"`
	Winner    model.Color        `json:"winner,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func (r Record) clone() Record {
	if r.Request != nil {
		request := *r.Request
		r.Request = &request
	}
	if r.Game != nil {
		r.Game = r.Game.Clone()
	}
	return r
}

// Involves reports whether player made or plays in the game.
func (r Record) Involves(player string) bool {
	if r.Game != nil {
		return r.Game.InGame(player)
	}
	return r.Request != nil && r.Request.Maker == player
}

// Store keeps versioned records in memory. Every read and write copies the
// record, so callers may mutate what they get back.
type Store struct {
	records  map[string]Record
	watchers map[string]map[int]chan Record
	nextID   int
	mu       sync.RWMutex
}

func NewStore() *Store {
	return &Store{
		records:  make(map[string]Record),
		watchers: make(map[string]map[int]chan Record),
	}
}

// Insert stores rec under a fresh id at version 1.
func (s *Store) Insert(rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if _, exists := s.records[rec.ID]; exists {
		return Record{}, fmt.Errorf("insert %s: record already exists", rec.ID)
	}
	now := time.Now()
	rec.Version = 1
	rec.CreatedAt = now
	rec.UpdatedAt = now
	s.records[rec.ID] = rec.clone()
	return rec, nil
}

func (s *Store) Find(id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.records[id]
	if !exists {
		return Record{}, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return rec.clone(), nil
}

// Replace swaps in rec if the stored record is still at expected, then
// publishes the new snapshot to the record's watchers.
func (s *Store) Replace(id string, expected int, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.records[id]
	if !exists {
		return Record{}, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	if current.Version != expected {
		return Record{}, fmt.Errorf("replace %s at version %d: %w", id, expected, ErrStaleRecord)
	}
	rec.ID = id
	rec.Version = expected + 1
	rec.CreatedAt = current.CreatedAt
	rec.UpdatedAt = time.Now()
	s.records[id] = rec.clone()

	for _, ch := range s.watchers[id] {
		publish(ch, rec.clone())
	}
	return rec, nil
}

// publish keeps only the newest snapshot for a watcher that has fallen behind.
func publish(ch chan Record, rec Record) {
	select {
	case ch <- rec:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- rec:
	default:
	}
}

// List returns the records accepted by filter, oldest first.
func (s *Store) List(filter func(Record) bool) []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var recs []Record
	for _, rec := range s.records {
		if filter == nil || filter(rec) {
			recs = append(recs, rec.clone())
		}
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].ID < recs[j].ID
		}
		return recs[i].CreatedAt.Before(recs[j].CreatedAt)
	})
	return recs
}

// Watch streams every later snapshot of the record until cancel is called.
func (s *Store) Watch(id string) (<-chan Record, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return nil, nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	ch := make(chan Record, 1)
	key := s.nextID
	s.nextID++
	if s.watchers[id] == nil {
		s.watchers[id] = make(map[int]chan Record)
	}
	s.watchers[id][key] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.watchers[id], key)
			if len(s.watchers[id]) == 0 {
				delete(s.watchers, id)
			}
			close(ch)
		})
	}
	return ch, cancel, nil
}
