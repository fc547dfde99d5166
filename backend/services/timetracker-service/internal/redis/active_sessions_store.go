package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the project has no cached session.
var ErrMiss = errors.New("active session not cached")

// ActiveSession is the cached view of a project's open session.
type ActiveSession struct {
	SessionID   int64     `json:"session_id"`
	ProjectID   int64     `json:"project_id"`
	ProjectName string    `json:"project_name"`
	StartTime   time.Time `json:"start_time"`
}

// Store caches open sessions keyed by project.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewStore returns redis-backed store. Entries expire after ttl.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, prefix: "timetracker:active", ttl: ttl}
}

func (s *Store) key(projectID int64) string {
	return fmt.Sprintf("%s:%d", s.prefix, projectID)
}

// Save caches session.
func (s *Store) Save(ctx context.Context, session ActiveSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.ProjectID), data, s.ttl).Err()
}

// Get returns the cached session for a project, or ErrMiss.
func (s *Store) Get(ctx context.Context, projectID int64) (*ActiveSession, error) {
	result, err := s.client.Get(ctx, s.key(projectID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var session ActiveSession
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes cached session.
func (s *Store) Delete(ctx context.Context, projectID int64) error {
	return s.client.Del(ctx, s.key(projectID)).Err()
}
