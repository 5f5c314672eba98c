package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"blog-api/core"

	"github.com/oklog/ulid/v2"
)

type postStore struct {
	mu    sync.RWMutex
	posts map[string]core.BlogPost
}

func NewPostStore() core.PostStore {
	return &postStore{posts: make(map[string]core.BlogPost)}
}

func (s *postStore) FindAll(ctx context.Context) ([]*core.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	posts := make([]*core.BlogPost, 0, len(s.posts))
	for _, val := range s.posts {
		post := val
		posts = append(posts, &post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (s *postStore) FindID(ctx context.Context, id string) (*core.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if val, ok := s.posts[id]; ok {
		return &val, nil
	}
	return nil, fmt.Errorf("post with id %s: %w", id, core.ErrNotFound)
}

func (s *postStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts), nil
}

func (s *postStore) Create(ctx context.Context, post *core.BlogPost) (string, error) {
	core.Prepare(post, ulid.Make().String(), time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = *post
	return post.ID, nil
}

func (s *postStore) Update(ctx context.Context, id string, patch *core.PostPatch) (*core.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	val, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post with id %s: %w", id, core.ErrNotFound)
	}
	val.Apply(patch)
	s.posts[id] = val
	return &val, nil
}

func (s *postStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.posts, id)
	return nil
}

func (s *postStore) Close() error {
	return nil
}
