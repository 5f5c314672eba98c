package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"blog-api/core"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

const extension = ".json"

type postStore struct {
	basePath string // Directory where posts are stored, one JSON file each.
	mu       sync.RWMutex
}

func NewPostStore(basePath string) (core.PostStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &postStore{basePath: basePath}, nil
}

// path maps an id to its file. Only well-formed ULIDs are accepted so an id can never
// point outside basePath.
func (s *postStore) path(id string) (string, bool) {
	if _, err := ulid.ParseStrict(id); err != nil {
		return "", false
	}
	return filepath.Join(s.basePath, id+extension), true
}

func (s *postStore) read(filePath string) (*core.BlogPost, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	var post core.BlogPost
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filePath, err)
	}
	return &post, nil
}

func (s *postStore) write(filePath string, post *core.BlogPost) error {
	data, err := json.Marshal(post)
	if err != nil {
		return err
	}
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, filePath)
}

func (s *postStore) FindAll(ctx context.Context) ([]*core.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		logrus.WithField("error", err).Error("Failed to list posts")
		return nil, err
	}
	posts := make([]*core.BlogPost, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), extension) {
			continue
		}
		post, err := s.read(filepath.Join(s.basePath, entry.Name()))
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"file":  entry.Name(),
				"error": err,
			}).Error("Failed to read post")
			return nil, err
		}
		posts = append(posts, post)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts, nil
}

func (s *postStore) FindID(ctx context.Context, id string) (*core.BlogPost, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findID(id)
}

func (s *postStore) findID(id string) (*core.BlogPost, error) {
	log := logrus.WithField("post_id", id)
	filePath, ok := s.path(id)
	if !ok {
		log.Warn("Post with malformed ID requested")
		return nil, fmt.Errorf("post with id %s: %w", id, core.ErrNotFound)
	}

	log.WithField("file_path", filePath).Debug("Retrieving post by ID")
	post, err := s.read(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Post with specified ID not found")
			return nil, fmt.Errorf("post with id %s: %w", id, core.ErrNotFound)
		}
		log.WithField("error", err).Error("Failed to retrieve post")
		return nil, err
	}
	return post, nil
}

func (s *postStore) Count(ctx context.Context) (int, error) {
	posts, err := s.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	return len(posts), nil
}

func (s *postStore) Create(ctx context.Context, post *core.BlogPost) (string, error) {
	core.Prepare(post, ulid.Make().String(), time.Now())
	filePath, _ := s.path(post.ID)
	log := logrus.WithFields(logrus.Fields{
		"post_id":   post.ID,
		"file_path": filePath,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(filePath, post); err != nil {
		log.WithField("error", err).Error("Failed to create post")
		return "", err
	}

	log.Info("Post created successfully")
	return post.ID, nil
}

func (s *postStore) Update(ctx context.Context, id string, patch *core.PostPatch) (*core.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.findID(id)
	if err != nil {
		return nil, err
	}
	post.Apply(patch)
	filePath, _ := s.path(id)
	if err := s.write(filePath, post); err != nil {
		logrus.WithFields(logrus.Fields{
			"post_id": id,
			"error":   err,
		}).Error("Failed to update post")
		return nil, err
	}
	logrus.WithField("post_id", id).Info("Post updated successfully")
	return post, nil
}

func (s *postStore) Delete(ctx context.Context, id string) error {
	filePath, ok := s.path(id)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		logrus.WithFields(logrus.Fields{
			"post_id": id,
			"error":   err,
		}).Error("Failed to delete post")
		return err
	}
	logrus.WithField("post_id", id).Info("Post deleted")
	return nil
}

func (s *postStore) Close() error {
	return nil
}
