package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blog-api/core"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

const schema = `CREATE TABLE IF NOT EXISTS posts (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	content    TEXT NOT NULL,
	created    DATETIME NOT NULL
);`

const selectPosts = `SELECT id, title, first_name, last_name, content, created FROM posts`

type postStore struct {
	db *sql.DB
}

func NewPostStore(dataSourceName string) (core.PostStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, err
	}
	// sqlite allows a single writer; one connection also keeps ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &postStore{db}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*core.BlogPost, error) {
	var post core.BlogPost
	err := row.Scan(&post.ID, &post.Title, &post.Author.FirstName, &post.Author.LastName, &post.Content, &post.Created)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *postStore) FindAll(ctx context.Context) ([]*core.BlogPost, error) {
	rows, err := s.db.QueryContext(ctx, selectPosts+" ORDER BY id")
	if err != nil {
		logrus.WithField("error", err).Error("Failed to list posts")
		return nil, err
	}
	defer rows.Close()

	posts := make([]*core.BlogPost, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (s *postStore) FindID(ctx context.Context, id string) (*core.BlogPost, error) {
	log := logrus.WithField("post_id", id)
	log.Debug("Retrieving post by ID")
	post, err := scanPost(s.db.QueryRowContext(ctx, selectPosts+" WHERE id = ?", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Warn("Post with specified ID not found")
			return nil, fmt.Errorf("post with id %s: %w", id, core.ErrNotFound)
		}
		log.WithField("error", err).Error("Failed to retrieve post")
		return nil, err
	}
	return post, nil
}

func (s *postStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count)
	return count, err
}

func (s *postStore) Create(ctx context.Context, post *core.BlogPost) (string, error) {
	core.Prepare(post, ulid.Make().String(), time.Now())
	log := logrus.WithField("post_id", post.ID)

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO posts (id, title, first_name, last_name, content, created) VALUES (?, ?, ?, ?, ?, ?)",
		post.ID, post.Title, post.Author.FirstName, post.Author.LastName, post.Content, post.Created)
	if err != nil {
		log.WithField("error", err).Error("Failed to create post")
		return "", err
	}
	log.Info("Post created successfully")
	return post.ID, nil
}

func (s *postStore) Update(ctx context.Context, id string, patch *core.PostPatch) (*core.BlogPost, error) {
	if patch.Empty() {
		return s.FindID(ctx, id)
	}
	var firstName, lastName *string
	if patch.Author != nil {
		firstName, lastName = &patch.Author.FirstName, &patch.Author.LastName
	}

	log := logrus.WithField("post_id", id)
	res, err := s.db.ExecContext(ctx,
		`UPDATE posts SET
			title = COALESCE(?, title),
			content = COALESCE(?, content),
			first_name = COALESCE(?, first_name),
			last_name = COALESCE(?, last_name)
		WHERE id = ?`,
		patch.Title, patch.Content, firstName, lastName, id)
	if err != nil {
		log.WithField("error", err).Error("Failed to update post")
		return nil, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		log.WithField("error", err).Error("Failed to update post")
		return nil, err
	}
	if n == 0 {
		log.Warn("Post with specified ID not found")
		return nil, fmt.Errorf("post with id %s: %w", id, core.ErrNotFound)
	}
	log.Info("Post updated successfully")
	return s.FindID(ctx, id)
}

func (s *postStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM posts WHERE id = ?", id); err != nil {
		logrus.WithFields(logrus.Fields{
			"post_id": id,
			"error":   err,
		}).Error("Failed to delete post")
		return err
	}
	return nil
}

func (s *postStore) Close() error {
	return s.db.Close()
}
