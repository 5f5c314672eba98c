package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blog-api/core"

	_ "github.com/lib/pq"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

const schema = `CREATE TABLE IF NOT EXISTS blog_post (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	content    TEXT NOT NULL,
	created    TIMESTAMPTZ NOT NULL
)`

const columns = `id, title, first_name, last_name, content, created`

type postStore struct {
	db *sql.DB
}

func NewPostStore(ctx context.Context, dataSourceName string) (core.PostStore, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}
	return &postStore{db}, nil
}

func scanPost(row interface{ Scan(...any) error }) (*core.BlogPost, error) {
	var post core.BlogPost
	if err := row.Scan(&post.ID, &post.Title, &post.Author.FirstName, &post.Author.LastName, &post.Content, &post.Created); err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *postStore) FindAll(ctx context.Context) ([]*core.BlogPost, error) {
	all := make([]*core.BlogPost, 0)
	rows, err := s.db.QueryContext(ctx, `SELECT `+columns+` FROM blog_post ORDER BY id`)
	if err != nil {
		logrus.WithField("error", err).Error("Failed to list posts")
		return all, err
	}
	defer rows.Close()
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return all, err
		}
		all = append(all, post)
	}
	return all, rows.Err()
}

func (s *postStore) FindID(ctx context.Context, id string) (*core.BlogPost, error) {
	post, err := scanPost(s.db.QueryRowContext(ctx, `SELECT `+columns+` FROM blog_post WHERE id = $1`, id))
	return s.result(id, post, err)
}

func (s *postStore) result(id string, post *core.BlogPost, err error) (*core.BlogPost, error) {
	if err == nil {
		return post, nil
	}
	log := logrus.WithField("post_id", id)
	if errors.Is(err, sql.ErrNoRows) {
		log.Warn("Post with specified ID not found")
		return nil, fmt.Errorf("post with id %s: %w", id, core.ErrNotFound)
	}
	log.WithField("error", err).Error("Failed to retrieve post")
	return nil, err
}

func (s *postStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM blog_post`).Scan(&count)
	return count, err
}

func (s *postStore) Create(ctx context.Context, post *core.BlogPost) (string, error) {
	core.Prepare(post, ulid.Make().String(), time.Now())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO blog_post (`+columns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		post.ID, post.Title, post.Author.FirstName, post.Author.LastName, post.Content, post.Created)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"post_id": post.ID,
			"error":   err,
		}).Error("Failed to create post")
		return "", err
	}
	logrus.WithField("post_id", post.ID).Info("Post created successfully")
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
	row := s.db.QueryRowContext(ctx,
		`UPDATE blog_post SET
			title = COALESCE($2, title),
			content = COALESCE($3, content),
			first_name = COALESCE($4, first_name),
			last_name = COALESCE($5, last_name)
		WHERE id = $1
		RETURNING `+columns,
		id, patch.Title, patch.Content, firstName, lastName)
	post, err := scanPost(row)
	post, err = s.result(id, post, err)
	if err == nil {
		logrus.WithField("post_id", id).Info("Post updated successfully")
	}
	return post, err
}

func (s *postStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blog_post WHERE id = $1`, id); err != nil {
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
