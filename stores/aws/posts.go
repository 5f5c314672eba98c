package aws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"blog-api/core"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

const prefix = "posts/"

// objectAPI is the part of *s3.Client the store uses.
type objectAPI interface {
	s3.ListObjectsV2APIClient
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type postStore struct {
	s3Client objectAPI
	bucket   string // Name of the S3 bucket
	mu       sync.Mutex
}

// NewPostStore loads the default AWS configuration. A non-empty endpoint points the client
// at an S3 compatible service using path-style addressing.
func NewPostStore(ctx context.Context, bucketName, endpoint string) (core.PostStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	return newPostStore(s3Client, bucketName), nil
}

func newPostStore(client objectAPI, bucketName string) *postStore {
	return &postStore{
		s3Client: client,
		bucket:   bucketName,
	}
}

func key(id string) string {
	return prefix + id + ".json"
}

func (s *postStore) keys(ctx context.Context) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.s3Client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list posts: %w", err)
		}
		for _, obj := range page.Contents {
			k := aws.ToString(obj.Key)
			if strings.HasSuffix(k, ".json") {
				keys = append(keys, k)
			}
		}
	}
	return keys, nil
}

func (s *postStore) get(ctx context.Context, objectKey string) (*core.BlogPost, error) {
	resp, err := s.s3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read post data: %w", err)
	}
	var post core.BlogPost
	if err := json.Unmarshal(data, &post); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", objectKey, err)
	}
	return &post, nil
}

func (s *postStore) put(ctx context.Context, post *core.BlogPost) error {
	data, err := json.Marshal(post)
	if err != nil {
		return err
	}
	_, err = s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key(post.ID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload post: %w", err)
	}
	return nil
}

func (s *postStore) FindAll(ctx context.Context) ([]*core.BlogPost, error) {
	keys, err := s.keys(ctx)
	if err != nil {
		return nil, err
	}
	posts := make([]*core.BlogPost, 0, len(keys))
	for _, k := range keys {
		post, err := s.get(ctx, k)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *postStore) FindID(ctx context.Context, id string) (*core.BlogPost, error) {
	post, err := s.get(ctx, key(id))
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			logrus.WithField("post_id", id).Warn("Post with specified ID not found")
			return nil, fmt.Errorf("post with id %s: %w", id, core.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post with id %s: %w", id, err)
	}
	return post, nil
}

func (s *postStore) Count(ctx context.Context) (int, error) {
	keys, err := s.keys(ctx)
	return len(keys), err
}

func (s *postStore) Create(ctx context.Context, post *core.BlogPost) (string, error) {
	core.Prepare(post, ulid.Make().String(), time.Now())
	if err := s.put(ctx, post); err != nil {
		return "", err
	}
	logrus.WithField("post_id", post.ID).Info("Post created successfully")
	return post.ID, nil
}

// Update is a read-modify-write; the mutex only orders writers of this process.
func (s *postStore) Update(ctx context.Context, id string, patch *core.PostPatch) (*core.BlogPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, err := s.FindID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Empty() {
		return post, nil
	}
	post.Apply(patch)
	if err := s.put(ctx, post); err != nil {
		return nil, err
	}
	logrus.WithField("post_id", id).Info("Post updated successfully")
	return post, nil
}

func (s *postStore) Delete(ctx context.Context, id string) error {
	_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key(id)),
	})
	if err != nil {
		return fmt.Errorf("failed to delete post with id %s: %w", id, err)
	}
	return nil
}

func (s *postStore) Close() error {
	return nil
}
