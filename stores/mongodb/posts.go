package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blog-api/core"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionName = "blogposts"

type postStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewPostStore(ctx context.Context, uri, database string) (core.PostStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to reach mongodb: %w", err)
	}
	return &postStore{
		client:     client,
		collection: client.Database(database).Collection(collectionName),
	}, nil
}

func (s *postStore) notFound(id string, err error) error {
	log := logrus.WithField("post_id", id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		log.Warn("Post with specified ID not found")
		return fmt.Errorf("post with id %s: %w", id, core.ErrNotFound)
	}
	log.WithField("error", err).Error("Failed to retrieve post")
	return err
}

func (s *postStore) FindAll(ctx context.Context) ([]*core.BlogPost, error) {
	cursor, err := s.collection.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		logrus.WithField("error", err).Error("Failed to list posts")
		return nil, err
	}
	posts := make([]*core.BlogPost, 0)
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *postStore) FindID(ctx context.Context, id string) (*core.BlogPost, error) {
	var post core.BlogPost
	if err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, s.notFound(id, err)
	}
	return &post, nil
}

func (s *postStore) Count(ctx context.Context) (int, error) {
	count, err := s.collection.CountDocuments(ctx, bson.D{})
	return int(count), err
}

func (s *postStore) Create(ctx context.Context, post *core.BlogPost) (string, error) {
	core.Prepare(post, ulid.Make().String(), time.Now())
	log := logrus.WithField("post_id", post.ID)
	if _, err := s.collection.InsertOne(ctx, post); err != nil {
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
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if patch.Author != nil {
		set["author"] = *patch.Author
	}

	var post core.BlogPost
	err := s.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		return nil, s.notFound(id, err)
	}
	logrus.WithField("post_id", id).Info("Post updated successfully")
	return &post, nil
}

func (s *postStore) Delete(ctx context.Context, id string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		logrus.WithFields(logrus.Fields{
			"post_id": id,
			"error":   err,
		}).Error("Failed to delete post")
		return err
	}
	return nil
}

func (s *postStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
