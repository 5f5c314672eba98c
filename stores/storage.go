package stores

import (
	"context"
	"os"

	"blog-api/core"
	"blog-api/stores/aws"
	"blog-api/stores/filesystem"
	"blog-api/stores/memory"
	"blog-api/stores/mongodb"
	"blog-api/stores/postgres"
	"blog-api/stores/sqlite"

	"github.com/sirupsen/logrus"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GetStore opens the post store selected by STORAGE_TYPE. The caller owns the returned
// store and closes it on shutdown.
func GetStore(ctx context.Context) (core.PostStore, error) {
	storageType := os.Getenv("STORAGE_TYPE")
	var (
		store core.PostStore
		err   error
	)

	storageField := logrus.Fields{
		"storageType": storageType,
	}

	switch storageType {
	case "filesystem":
		basePath := getenv("LOCAL_STORAGE_PATH", "./data")
		storageField["basePath"] = basePath
		store, err = filesystem.NewPostStore(basePath)
	case "sqlite":
		dataSourceName := getenv("DATA_SOURCE_NAME", "blog.db")
		storageField["dataSourceName"] = dataSourceName
		store, err = sqlite.NewPostStore(dataSourceName)
	case "postgres":
		// the DSN may carry credentials, so it is not logged
		store, err = postgres.NewPostStore(ctx, os.Getenv("DATABASE_URL"))
	case "mongodb":
		database := getenv("MONGODB_DATABASE", "blog")
		storageField["database"] = database
		store, err = mongodb.NewPostStore(ctx, getenv("MONGODB_URI", "mongodb://localhost:27017"), database)
	case "s3":
		bucketName := os.Getenv("S3_BUCKET_NAME")
		endpoint := os.Getenv("S3_ENDPOINT")
		storageField["bucketName"] = bucketName
		storageField["endpoint"] = endpoint
		store, err = aws.NewPostStore(ctx, bucketName, endpoint)
	default:
		store = memory.NewPostStore()
		storageField["storageType"] = "in-memory"
	}
	if err != nil {
		logrus.WithFields(storageField).WithField("error", err).Error("Failed to open storage")
		return nil, err
	}
	logrus.WithFields(storageField).Info("Use storage")
	return store, nil
}
