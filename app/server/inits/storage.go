package inits

import (
	"context"
	"fmt"

	"personal-blog/app/server/config"
	"personal-blog/app/server/storage"
)

func Storage(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Driver {
	case "s3":
		s, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.Storage.S3Bucket,
			Region:    cfg.Storage.S3Region,
			Endpoint:  cfg.Storage.S3Endpoint,
			AccessKey: cfg.Storage.S3AccessKey,
			SecretKey: cfg.Storage.S3SecretKey,
			PathStyle: cfg.Storage.S3PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	case "local", "":
		s, err := storage.NewLocalStore(cfg.Storage.LocalDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown media store: %s", cfg.Storage.Driver)
	}
}
