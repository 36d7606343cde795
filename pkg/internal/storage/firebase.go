package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/mdobak/go-xerrors"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// FirebaseBucket stores objects in the default bucket of a Firebase project.
type FirebaseBucket struct {
	name    string
	bucket  *gcs.BucketHandle
	maxSize int64
}

func NewFirebaseBucket(ctx context.Context, projectID, bucket, credentials string, maxSize int64) (*FirebaseBucket, error) {
	var opts []option.ClientOption
	if len(credentials) > 0 {
		opts = append(opts, option.WithCredentialsFile(credentials))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     projectID,
		StorageBucket: bucket,
	}, opts...)
	if err != nil {
		return nil, xerrors.New(fmt.Errorf("unable to initialize firebase: %w", err))
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, xerrors.New(fmt.Errorf("unable to initialize firebase storage: %w", err))
	}
	handle, err := client.DefaultBucket()
	if err != nil {
		return nil, xerrors.New(fmt.Errorf("unable to open bucket: %w", err))
	}

	return &FirebaseBucket{name: bucket, bucket: handle, maxSize: maxSize}, nil
}

func (v *FirebaseBucket) Upload(ctx context.Context, folder, filename, _ string, r io.Reader) (string, error) {
	mimetype, ext, body, err := sniffImage(r)
	if err != nil {
		return "", err
	}

	path := cleanFolder(folder) + "/" + objectName(filename, ext)

	// Cancelling the context aborts the upload and discards the partial object.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := v.bucket.Object(path).NewWriter(ctx)
	w.ContentType = mimetype
	w.CacheControl = "public, max-age=31536000"
	if _, err := io.Copy(w, capReader(body, v.maxSize)); err != nil {
		cancel()
		_ = w.Close()
		return "", xerrors.New(err)
	}
	if err := w.Close(); err != nil {
		return "", xerrors.New(fmt.Errorf("unable to upload object: %w", err))
	}

	log.Debug().Str("object", path).Str("bucket", v.name).Msg("Uploaded an object to firebase.")
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", v.name, path), nil
}
