package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mdobak/go-xerrors"
	"github.com/rs/zerolog/log"
)

// LocalBucket writes objects under a directory the HTTP server exposes.
type LocalBucket struct {
	root      string
	publicURL string
	maxSize   int64
}

func NewLocalBucket(root, publicURL string, maxSize int64) (*LocalBucket, error) {
	if len(root) == 0 {
		root = "uploads"
	}
	if len(publicURL) == 0 {
		publicURL = "/uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, xerrors.New(fmt.Errorf("unable to prepare upload directory: %w", err))
	}
	return &LocalBucket{root: root, publicURL: strings.TrimSuffix(publicURL, "/"), maxSize: maxSize}, nil
}

func (v *LocalBucket) Root() string {
	return v.root
}

func (v *LocalBucket) Upload(ctx context.Context, folder, filename, _ string, r io.Reader) (string, error) {
	mimetype, ext, body, err := sniffImage(r)
	if err != nil {
		return "", err
	}

	folder = cleanFolder(folder)
	if err := os.MkdirAll(filepath.Join(v.root, folder), 0o755); err != nil {
		return "", xerrors.New(err)
	}

	name := objectName(filename, ext)
	dst := filepath.Join(v.root, folder, name)
	out, err := os.Create(dst)
	if err != nil {
		return "", xerrors.New(fmt.Errorf("unable to create object: %w", err))
	}

	_, err = io.Copy(out, capReader(body, v.maxSize))
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		_ = os.Remove(dst)
		return "", xerrors.New(err)
	}

	log.Debug().Str("object", folder+"/"+name).Str("type", mimetype).Msg("Stored an object locally.")
	return v.publicURL + "/" + folder + "/" + name, nil
}
