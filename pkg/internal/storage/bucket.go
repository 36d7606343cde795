package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mdobak/go-xerrors"
	"github.com/spf13/viper"
)

var (
	ErrUnsupportedType = xerrors.Message("unsupported image type")
	ErrTooLarge        = xerrors.Message("file exceeds the size limit")
)

// Bucket stores binary objects and hands back their public URL.
type Bucket interface {
	Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (string, error)
}

var acceptedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// NewBucket builds the bucket selected by storage.driver.
func NewBucket(ctx context.Context) (Bucket, error) {
	maxSize := viper.GetInt64("storage.max_size")
	switch driver := viper.GetString("storage.driver"); driver {
	case "", "local":
		bucket, err := NewLocalBucket(
			viper.GetString("storage.local.path"),
			viper.GetString("storage.local.public_url"),
			maxSize,
		)
		if err != nil {
			return nil, err
		}
		return bucket, nil
	case "firebase":
		bucket, err := NewFirebaseBucket(
			ctx,
			viper.GetString("storage.firebase.project_id"),
			viper.GetString("storage.firebase.bucket"),
			viper.GetString("storage.firebase.credentials"),
			maxSize,
		)
		if err != nil {
			return nil, err
		}
		return bucket, nil
	default:
		return nil, xerrors.New(fmt.Errorf("unknown storage driver %q", driver))
	}
}

// sniffImage peeks at the head of the stream and returns the detected type
// together with a reader that still yields the whole content.
func sniffImage(r io.Reader) (string, string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", "", nil, xerrors.New(err)
	}
	head = head[:n]

	mimetype := http.DetectContentType(head)
	ext, ok := acceptedTypes[mimetype]
	if !ok {
		return "", "", nil, xerrors.New(fmt.Errorf("%w: %s", ErrUnsupportedType, mimetype))
	}
	return mimetype, ext, io.MultiReader(bytes.NewReader(head), r), nil
}

// objectName keeps a readable part of the original filename behind a unique prefix.
func objectName(filename, ext string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') {
			return r
		}
		return '-'
	}, base)
	base = strings.Trim(base, "-")
	if len(base) == 0 || base == "." {
		base = "img"
	}
	if len(base) > 48 {
		base = base[:48]
	}
	return uuid.NewString() + "_" + base + ext
}

func cleanFolder(folder string) string {
	folder = strings.Trim(filepath.ToSlash(filepath.Clean("/"+folder)), "/")
	if len(folder) == 0 {
		return "misc"
	}
	return folder
}

type cappedReader struct {
	r    io.Reader
	left int64
}

// capReader fails with ErrTooLarge once more than max bytes are read. Zero disables the cap.
func capReader(r io.Reader, max int64) io.Reader {
	if max <= 0 {
		return r
	}
	return &cappedReader{r: r, left: max}
}

func (v *cappedReader) Read(p []byte) (int, error) {
	n, err := v.r.Read(p)
	v.left -= int64(n)
	if v.left < 0 {
		return n, xerrors.New(ErrTooLarge)
	}
	return n, err
}
