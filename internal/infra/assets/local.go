package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"storefront-service/internal/domain"

	"github.com/google/uuid"
)

const (
	KindProducts = "products"
	KindUsers    = "users"

	MaxUploadSize = 2 << 20
)

var allowedTypes = map[string]string{
	"image/jpeg": ".jpeg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// Upload is an image received from a client.
type Upload struct {
	Filename string
	Reader   io.Reader
}

// LocalStore keeps uploaded images under root/<kind>/<name>.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	for _, kind := range []string{KindProducts, KindUsers} {
		if err := os.MkdirAll(filepath.Join(root, kind), 0o755); err != nil {
			return nil, err
		}
	}
	return &LocalStore{root: root}, nil
}

func (s *LocalStore) Root() string { return s.root }

// Save validates the image type and size and returns the stored file name.
func (s *LocalStore) Save(ctx context.Context, kind string, up *Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := io.ReadAll(io.LimitReader(up.Reader, MaxUploadSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxUploadSize {
		return "", domain.Validation("image must not exceed %d bytes", MaxUploadSize)
	}
	ext, ok := allowedTypes[http.DetectContentType(data)]
	if !ok {
		return "", domain.Validation("image must be jpeg, png or webp")
	}

	name := fmt.Sprintf("%s-%s%s", singular(kind), uuid.NewString(), ext)
	if err := os.WriteFile(s.path(kind, name), data, 0o644); err != nil {
		return "", err
	}
	return name, nil
}

// Delete removes a stored image. A missing file is not an error.
func (s *LocalStore) Delete(ctx context.Context, kind, name string) error {
	if name == "" {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(s.path(kind, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStore) path(kind, name string) string {
	return filepath.Join(s.root, kind, filepath.Base(name))
}

func singular(kind string) string {
	switch kind {
	case KindProducts:
		return "product"
	case KindUsers:
		return "user"
	}
	return kind
}
