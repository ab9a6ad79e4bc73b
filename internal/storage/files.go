package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalFileStore keeps uploaded files on local disk and hands back
// public URLs under the configured base path. It satisfies
// services.FileStore; swapping in object storage only touches this type.
type LocalFileStore struct {
	dir     string
	baseURL string
}

// NewLocalFileStore constructs LocalFileStore.
func NewLocalFileStore(dir, baseURL string) *LocalFileStore {
	return &LocalFileStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// SaveFile stores one uploaded file under folder and returns its URL.
func (s *LocalFileStore) SaveFile(file *multipart.FileHeader, folder string) (string, error) {
	target := filepath.Join(s.dir, folder)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(file.Filename))

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(target, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", s.baseURL, folder, name), nil
}
