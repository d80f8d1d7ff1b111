// Package storage keeps contract file contents in object storage.
package storage

import (
	"errors"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrEmptyKey      = errors.New("storage key is required")
	ErrObjectMissing = errors.New("object not found")
)

// ObjectKey builds "<namespace>/<random>/<filename>" so two uploads never collide.
func ObjectKey(namespace, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "file"
	}
	return namespace + "/" + uuid.NewString() + "/" + name
}
