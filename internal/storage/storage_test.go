package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/contracts-service/internal/config"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("c1", "scan.pdf")
	parts := strings.Split(key, "/")
	require.Len(t, parts, 3)
	assert.Equal(t, "c1", parts[0])
	assert.Len(t, parts[1], 36)
	assert.Equal(t, "scan.pdf", parts[2])

	assert.NotEqual(t, key, ObjectKey("c1", "scan.pdf"))
	assert.True(t, strings.HasSuffix(ObjectKey("c1", `C:\docs\act.docx`), "/act.docx"))
	assert.True(t, strings.HasSuffix(ObjectKey("c1", ""), "/file"))
}

func TestMemoryLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	key, err := m.Upload(ctx, []byte("hello"), "contract", "a.txt")
	require.NoError(t, err)

	data, ok := m.Object(key)
	require.True(t, ok)
	assert.Equal(t, "hello", string(data))

	link, err := m.PresignedURL(ctx, key)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(link, "http://storage.local/"+key+"?expires="))

	require.NoError(t, m.Delete(ctx, key))
	require.NoError(t, m.Delete(ctx, key))
	assert.Zero(t, m.Len())
	_, err = m.PresignedURL(ctx, key)
	assert.ErrorIs(t, err, ErrObjectMissing)
	assert.ErrorIs(t, m.Delete(ctx, ""), ErrEmptyKey)
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
		f.types[r.URL.Path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3(t *testing.T) (*S3, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3(context.Background(), config.StorageConfig{
		Endpoint:     srv.URL,
		Bucket:       "contracts",
		AccessKey:    "key",
		SecretKey:    "secret",
		UsePathStyle: true,
	}, WithPresignExpiration(5*time.Minute))
	require.NoError(t, err)
	return s, fake
}

func TestS3UploadAndDelete(t *testing.T) {
	s, fake := newTestS3(t)
	ctx := context.Background()

	pdf := []byte("%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n")
	key, err := s.Upload(ctx, pdf, "contract-1", "scan.pdf")
	require.NoError(t, err)

	objectPath := fmt.Sprintf("/contracts/%s", key)
	assert.Equal(t, pdf, fake.objects[objectPath])
	assert.Equal(t, "application/pdf", fake.types[objectPath])

	require.NoError(t, s.Delete(ctx, key))
	assert.NotContains(t, fake.objects, objectPath)
}

func TestS3PresignedURL(t *testing.T) {
	s, _ := newTestS3(t)

	link, err := s.PresignedURL(context.Background(), "contract-1/x/scan.pdf")
	require.NoError(t, err)
	assert.Contains(t, link, "/contracts/contract-1/x/scan.pdf")
	assert.Contains(t, link, "X-Amz-Expires=300")

	_, err = s.PresignedURL(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyKey)
}

func TestNewS3Validation(t *testing.T) {
	_, err := NewS3(context.Background(), config.StorageConfig{AccessKey: "k", SecretKey: "s"})
	assert.Error(t, err)

	_, err = NewS3(context.Background(), config.StorageConfig{Bucket: "b"})
	assert.Error(t, err)
}
