package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("exports", ".xlsx")
	assert.True(t, strings.HasPrefix(key, "exports/"))
	assert.True(t, strings.HasSuffix(key, ".xlsx"))
	assert.NotEqual(t, key, ObjectKey("exports", ".xlsx"))
}

func TestS3Storage_FileURL(t *testing.T) {
	direct := NewS3Storage(Options{Region: "ap-south-1", Bucket: "carts", AccessKeyID: "AK", SecretAccessKey: "SK"})
	assert.Equal(t, "https://carts.s3.ap-south-1.amazonaws.com/exports/a.xlsx", direct.FileURL("exports/a.xlsx"))

	cdn := NewS3Storage(Options{Region: "ap-south-1", Bucket: "carts", AccessKeyID: "AK", SecretAccessKey: "SK", BaseURL: "https://cdn.example.com"})
	assert.Equal(t, "https://cdn.example.com/exports/a.xlsx", cdn.FileURL("exports/a.xlsx"))
}

func TestS3Storage_PresignGet(t *testing.T) {
	s := NewS3Storage(Options{Region: "ap-south-1", Bucket: "carts", AccessKeyID: "AK", SecretAccessKey: "SK"})

	url, err := s.PresignGet(context.Background(), "exports/a.xlsx", 15*time.Minute)
	require.NoError(t, err)
	assert.Contains(t, url, "exports/a.xlsx")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=900")
}

func TestS3Storage_Upload(t *testing.T) {
	var (
		mu       sync.Mutex
		gotPath  string
		gotBody  string
		gotCType string
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotPath = r.URL.Path
		gotBody = string(body)
		gotCType = r.Header.Get("Content-Type")
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	s := NewS3Storage(Options{
		Region:          "ap-south-1",
		Bucket:          "carts",
		AccessKeyID:     "AK",
		SecretAccessKey: "SK",
		Endpoint:        server.URL,
		BaseURL:         "https://cdn.example.com",
	})

	url, err := s.Upload(context.Background(), "exports/a.txt", "text/plain", strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/exports/a.txt", url)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "/carts/exports/a.txt", gotPath)
	assert.Equal(t, "text/plain", gotCType)
	assert.Contains(t, gotBody, "hello")
}
