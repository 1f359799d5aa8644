package objectstore_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/specialistvlad/palletforge/internal/objectstore"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := objectstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "generations/abc.zip", []byte("archive"), "application/zip"))

	loc, err := store.PresignedURL(ctx, "generations/abc.zip", time.Minute)
	require.NoError(t, err)

	u, err := url.Parse(loc)
	require.NoError(t, err)
	require.Equal(t, "file", u.Scheme)
	data, err := os.ReadFile(u.Path)
	require.NoError(t, err)
	require.Equal(t, "archive", string(data))
}

func TestFileStore_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store, err := objectstore.NewFileStore(t.TempDir())
	require.NoError(t, err)

	err = store.Put(ctx, "../outside.zip", []byte("x"), "application/zip")
	var uploadErr *objectstore.UploadError
	require.ErrorAs(t, err, &uploadErr)
	require.Equal(t, "put", uploadErr.Op)

	_, err = store.PresignedURL(ctx, "missing.zip", time.Minute)
	require.ErrorAs(t, err, &uploadErr)
	require.Equal(t, "presign", uploadErr.Op)
}

type recordedRequest struct {
	method      string
	path        string
	contentType string
}

func fakeS3(t *testing.T, status int) (*httptest.Server, func() []recordedRequest) {
	t.Helper()

	var mu sync.Mutex
	var requests []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, recordedRequest{method: r.Method, path: r.URL.Path, contentType: r.Header.Get("Content-Type")})
		mu.Unlock()
		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>AccessDenied</Code><Message>denied</Message></Error>`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), requests...)
	}
}

func testAWSConfig() aws.Config {
	return aws.Config{
		Region: "us-east-1",
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "AKIDEXAMPLE", SecretAccessKey: "secret", Source: "test"}, nil
		}),
	}
}

func TestS3Store_Put(t *testing.T) {
	t.Parallel()
	srv, requests := fakeS3(t, http.StatusOK)

	store := objectstore.NewS3StoreFromConfig(testAWSConfig(), objectstore.S3Config{
		Bucket:   "artifacts",
		Endpoint: srv.URL,
		Prefix:   "palletforge/",
	})

	require.NoError(t, store.Put(context.Background(), "task.zip", []byte("archive"), "application/zip"))

	got := requests()
	require.Len(t, got, 1)
	require.Equal(t, http.MethodPut, got[0].method)
	require.Equal(t, "/artifacts/palletforge/task.zip", got[0].path)
	require.Equal(t, "application/zip", got[0].contentType)
}

func TestS3Store_PutFailure(t *testing.T) {
	t.Parallel()
	srv, _ := fakeS3(t, http.StatusForbidden)

	store := objectstore.NewS3StoreFromConfig(testAWSConfig(), objectstore.S3Config{Bucket: "artifacts", Endpoint: srv.URL})

	err := store.Put(context.Background(), "task.zip", []byte("archive"), "application/zip")
	var uploadErr *objectstore.UploadError
	require.ErrorAs(t, err, &uploadErr)
	require.Equal(t, "task.zip", uploadErr.Key)
	require.Contains(t, err.Error(), "AccessDenied")
}

func TestS3Store_PresignedURL(t *testing.T) {
	t.Parallel()
	srv, requests := fakeS3(t, http.StatusOK)

	store := objectstore.NewS3StoreFromConfig(testAWSConfig(), objectstore.S3Config{
		Bucket:   "artifacts",
		Endpoint: srv.URL,
		Prefix:   "palletforge/",
	})

	loc, err := store.PresignedURL(context.Background(), "task.zip", 10*time.Minute)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(loc, srv.URL+"/artifacts/palletforge/task.zip?"), loc)

	u, err := url.Parse(loc)
	require.NoError(t, err)
	require.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	require.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	require.Empty(t, requests(), "presigning must not call the service")
}
