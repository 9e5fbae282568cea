package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmcare/farmcare/domain"
	"github.com/farmcare/farmcare/internal/classifier"
)

type fakeObjectStore struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeObjectStore) Put(_ context.Context, folder, fileName, _ string, _ []byte) (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := folder + "/" + fileName
	f.keys = append(f.keys, key)
	return "https://bucket.example.com/" + key, key, nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	return nil
}

type fakeUploadRepo struct {
	uploads []*domain.Upload
}

func (f *fakeUploadRepo) Create(_ context.Context, upload *domain.Upload) error {
	f.uploads = append(f.uploads, upload)
	return nil
}

func (f *fakeUploadRepo) CountByUser(_ context.Context, userID string) (int64, error) {
	var n int64
	for _, u := range f.uploads {
		if u.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeUploadRepo) ListByUser(_ context.Context, userID string, _ int) ([]*domain.Upload, error) {
	var out []*domain.Upload
	for _, u := range f.uploads {
		if u.UserID == userID {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestValidateImage(t *testing.T) {
	contentType, err := ValidateImage("leaf.JPG", 1024)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	_, err = ValidateImage("doc.pdf", 1024)
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = ValidateImage("leaf.png", MaxUploadBytes+1)
	assert.ErrorIs(t, err, ErrImageTooLarge)
}

func TestAnalyze(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"disease": "Leaf blight", "confidence": 0.92, "advice": "Apply fungicide."}`))
	}))
	defer upstream.Close()

	repo := &fakeUploadRepo{}
	svc := NewUploadService(repo, &fakeObjectStore{}, classifier.NewClient(upstream.URL))

	upload, err := svc.Analyze(context.Background(), "user-1", "leaf.jpg", []byte("fake-image"))
	require.NoError(t, err)
	assert.Contains(t, upload.Analysis, "Leaf blight")
	assert.Contains(t, upload.Analysis, "92%")
	assert.NotEmpty(t, upload.ImageURL)
	require.Len(t, repo.uploads, 1)
}

func TestAnalyzeSurvivesClassifierOutage(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer upstream.Close()

	repo := &fakeUploadRepo{}
	svc := NewUploadService(repo, &fakeObjectStore{}, classifier.NewClient(upstream.URL))

	upload, err := svc.Analyze(context.Background(), "user-1", "leaf.png", []byte("fake-image"))
	require.NoError(t, err)
	assert.Empty(t, upload.Analysis)
	require.Len(t, repo.uploads, 1)
}

func TestAnalyzeRejectsBadUpload(t *testing.T) {
	svc := NewUploadService(&fakeUploadRepo{}, &fakeObjectStore{}, classifier.NewClient("http://unused"))

	_, err := svc.Analyze(context.Background(), "user-1", "notes.txt", []byte("hi"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestHistory(t *testing.T) {
	repo := &fakeUploadRepo{uploads: []*domain.Upload{
		{UserID: "user-1", FileName: "a.jpg"},
		{UserID: "user-1", FileName: "b.jpg"},
		{UserID: "user-2", FileName: "c.jpg"},
	}}
	svc := NewUploadService(repo, &fakeObjectStore{}, nil)

	uploads, count, err := svc.History(context.Background(), "user-1", 10)
	require.NoError(t, err)
	assert.Len(t, uploads, 2)
	assert.EqualValues(t, 2, count)
}
