package store

import (
	"context"
	"io"
	"slices"
	"sync"

	"github.com/meropasal/pasal-cli/internal/api"
	"github.com/meropasal/pasal-cli/internal/apperr"
)

// ImageStore uploads product and shop imagery and remembers the resulting
// CDN URLs for the session.
type ImageStore struct {
	mu  sync.Mutex
	api *api.Client

	uploading bool
	err       *apperr.Error
	urls      []string
}

func newImageStore(client *api.Client) *ImageStore {
	return &ImageStore{api: client}
}

// Uploading reports whether an upload is unresolved.
func (s *ImageStore) Uploading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploading
}

func (s *ImageStore) Err() *apperr.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// URLs returns the CDN URLs uploaded this session, in upload order.
func (s *ImageStore) URLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.urls)
}

// Upload sends one file and returns its CDN URL. folder may be "" for the
// server default.
func (s *ImageStore) Upload(ctx context.Context, name string, r io.Reader, folder string) (string, error) {
	s.begin()

	result, err := s.api.Session().Upload(ctx, "/images/upload", api.File(name, r), folder)
	if err != nil {
		return "", s.fail(err, "Failed to upload image")
	}
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "Failed to upload image"
		}
		return "", s.fail(apperr.ErrAPI(0, msg), "Failed to upload image")
	}

	s.mu.Lock()
	s.uploading = false
	s.urls = append(s.urls, result.URL)
	s.mu.Unlock()
	return result.URL, nil
}

// UploadMultiple sends several files in one request. Partial failures
// surface in the result rather than as an error.
func (s *ImageStore) UploadMultiple(ctx context.Context, files []api.NamedReader, folder string) (*api.MultiUploadResult, error) {
	s.begin()

	result, err := s.api.Session().UploadMultiple(ctx, "/images/upload-multiple", files, folder)
	if err != nil {
		return nil, s.fail(err, "Failed to upload images")
	}

	s.mu.Lock()
	s.uploading = false
	s.urls = append(s.urls, result.URLs...)
	s.mu.Unlock()
	return result, nil
}

// Reset drops the session's upload history.
func (s *ImageStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploading = false
	s.err = nil
	s.urls = nil
}

func (s *ImageStore) begin() {
	s.mu.Lock()
	s.uploading = true
	s.err = nil
	s.mu.Unlock()
}

func (s *ImageStore) fail(err error, fallback string) *apperr.Error {
	e := apperr.Fallback(err, fallback)
	s.mu.Lock()
	s.uploading = false
	s.err = e
	s.mu.Unlock()
	return e
}
