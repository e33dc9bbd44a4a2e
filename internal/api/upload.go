package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/meropasal/pasal-cli/internal/apperr"
)

// UploadResult is the server's response to a single-file upload.
type UploadResult struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Message string `json:"message,omitempty"`
}

// MultiUploadResult aggregates a multi-file upload, including partial
// failures.
type MultiUploadResult struct {
	Success       bool     `json:"success"`
	URLs          []string `json:"urls"`
	Errors        []string `json:"errors,omitempty"`
	UploadedCount int      `json:"uploadedCount"`
	FailedCount   int      `json:"failedCount"`
}

// NamedReader pairs an upload part's file name with its content.
type NamedReader struct {
	Name   string
	Reader io.Reader
}

// File constructs an upload part.
func File(name string, r io.Reader) NamedReader {
	return NamedReader{Name: name, Reader: r}
}

// Upload posts one file as multipart form data under the "file" field,
// with an optional "folder" field.
func (p *Profile) Upload(ctx context.Context, path string, file NamedReader, folder string) (*UploadResult, error) {
	resp, err := p.postMultipart(ctx, path, []NamedReader{file}, "file", folder)
	if err != nil {
		return nil, err
	}

	var result UploadResult
	if err := resp.UnmarshalData(&result); err != nil {
		return nil, apperr.ErrAPI(resp.StatusCode, "malformed upload response")
	}
	return &result, nil
}

// UploadMultiple posts several files under the "files" field.
func (p *Profile) UploadMultiple(ctx context.Context, path string, files []NamedReader, folder string) (*MultiUploadResult, error) {
	resp, err := p.postMultipart(ctx, path, files, "files", folder)
	if err != nil {
		return nil, err
	}

	var result MultiUploadResult
	if err := resp.UnmarshalData(&result); err != nil {
		return nil, apperr.ErrAPI(resp.StatusCode, "malformed upload response")
	}
	return &result, nil
}

func (p *Profile) postMultipart(ctx context.Context, path string, files []NamedReader, field, folder string) (*Response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range files {
		part, err := w.CreateFormFile(field, f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, err
		}
	}
	if folder != "" {
		if err := w.WriteField("folder", folder); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.c.buildURL(path), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	httpClient := p.c.session
	if p.bearer {
		httpClient = p.c.bearer
		if p.c.tokens != nil {
			if tok := p.c.tokens.Token(); tok != "" {
				req.Header.Set("Authorization", "Bearer "+tok)
			}
		}
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode, body)
	}
	return &Response{Data: body, StatusCode: resp.StatusCode, Header: resp.Header}, nil
}
