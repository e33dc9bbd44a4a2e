package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meropasal/pasal-cli/internal/apperr"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func TestSessionForwardsCookies(t *testing.T) {
	var gotCookie string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("JSESSIONID"); err == nil {
			gotCookie = c.Value
		}
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "abc123", Path: "/"})
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.Session().Get(context.Background(), "/auth/login")
	require.NoError(t, err)

	_, err = client.Session().Get(context.Background(), "/auth/check-auth")
	require.NoError(t, err)
	assert.Equal(t, "abc123", gotCookie)
}

func TestCustomerAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, staticToken("tok-1"))
	_, err := client.Customer().Get(context.Background(), "/cart")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-1", gotAuth)
}

func TestCustomerOmitsHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, staticToken(""))
	_, err := client.Customer().Get(context.Background(), "/cart")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestPostMarshalsJSONBody(t *testing.T) {
	var gotBody map[string]any
	var gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.Session().Post(context.Background(), "/categories", map[string]string{"name": "Shoes"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Shoes", gotBody["name"])
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":"error","message":"name is required"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.Session().Post(context.Background(), "/categories", map[string]string{})
	require.Error(t, err)

	e := apperr.As(err)
	assert.Equal(t, apperr.KindAPI, e.Kind)
	assert.Equal(t, 400, e.HTTPStatus)
	assert.Equal(t, "name is required", e.Message)
}

func Test401BecomesAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"session expired"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	_, err := client.Session().Get(context.Background(), "/auth/check-auth")
	require.Error(t, err)
	assert.Equal(t, apperr.KindAuth, apperr.As(err).Kind)
}

func TestTransportErrorMapping(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", nil)
	_, err := client.Session().Get(context.Background(), "/shops")
	require.Error(t, err)
	assert.Equal(t, apperr.KindTransport, apperr.As(err).Kind)
}

func TestDecodeEnvelopeSuccess(t *testing.T) {
	resp := &Response{
		Data:       []byte(`{"status":"success","cartItems":[{"id":"c1"},{"id":"c2"}]}`),
		StatusCode: 200,
	}
	var items []struct {
		ID string `json:"id"`
	}
	require.NoError(t, DecodeEnvelope(resp, "cartItems", &items))
	require.Len(t, items, 2)
	assert.Equal(t, "c1", items[0].ID)
}

func TestDecodeEnvelopeRejects2xxFailure(t *testing.T) {
	resp := &Response{
		Data:       []byte(`{"status":"error","message":"Product is out of stock"}`),
		StatusCode: 200,
	}
	err := DecodeEnvelope(resp, "cartItem", nil)
	require.Error(t, err)

	e := apperr.As(err)
	assert.Equal(t, apperr.KindAPI, e.Kind)
	assert.Equal(t, "Product is out of stock", e.Message)
}

func TestDecodeEnvelopeMissingKeyLeavesValue(t *testing.T) {
	resp := &Response{Data: []byte(`{"status":"success"}`), StatusCode: 200}
	items := []string{"sentinel"}
	require.NoError(t, DecodeEnvelope(resp, "orders", &items))
	assert.Equal(t, []string{"sentinel"}, items)
}

func TestUploadSingleFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "logo.png", header.Filename)
		assert.Equal(t, "shops", r.FormValue("folder"))
		w.Write([]byte(`{"success":true,"url":"https://cdn.example/logo.png"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	result, err := client.Session().Upload(context.Background(), "/images/upload",
		File("logo.png", strings.NewReader("fake-png")), "shops")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "https://cdn.example/logo.png", result.URL)
}

func TestUploadMultipleReportsPartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Len(t, r.MultipartForm.File["files"], 2)
		w.Write([]byte(`{"success":true,"urls":["https://cdn.example/a.png"],"errors":["b.png: too large"],"uploadedCount":1,"failedCount":1}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, nil)
	result, err := client.Session().UploadMultiple(context.Background(), "/images/upload-multiple",
		[]NamedReader{
			File("a.png", strings.NewReader("a")),
			File("b.png", strings.NewReader("b")),
		}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, result.UploadedCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Len(t, result.Errors, 1)
}
