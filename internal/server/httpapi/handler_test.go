package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/dmitrijs2005/memokeeper/internal/common"
	"github.com/dmitrijs2005/memokeeper/internal/logging"
	"github.com/dmitrijs2005/memokeeper/internal/server/models"
	"github.com/dmitrijs2005/memokeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeResources struct {
	ResourceService

	maxMiB int

	listFn   func(find models.ResourceFind) ([]*models.Resource, error)
	createFn func(in models.ResourceCreate) (*models.Resource, error)
	uploadFn func(in services.Upload) (*models.Resource, error)
	patchFn  func(p models.ResourcePatch) (*models.Resource, error)
	deleteFn func(id int32) error
	openFn   func(id int32, filename string) (*models.Resource, io.ReadCloser, error)
}

func (f *fakeResources) MaxUploadSizeMiB() int { return f.maxMiB }

func (f *fakeResources) List(_ context.Context, find models.ResourceFind) ([]*models.Resource, error) {
	return f.listFn(find)
}

func (f *fakeResources) Create(_ context.Context, in models.ResourceCreate) (*models.Resource, error) {
	return f.createFn(in)
}

func (f *fakeResources) Upload(_ context.Context, in services.Upload) (*models.Resource, error) {
	return f.uploadFn(in)
}

func (f *fakeResources) Patch(_ context.Context, p models.ResourcePatch) (*models.Resource, error) {
	return f.patchFn(p)
}

func (f *fakeResources) Delete(_ context.Context, id int32) error {
	return f.deleteFn(id)
}

func (f *fakeResources) OpenBlob(_ context.Context, id int32, filename string) (*models.Resource, io.ReadCloser, error) {
	return f.openFn(id, filename)
}

func newTestRouter(fr *fakeResources) *gin.Engine {
	return NewRouter(NewHandler(fr, logging.Discard()))
}

func do(t *testing.T, r http.Handler, method, target string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestPingAndStatus(t *testing.T) {
	r := newTestRouter(&fakeResources{maxMiB: 32})

	w := do(t, r, http.MethodGet, "/api/v1/ping", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"OK"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(common.RequestIDHeaderName))

	w = do(t, r, http.MethodGet, "/api/v1/status", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"maxUploadSizeMiB":32}`, w.Body.String())
}

func TestRequestID_EchoesCallerID(t *testing.T) {
	r := newTestRouter(&fakeResources{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
	req.Header.Set(common.RequestIDHeaderName, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(common.RequestIDHeaderName))
}

func TestListResources(t *testing.T) {
	var got models.ResourceFind
	fr := &fakeResources{listFn: func(find models.ResourceFind) ([]*models.Resource, error) {
		got = find
		return []*models.Resource{{ID: 2, Filename: "b.txt", CreatedTs: 20, StorageKey: "secret"}}, nil
	}}
	r := newTestRouter(fr)

	w := do(t, r, http.MethodGet, "/api/v1/resource?limit=20&offset=40", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ResourceFind{Limit: 20, Offset: 40}, got)
	assert.NotContains(t, w.Body.String(), "secret")

	var list []models.Resource
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, int64(20), list[0].CreatedTs)
}

func TestListResources_EmptyIsArray(t *testing.T) {
	fr := &fakeResources{listFn: func(models.ResourceFind) ([]*models.Resource, error) { return nil, nil }}

	w := do(t, newTestRouter(fr), http.MethodGet, "/api/v1/resource", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestListResources_BadLimit(t *testing.T) {
	w := do(t, newTestRouter(&fakeResources{}), http.MethodGet, "/api/v1/resource?limit=x", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeMessage(t, w), "bad limit")
}

func TestListResources_ValidationErrorIsBadRequest(t *testing.T) {
	fr := &fakeResources{listFn: func(models.ResourceFind) ([]*models.Resource, error) {
		return nil, fmt.Errorf("%w: offset requires a limit", common.ErrorValidation)
	}}

	w := do(t, newTestRouter(fr), http.MethodGet, "/api/v1/resource?offset=10", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeMessage(t, w), "offset requires a limit")
}

func TestCreateResource(t *testing.T) {
	var got models.ResourceCreate
	fr := &fakeResources{createFn: func(in models.ResourceCreate) (*models.Resource, error) {
		got = in
		return &models.Resource{ID: 9, Filename: in.Filename, ExternalLink: in.ExternalLink}, nil
	}}

	w := do(t, newTestRouter(fr), http.MethodPost, "/api/v1/resource",
		strings.NewReader(`{"filename":"logo","externalLink":"https://cdn.example/logo.png","type":"image/png"}`),
		"application/json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ResourceCreate{Filename: "logo", ExternalLink: "https://cdn.example/logo.png", Type: "image/png"}, got)
	assert.Contains(t, w.Body.String(), `"id":9`)
}

func TestCreateResource_BadJSON(t *testing.T) {
	w := do(t, newTestRouter(&fakeResources{}), http.MethodPost, "/api/v1/resource",
		strings.NewReader(`{`), "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func multipartBody(t *testing.T, filename, contentType string, payload []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, common.UploadFormField, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadResource(t *testing.T) {
	var gotName, gotType, gotBody string
	var gotSize int64
	fr := &fakeResources{maxMiB: 1, uploadFn: func(in services.Upload) (*models.Resource, error) {
		b, err := io.ReadAll(in.Body)
		require.NoError(t, err)
		gotName, gotType, gotSize, gotBody = in.Filename, in.ContentType, in.Size, string(b)
		return &models.Resource{ID: 4, Filename: in.Filename, Size: in.Size}, nil
	}}

	body, ct := multipartBody(t, "notes.txt", "text/plain", []byte("hello"))
	w := do(t, newTestRouter(fr), http.MethodPost, "/api/v1/resource/blob", body, ct)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "notes.txt", gotName)
	assert.Equal(t, "text/plain", gotType)
	assert.Equal(t, int64(5), gotSize)
	assert.Equal(t, "hello", gotBody)
}

func TestUploadResource_TooLarge(t *testing.T) {
	fr := &fakeResources{maxMiB: 1, uploadFn: func(in services.Upload) (*models.Resource, error) {
		return nil, common.ErrorFileTooLarge
	}}

	body, ct := multipartBody(t, "big.bin", "application/octet-stream", bytes.Repeat([]byte("x"), 3*common.MiB))
	w := do(t, newTestRouter(fr), http.MethodPost, "/api/v1/resource/blob", body, ct)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, "file size exceeds allowed limit of 1 MiB", decodeMessage(t, w))
}

func TestUploadResource_MissingFile(t *testing.T) {
	w := do(t, newTestRouter(&fakeResources{maxMiB: 1}), http.MethodPost, "/api/v1/resource/blob",
		strings.NewReader("x"), "text/plain")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatchResource(t *testing.T) {
	var got models.ResourcePatch
	fr := &fakeResources{patchFn: func(p models.ResourcePatch) (*models.Resource, error) {
		got = p
		return &models.Resource{ID: p.ID, Filename: *p.Filename}, nil
	}}

	w := do(t, newTestRouter(fr), http.MethodPatch, "/api/v1/resource/5",
		strings.NewReader(`{"filename":"new.txt"}`), "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int32(5), got.ID)
	require.NotNil(t, got.Filename)
	assert.Equal(t, "new.txt", *got.Filename)
	assert.Nil(t, got.ExternalLink)
}

func TestPatchResource_NotFound(t *testing.T) {
	fr := &fakeResources{patchFn: func(p models.ResourcePatch) (*models.Resource, error) {
		return nil, common.ErrorNotFound
	}}

	w := do(t, newTestRouter(fr), http.MethodPatch, "/api/v1/resource/5",
		strings.NewReader(`{"filename":"new.txt"}`), "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteResource(t *testing.T) {
	var got int32
	fr := &fakeResources{deleteFn: func(id int32) error { got = id; return nil }}

	w := do(t, newTestRouter(fr), http.MethodDelete, "/api/v1/resource/42", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "true", strings.TrimSpace(w.Body.String()))
	assert.Equal(t, int32(42), got)
}

func TestDeleteResource_Errors(t *testing.T) {
	tests := []struct {
		name   string
		target string
		err    error
		want   int
	}{
		{name: "not found", target: "/api/v1/resource/42", err: fmt.Errorf("delete: %w", common.ErrorNotFound), want: http.StatusNotFound},
		{name: "bad id", target: "/api/v1/resource/abc", want: http.StatusBadRequest},
		{name: "zero id", target: "/api/v1/resource/0", want: http.StatusBadRequest},
		{name: "internal", target: "/api/v1/resource/42", err: errors.New("db down"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fr := &fakeResources{deleteFn: func(int32) error { return tt.err }}
			w := do(t, newTestRouter(fr), http.MethodDelete, tt.target, nil, "")
			require.Equal(t, tt.want, w.Code)
			assert.NotContains(t, decodeMessage(t, w), "db down")
		})
	}
}

func TestServeResource(t *testing.T) {
	fr := &fakeResources{openFn: func(id int32, filename string) (*models.Resource, io.ReadCloser, error) {
		switch {
		case id == 3 && filename == "my file.png":
			return &models.Resource{ID: 3, Type: "image/png", Size: 4}, io.NopCloser(strings.NewReader("\x89PNG")), nil
		case id == 4:
			return &models.Resource{ID: 4, ExternalLink: "https://cdn.example/x"}, nil, nil
		default:
			return nil, nil, common.ErrorNotFound
		}
	}}
	r := newTestRouter(fr)

	w := do(t, r, http.MethodGet, "/o/r/3/my%20file.png", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", w.Body.String())

	w = do(t, r, http.MethodGet, "/o/r/4/x", nil, "")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://cdn.example/x", w.Header().Get("Location"))

	w = do(t, r, http.MethodGet, "/o/r/3/other.png", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
