package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/memokeeper/internal/client/models"
	"github.com/dmitrijs2005/memokeeper/internal/common"
	"github.com/dmitrijs2005/memokeeper/internal/logging"
	"github.com/dmitrijs2005/memokeeper/internal/netx"
	"github.com/google/uuid"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  logging.Logger
}

// NewHTTPClient builds a client for the service at baseURL. timeout bounds
// every request except uploads, which only follow the caller's context.
func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{},
		timeout: timeout,
		logger:  logger,
	}, nil
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.doJSON(ctx, "ping", http.MethodGet, common.PingPath, nil, &out); err != nil {
		return err
	}
	if out.Status != "OK" {
		return &NetworkError{Op: "ping", Err: ErrUnavailable}
	}
	return nil
}

func (c *HTTPClient) GetStatus(ctx context.Context) (*models.SystemStatus, error) {
	var out models.SystemStatus
	if err := c.doJSON(ctx, "get status", http.MethodGet, common.StatusPath, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListResources(ctx context.Context) ([]models.RemoteResource, error) {
	var out []models.RemoteResource
	if err := c.doJSON(ctx, "list resources", http.MethodGet, common.ResourcePath, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListResourcesPage(ctx context.Context, find models.ResourceFind) ([]models.RemoteResource, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(find.Limit))
	if find.Offset > 0 {
		q.Set("offset", strconv.Itoa(find.Offset))
	}

	var out []models.RemoteResource
	if err := c.doJSON(ctx, "list resources page", http.MethodGet, common.ResourcePath+"?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) CreateResource(ctx context.Context, create models.ResourceCreate) (*models.RemoteResource, error) {
	var out models.RemoteResource
	if err := c.doJSON(ctx, "create resource", http.MethodPost, common.ResourcePath, create, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UploadResource(ctx context.Context, file models.UploadFile,
	onProgress func(read, total int64)) (*models.RemoteResource, error) {

	src := &netx.ProgressReader{R: file.Body, Total: file.Size, OnProgress: onProgress}
	body, contentType := netx.MultipartBody(common.UploadFormField, file.Filename, file.ContentType, src)

	var out models.RemoteResource
	err := c.do(ctx, "upload resource", http.MethodPost, common.ResourceBlobPath, body, contentType, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteResource(ctx context.Context, id models.ResourceID) error {
	path := fmt.Sprintf("%s/%d", common.ResourcePath, id)
	return c.doJSON(ctx, "delete resource", http.MethodDelete, path, nil, nil)
}

func (c *HTTPClient) PatchResource(ctx context.Context, patch models.ResourcePatch) (*models.RemoteResource, error) {
	path := fmt.Sprintf("%s/%d", common.ResourcePath, patch.ID)

	var out models.RemoteResource
	if err := c.doJSON(ctx, "patch resource", http.MethodPatch, path, patch, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ResourceURL(r models.Resource) string {
	if r.ExternalLink != "" {
		return r.ExternalLink
	}
	return fmt.Sprintf("%s%s/%d/%s", c.baseURL, common.ResourceFilePrefix, r.ID, url.PathEscape(r.Filename))
}

// doJSON sends in (if any) as a JSON body under the client timeout.
func (c *HTTPClient) doJSON(ctx context.Context, op, method, path string, in any, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var body io.Reader
	contentType := ""
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}
	return c.do(ctx, op, method, path, body, contentType, out)
}

func (c *HTTPClient) do(ctx context.Context, op, method, path string, body io.Reader, contentType string, out any) error {
	reqID := uuid.NewString()
	ctx = logging.WithRequestID(ctx, reqID)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		if rc, ok := body.(io.Closer); ok {
			_ = rc.Close()
		}
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set(common.RequestIDHeaderName, reqID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "op", op, "error", err)
		return &NetworkError{Op: op, Err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request done", "op", op, "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return c.mapError(op, resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

type errorBody struct {
	Message string `json:"message"`
}

func (c *HTTPClient) mapError(op string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil || eb.Message == "" {
		eb.Message = strings.TrimSpace(string(raw))
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		if eb.Message != "" {
			return fmt.Errorf("%s: %s: %w", op, eb.Message, ErrNotFound)
		}
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case http.StatusUnauthorized, http.StatusForbidden:
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Message: eb.Message, Err: ErrUnauthorized}
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Message: eb.Message, Err: ErrUnavailable}
	default:
		return &NetworkError{Op: op, StatusCode: resp.StatusCode, Message: eb.Message,
			Err: errors.New(http.StatusText(resp.StatusCode))}
	}
}
