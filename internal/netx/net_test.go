package netx

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgressReader_ReportsRunningTotal(t *testing.T) {
	var calls [][2]int64
	pr := &ProgressReader{
		R:     strings.NewReader("0123456789"),
		Total: 10,
		OnProgress: func(read, total int64) {
			calls = append(calls, [2]int64{read, total})
		},
	}

	buf := make([]byte, 4)
	for {
		_, err := pr.Read(buf)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	require.Equal(t, [][2]int64{{4, 10}, {8, 10}, {10, 10}}, calls)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0.0, Percent(0, 200))
	assert.Equal(t, 50.0, Percent(100, 200))
	assert.Equal(t, 100.0, Percent(300, 200))
	assert.Equal(t, 100.0, Percent(0, 0))
	assert.Equal(t, 0.0, Percent(-5, 10))
}

func TestMultipartBody_RoundTripThroughServer(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), 64*1024)

	var gotName, gotType string
	var gotBody []byte

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mt, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mt != "multipart/form-data" {
			http.Error(w, "bad content type", http.StatusBadRequest)
			return
		}
		mr := multipart.NewReader(r.Body, params["boundary"])
		p, err := mr.NextPart()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotName = p.FileName()
		gotType = p.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(p)
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	body, ct := MultipartBody("file", `we"ird.bin`, "", bytes.NewReader(payload))
	resp, err := http.Post(ts.URL, ct, body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `we"ird.bin`, gotName)
	assert.Equal(t, "application/octet-stream", gotType)
	assert.Equal(t, payload, gotBody)
}

func TestMultipartBody_ReaderErrorPropagates(t *testing.T) {
	body, _ := MultipartBody("file", "a.txt", "text/plain", failingReader{})
	_, err := io.ReadAll(body)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errDiskGone }

var errDiskGone = errors.New("disk gone")
