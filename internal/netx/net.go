// Package netx holds small transport helpers for streaming uploads.
package netx

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

// ProgressReader reports how many bytes of Total have been read from R.
// OnProgress is called after every successful Read.
type ProgressReader struct {
	R          io.Reader
	Total      int64
	OnProgress func(read, total int64)

	read int64
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.R.Read(b)
	if n > 0 {
		p.read += int64(n)
		if p.OnProgress != nil {
			p.OnProgress(p.read, p.Total)
		}
	}
	return n, err
}

// Percent converts a byte count into a percentage clamped to [0,100].
// An unknown or empty total counts as done.
func Percent(read, total int64) float64 {
	if total <= 0 {
		return 100
	}
	v := float64(read) * 100 / float64(total)
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// MultipartBody streams r as the single file part field of a
// multipart/form-data body. It returns the body and its Content-Type header.
//
// The body is produced by a goroutine writing into a pipe; the transport
// closing the body unblocks it.
func MultipartBody(field, filename, contentType string, r io.Reader) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
		h.Set("Content-Type", contentType)

		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}
