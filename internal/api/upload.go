package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	customErrors "github.com/collabblog/blogclient/internal/auth/errors"
)

type UploadResult struct {
	URL      string `json:"url"`
	Filename string `json:"filename,omitempty"`
}

// UploadAPI posts article cover images as multipart form data. The request
// is built by hand so the multipart boundary content type is set before the
// transport chain sees it; bearer decoration leaves it untouched.
type UploadAPI struct {
	c *Client
}

func NewUploadAPI(c *Client) *UploadAPI { return &UploadAPI{c: c} }

func (a *UploadAPI) UploadImage(ctx context.Context, filename string, content io.Reader) (UploadResult, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filepath.Base(filename))
	if err != nil {
		return UploadResult{}, customErrors.WrapInternal(err, "build upload form")
	}
	if _, err := io.Copy(part, content); err != nil {
		return UploadResult{}, customErrors.WrapInternal(err, "read upload content")
	}
	if err := w.Close(); err != nil {
		return UploadResult{}, customErrors.WrapInternal(err, "finalize upload form")
	}

	u := *a.c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/uploads"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), &buf)
	if err != nil {
		return UploadResult{}, customErrors.WrapInternal(err, "build upload request")
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := a.c.http.Do(req)
	if err != nil {
		return UploadResult{}, customErrors.WrapServer(err, "upload image")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return UploadResult{}, customErrors.WrapInternal(err, "read upload response")
	}

	var env Envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return UploadResult{}, customErrors.WrapInternal(err, "decode upload response")
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return UploadResult{}, mapError(&StatusError{Status: resp.StatusCode, Message: msg}, "upload image")
	}

	var out UploadResult
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return UploadResult{}, customErrors.WrapInternal(err, "decode upload result")
		}
	}
	return out, nil
}
