package api

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/streambuddy/cli/internal/models"
)

// ListVideos fetches the full video list for the current session. A response
// body that is not a JSON array is an error.
func (c *Client) ListVideos(ctx context.Context) ([]models.Video, error) {
	var videos []models.Video
	if err := c.do(ctx, http.MethodGet, "/api/videos/", nil, "", &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// UploadVideo streams the file as a multipart request carrying the raw file
// and its title. The backend does not return the created entry; callers are
// expected to refetch the list.
func (c *Client) UploadVideo(ctx context.Context, title, filename string, r io.Reader) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		if err := mw.WriteField("title", title); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	return c.do(ctx, http.MethodPost, "/api/videos/upload/", pr, mw.FormDataContentType(), nil)
}

// DeleteVideo removes a video. The backend's delete endpoint is keyed by
// title, not id.
func (c *Client) DeleteVideo(ctx context.Context, title string) error {
	return c.do(ctx, http.MethodDelete, "/api/videos/"+url.PathEscape(title)+"/", nil, "", nil)
}
