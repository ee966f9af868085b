package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
)

// Fetch downloads an http(s) video to a temp file and opens it. The
// returned source is tainted unless the origin sent a permissive
// Access-Control-Allow-Origin header: the bytes are still decodable, but
// pixel readback for capture is refused, matching the cross-origin trust
// model for media elements.
func Fetch(ctx context.Context, url string) (*FileSource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error downloading video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed with status %d for '%s'", resp.StatusCode, url)
	}

	ext := path.Ext(url)
	if ext == "" || len(ext) > 5 {
		ext = ".mp4"
	}
	tmp, err := os.CreateTemp("", "vid-handout-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("error creating temp file: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("error saving video: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}

	src, err := Open(ctx, tmp.Name())
	if err != nil {
		os.Remove(tmp.Name())
		return nil, err
	}
	src.tainted = !allowsReadback(resp.Header.Get("Access-Control-Allow-Origin"))
	return src, nil
}

func allowsReadback(allowOrigin string) bool {
	return strings.TrimSpace(allowOrigin) == "*"
}
