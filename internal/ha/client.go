// Package ha talks to the Home Assistant instance that owns the signage
// media: a sensor entity listing the available files and the media source
// serving their bytes.
package ha

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a credentialed Home Assistant API client.
type Client struct {
	baseURL     string
	token       string
	sensor      string
	mediaPrefix string

	apiClient *http.Client
	// Media downloads stream for the length of a video; they get a
	// client without an overall timeout.
	mediaClient *http.Client
}

// sensorState is the subset of a Home Assistant state response we need.
type sensorState struct {
	Attributes struct {
		FileList []string `json:"file_list"`
	} `json:"attributes"`
}

// MediaStream is an open byte stream for one media file. The caller owns
// Body and must close it.
type MediaStream struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
}

// NewClient creates a Client. mediaPrefix is the media source folder whose
// path is stripped from file_list entries (e.g. "rtfm" strips
// "/media/rtfm/").
func NewClient(baseURL, token, sensor, mediaPrefix string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       token,
		sensor:      sensor,
		mediaPrefix: mediaPrefix,
		apiClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		mediaClient: &http.Client{},
	}
}

// FetchFileList returns the filenames listed by the sensor entity, with the
// media path prefix stripped.
func (c *Client) FetchFileList(ctx context.Context) ([]string, error) {
	endpoint := fmt.Sprintf("%s/api/states/%s", c.baseURL, c.sensor)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.apiClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sensor state: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("sensor state request returned %d", resp.StatusCode)
	}

	var state sensorState
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		return nil, fmt.Errorf("failed to decode sensor state: %w", err)
	}

	prefix := fmt.Sprintf("/media/%s/", c.mediaPrefix)
	files := make([]string, 0, len(state.Attributes.FileList))
	for _, entry := range state.Attributes.FileList {
		files = append(files, strings.TrimPrefix(entry, prefix))
	}
	return files, nil
}

// OpenMedia opens a byte stream for one media file from the Home Assistant
// media source.
func (c *Client) OpenMedia(ctx context.Context, filename string) (*MediaStream, error) {
	endpoint := fmt.Sprintf("%s/media/local/%s/%s", c.baseURL, c.mediaPrefix, url.PathEscape(filename))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.mediaClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch media file: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("media request for %s returned %d", filename, resp.StatusCode)
	}

	return &MediaStream{
		Body:          resp.Body,
		ContentType:   resp.Header.Get("Content-Type"),
		ContentLength: resp.ContentLength,
	}, nil
}
