// Package backend is the REST client the meeting CLI uses to reach the notes
// server.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/foxseedlab/dailynotes/external/httpclient"
	"github.com/foxseedlab/dailynotes/internal/repository"
	"github.com/foxseedlab/dailynotes/internal/tracking"
)

// ServerConfig mirrors GET /config.
type ServerConfig struct {
	ShotGridEnabled bool     `json:"shotgrid_enabled"`
	EmailEnabled    bool     `json:"email_enabled"`
	LLMProviders    []string `json:"llm_providers"`
}

type Client struct {
	http *httpclient.Client
}

func NewClient(opts httpclient.Options) *Client {
	return &Client{http: httpclient.New(opts)}
}

type versionBody struct {
	Version repository.Version `json:"version"`
}

type versionsBody struct {
	Count    int                  `json:"count"`
	Versions []repository.Version `json:"versions"`
}

type errorBody struct {
	Detail string `json:"detail"`
}

// apiError turns an error response into repository.ErrNotFound for 404s and
// surfaces the server's detail message otherwise.
func apiError(err error) error {
	var se *httpclient.StatusError
	if !errors.As(err, &se) {
		return err
	}
	if se.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", repository.ErrNotFound, detail(se))
	}
	return fmt.Errorf("backend returned %d: %s", se.StatusCode, detail(se))
}

func detail(se *httpclient.StatusError) string {
	var body errorBody
	if json.Unmarshal([]byte(se.Body), &body) == nil && body.Detail != "" {
		return body.Detail
	}
	return se.Body
}

func versionPath(id string, suffix ...string) string {
	p := "/versions/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func (c *Client) call(ctx context.Context, req httpclient.Request, out any) error {
	if err := c.http.DoJSON(ctx, req, out); err != nil {
		return apiError(err)
	}
	return nil
}

func (c *Client) Config(ctx context.Context) (ServerConfig, error) {
	var cfg ServerConfig
	err := c.call(ctx, httpclient.Request{Method: http.MethodGet, Path: "/config"}, &cfg)
	return cfg, err
}

func (c *Client) ListVersions(ctx context.Context) ([]repository.Version, error) {
	var body versionsBody
	if err := c.call(ctx, httpclient.Request{Method: http.MethodGet, Path: "/versions"}, &body); err != nil {
		return nil, err
	}
	return body.Versions, nil
}

func (c *Client) GetVersion(ctx context.Context, id string) (*repository.Version, error) {
	var body versionBody
	if err := c.call(ctx, httpclient.Request{Method: http.MethodGet, Path: versionPath(id)}, &body); err != nil {
		return nil, err
	}
	return &body.Version, nil
}

func (c *Client) CreateVersion(ctx context.Context, v repository.Version) (*repository.Version, error) {
	var body versionBody
	if err := c.call(ctx, httpclient.Request{Method: http.MethodPost, Path: "/versions", JSON: v}, &body); err != nil {
		return nil, err
	}
	return &body.Version, nil
}

// ReplaceVersions swaps the server's whole version list in one request.
func (c *Client) ReplaceVersions(ctx context.Context, versions []repository.Version) ([]repository.Version, error) {
	var body versionsBody
	err := c.call(ctx, httpclient.Request{
		Method: http.MethodPut,
		Path:   "/versions",
		JSON:   map[string]any{"versions": versions},
	}, &body)
	if err != nil {
		return nil, err
	}
	return body.Versions, nil
}

func (c *Client) AddNote(ctx context.Context, id, text string) (*repository.Version, error) {
	var body versionBody
	err := c.call(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   versionPath(id, "notes"),
		JSON:   map[string]string{"note_text": text},
	}, &body)
	if err != nil {
		return nil, err
	}
	return &body.Version, nil
}

// SetTranscript replaces the stored transcript of a version.
func (c *Client) SetTranscript(ctx context.Context, id, transcript string) error {
	return c.call(ctx, httpclient.Request{
		Method: http.MethodPut,
		Path:   versionPath(id, "notes"),
		JSON:   map[string]string{"transcript": transcript},
	}, nil)
}

func (c *Client) GenerateAINotes(ctx context.Context, id, provider string) (*repository.Version, error) {
	var body versionBody
	err := c.call(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   versionPath(id, "generate-ai-notes"),
		JSON:   map[string]string{"provider": provider},
	}, &body)
	if err != nil {
		return nil, err
	}
	return &body.Version, nil
}

func (c *Client) DeleteVersion(ctx context.Context, id string) error {
	return c.call(ctx, httpclient.Request{Method: http.MethodDelete, Path: versionPath(id)}, nil)
}

func (c *Client) ClearVersions(ctx context.Context) (int, error) {
	var body struct {
		Count int `json:"count"`
	}
	err := c.call(ctx, httpclient.Request{Method: http.MethodDelete, Path: "/versions"}, &body)
	return body.Count, err
}

func (c *Client) Summarize(ctx context.Context, text, provider string) (string, error) {
	var body struct {
		Summary string `json:"summary"`
	}
	err := c.call(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/llm-summary",
		JSON:   map[string]string{"text": text, "provider": provider},
	}, &body)
	return body.Summary, err
}

// ImportCSV uploads a playlist CSV, replacing every version on the server.
func (c *Client) ImportCSV(ctx context.Context, filename string, data []byte) ([]repository.Version, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	var body versionsBody
	err = c.call(ctx, httpclient.Request{
		Method:      http.MethodPost,
		Path:        "/versions/upload-csv",
		Body:        buf.Bytes(),
		ContentType: mw.FormDataContentType(),
	}, &body)
	return body.Versions, err
}

func (c *Client) ExportCSV(ctx context.Context) ([]byte, error) {
	b, err := c.http.Do(ctx, httpclient.Request{Method: http.MethodGet, Path: "/versions/export/csv"})
	if err != nil {
		return nil, apiError(err)
	}
	return b, nil
}

func (c *Client) EmailNotes(ctx context.Context, to string) error {
	return c.call(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/email-notes",
		JSON:   map[string]string{"email": to},
	}, nil)
}

func (c *Client) PublishNotes(ctx context.Context, message string) ([]string, error) {
	var body struct {
		Published []string `json:"published"`
		Failed    string   `json:"failed"`
	}
	err := c.call(ctx, httpclient.Request{
		Method: http.MethodPost,
		Path:   "/notes/publish",
		JSON:   map[string]string{"message": message},
	}, &body)
	if err != nil {
		return nil, err
	}
	if body.Failed != "" {
		return body.Published, errors.New(body.Failed)
	}
	return body.Published, nil
}

func (c *Client) ActiveProjects(ctx context.Context) ([]tracking.Project, error) {
	var body struct {
		Projects []tracking.Project `json:"projects"`
	}
	err := c.call(ctx, httpclient.Request{Method: http.MethodGet, Path: "/shotgrid/active-projects"}, &body)
	return body.Projects, err
}

func (c *Client) LatestPlaylists(ctx context.Context, projectID, limit int) ([]tracking.Playlist, error) {
	var query url.Values
	if limit > 0 {
		query = url.Values{"limit": []string{strconv.Itoa(limit)}}
	}
	var body struct {
		Playlists []tracking.Playlist `json:"playlists"`
	}
	err := c.call(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/shotgrid/latest-playlists/" + strconv.Itoa(projectID),
		Query:  query,
	}, &body)
	return body.Playlists, err
}

func (c *Client) PlaylistItems(ctx context.Context, playlistID int) ([]string, error) {
	var body struct {
		Items []string `json:"items"`
	}
	err := c.call(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   "/shotgrid/playlist-items/" + strconv.Itoa(playlistID),
	}, &body)
	return body.Items, err
}
