package shotgrid

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/foxseedlab/dailynotes/external/httpclient"
	"github.com/foxseedlab/dailynotes/internal/tracking"
)

const (
	apiPrefix         = "/api/v1"
	arrayFilterType   = "application/vnd+shotgun.api3_array+json"
	tokenExpiryMargin = 30 * time.Second
	activeStatus      = "Active"
)

type Config struct {
	URL        string
	ScriptName string
	APIKey     string
	Client     httpclient.Options
}

// Client is a ShotGrid REST API client authenticated with script
// credentials. Access tokens are cached until shortly before they expire.
type Client struct {
	http       *httpclient.Client
	scriptName string
	apiKey     string
	now        func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewClient(cfg Config) *Client {
	opts := cfg.Client
	opts.BaseURL = cfg.URL
	return &Client{
		http:       httpclient.New(opts),
		scriptName: cfg.ScriptName,
		apiKey:     cfg.APIKey,
		now:        time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Before(c.expiresAt) {
		return c.token, nil
	}
	form := url.Values{
		"grant_type":    []string{"client_credentials"},
		"client_id":     []string{c.scriptName},
		"client_secret": []string{c.apiKey},
	}
	var resp tokenResponse
	err := c.http.DoJSON(ctx, httpclient.Request{
		Method:      http.MethodPost,
		Path:        apiPrefix + "/auth/access_token",
		Body:        []byte(form.Encode()),
		ContentType: "application/x-www-form-urlencoded",
	}, &resp)
	if err != nil {
		return "", fmt.Errorf("shotgrid auth: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("shotgrid auth: empty access token")
	}
	c.token = resp.AccessToken
	c.expiresAt = c.now().Add(time.Duration(resp.ExpiresIn)*time.Second - tokenExpiryMargin)
	return c.token, nil
}

type entityRecord struct {
	ID            int                        `json:"id"`
	Attributes    map[string]json.RawMessage `json:"attributes"`
	Relationships map[string]struct {
		Data *struct {
			Name string `json:"name"`
		} `json:"data"`
	} `json:"relationships"`
}

func (r entityRecord) attr(name string) string {
	raw, ok := r.Attributes[name]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func (r entityRecord) relationName(name string) string {
	rel, ok := r.Relationships[name]
	if !ok || rel.Data == nil {
		return ""
	}
	return rel.Data.Name
}

type searchRequest struct {
	Filters [][]any  `json:"filters"`
	Fields  []string `json:"fields"`
}

type searchResponse struct {
	Data []entityRecord `json:"data"`
}

func (c *Client) search(ctx context.Context, entity string, query url.Values, body searchRequest) ([]entityRecord, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	var resp searchResponse
	err = c.http.DoJSON(ctx, httpclient.Request{
		Method:      http.MethodPost,
		Path:        apiPrefix + "/entity/" + entity + "/_search",
		Query:       query,
		Header:      http.Header{"Authorization": []string{"Bearer " + token}},
		Body:        b,
		ContentType: arrayFilterType,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("shotgrid search %s: %w", entity, err)
	}
	return resp.Data, nil
}

func (c *Client) ActiveProjects(ctx context.Context) ([]tracking.Project, error) {
	records, err := c.search(ctx, "projects", url.Values{"sort": []string{"code"}}, searchRequest{
		Filters: [][]any{{"sg_status", "is", activeStatus}},
		Fields:  []string{"code", "name"},
	})
	if err != nil {
		return nil, err
	}
	projects := make([]tracking.Project, 0, len(records))
	for _, r := range records {
		projects = append(projects, tracking.Project{ID: r.ID, Code: r.attr("code"), Name: r.attr("name")})
	}
	return projects, nil
}

func (c *Client) LatestPlaylists(ctx context.Context, projectID, limit int) ([]tracking.Playlist, error) {
	if limit <= 0 {
		limit = tracking.LatestPlaylistsLimit
	}
	query := url.Values{
		"sort":       []string{"-created_at"},
		"page[size]": []string{strconv.Itoa(limit)},
	}
	records, err := c.search(ctx, "playlists", query, searchRequest{
		Filters: [][]any{{"project", "is", map[string]any{"type": "Project", "id": projectID}}},
		Fields:  []string{"code", "created_at"},
	})
	if err != nil {
		return nil, err
	}
	playlists := make([]tracking.Playlist, 0, len(records))
	for _, r := range records {
		playlists = append(playlists, tracking.Playlist{ID: r.ID, Code: r.attr("code"), CreatedAt: r.attr("created_at")})
	}
	return playlists, nil
}

func (c *Client) PlaylistItems(ctx context.Context, playlistID int) ([]string, error) {
	records, err := c.search(ctx, "versions", url.Values{"sort": []string{"id"}}, searchRequest{
		Filters: [][]any{{"playlists", "is", map[string]any{"type": "Playlist", "id": playlistID}}},
		Fields:  []string{"code", "entity"},
	})
	if err != nil {
		return nil, err
	}
	items := make([]string, 0, len(records))
	for _, r := range records {
		items = append(items, tracking.ItemName(r.relationName("entity"), r.attr("code")))
	}
	return items, nil
}
