// Package fernclient is the web client's view of the fern api: typed calls,
// the resilient related-collection fetcher and the friend details loader.
package fernclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/pkg/httpclient"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/relations"
)

// FriendQuery selects a page of the light friends listing.
type FriendQuery struct {
	Seeded   bool
	Filter   string
	PageNr   int
	PageSize int
}

// RelatedQuery selects a page of pets or quotes. An empty FriendID asks for
// the unfiltered collection.
type RelatedQuery struct {
	Seeded   bool
	FriendID string
	Filter   string
	PageNr   int
	PageSize int
}

type Client struct {
	http    *httpclient.Client
	baseURL string
	token   string
	logger  ectologger.Logger
}

func NewClient(baseURL, token string, httpClient *httpclient.Client, logger ectologger.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		logger:  logger,
	}, nil
}

func (c *Client) ListFriends(ctx context.Context, q FriendQuery) (models.Page[models.Friend], error) {
	params := pageParams(q.Seeded, q.PageNr, q.PageSize)
	if q.Filter != "" {
		params.Set("filter", q.Filter)
	}

	var page models.Page[models.Friend]
	err := c.getJSON(ctx, "/friends", params, &page)
	return page, err
}

func (c *Client) ListRelated(ctx context.Context, kind relations.Kind, q RelatedQuery) (models.Page[relations.RawRelated], error) {
	params := pageParams(q.Seeded, q.PageNr, q.PageSize)
	if q.FriendID != "" {
		params.Set("friendId", q.FriendID)
	}
	if q.Filter != "" {
		params.Set("filter", q.Filter)
	}

	var page models.Page[relations.RawRelated]
	err := c.getJSON(ctx, "/"+string(kind), params, &page)
	return page, err
}

func (c *Client) GetOverview(ctx context.Context, seeded bool) ([]models.OverviewRow, error) {
	params := url.Values{}
	params.Set("seeded", strconv.FormatBool(seeded))

	var rows []models.OverviewRow
	err := c.getJSON(ctx, "/overview", params, &rows)
	return rows, err
}

// GetFriend reads one friend. A missing friend is a *StatusError with 404.
func (c *Client) GetFriend(ctx context.Context, id string) (models.Friend, error) {
	var friend models.Friend
	err := c.getJSON(ctx, "/friends/"+url.PathEscape(id), nil, &friend)
	return friend, err
}

func (c *Client) UpdateFriend(ctx context.Context, id string, req models.FriendRequest) (models.Friend, error) {
	var friend models.Friend
	err := c.write(ctx, http.MethodPut, "/friends/"+url.PathEscape(id), req, &friend)
	return friend, err
}

func (c *Client) CreatePet(ctx context.Context, req models.PetRequest) (models.Pet, error) {
	var pet models.Pet
	err := c.write(ctx, http.MethodPost, "/pets", req, &pet)
	return pet, err
}

func (c *Client) DeletePet(ctx context.Context, id string) error {
	return c.write(ctx, http.MethodDelete, "/pets/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateQuote(ctx context.Context, req models.QuoteRequest) (models.Quote, error) {
	var quote models.Quote
	err := c.write(ctx, http.MethodPost, "/quotes", req, &quote)
	return quote, err
}

func (c *Client) DeleteQuote(ctx context.Context, id string) error {
	return c.write(ctx, http.MethodDelete, "/quotes/"+url.PathEscape(id), nil, nil)
}

func pageParams(seeded bool, pageNr, pageSize int) url.Values {
	params := url.Values{}
	params.Set("seeded", strconv.FormatBool(seeded))
	params.Set("pageNr", strconv.Itoa(pageNr))
	if pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(pageSize))
	}
	return params
}

func (c *Client) headers() map[string]string {
	if c.token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + c.token}
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	resp, err := c.http.Get(ctx, target, c.headers())
	if err != nil {
		return err
	}
	if !httpclient.IsSuccessStatus(resp.StatusCode) {
		return &StatusError{Method: http.MethodGet, URL: target, StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// write sends a mutating request. Failures are parsed as validation problems.
func (c *Client) write(ctx context.Context, method, path string, payload any, out any) error {
	target := c.baseURL + path

	resp, err := c.http.Send(ctx, method, target, payload, c.headers())
	if err != nil {
		return err
	}
	if !httpclient.IsSuccessStatus(resp.StatusCode) {
		return ParseProblem(method, target, resp.StatusCode, resp.Body)
	}

	if out == nil || len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}
