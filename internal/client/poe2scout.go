package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"poe2scout/pricer/internal/config"
	"poe2scout/pricer/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

const (
	categoriesPath        = "/items/categories"
	leaguesPath           = "/leagues"
	currencyItemsPath     = "/items/currency/{category}"
	uniqueItemsPath       = "/items/unique/{category}"
	uniqueBaseItemsPath   = "/items/uniqueBaseItems"
	uniquesByBaseNamePath = "/items/uniquesByBaseName/{baseName}"
	currencyByIDPath      = "/items/currencyById/{apiId}"
)

// PageQuery selects one page of a category listing
type PageQuery struct {
	Search  string
	Page    int
	PerPage int
	League  string
}

func (q PageQuery) params() map[string]string {
	page := max(q.Page, 1)
	perPage := q.PerPage
	if perPage <= 0 {
		perPage = 25
	}
	league := q.League
	if league == "" {
		league = domain.StandardLeague
	}

	params := map[string]string{
		"page":    strconv.Itoa(page),
		"perPage": strconv.Itoa(perPage),
		"league":  league,
	}
	if q.Search != "" {
		params["search"] = q.Search
	}
	return params
}

// CatalogClient is the read-only view of the remote price catalog. Every call fails with *APIError.
type CatalogClient interface {
	GetCategories(ctx context.Context) (*domain.CategoryResponse, error)
	GetLeagues(ctx context.Context) ([]domain.League, error)
	GetCurrencyItems(ctx context.Context, categoryAPIID string, query PageQuery) (*domain.CurrencyPage, error)
	GetUniqueItems(ctx context.Context, categoryAPIID string, query PageQuery) (*domain.UniquePage, error)
	GetUniqueBaseItems(ctx context.Context, query PageQuery) (*domain.UniqueBasePage, error)
	GetUniquesByBaseName(ctx context.Context, baseName, league string) (*domain.UniquesByBaseNameResponse, error)
	GetCurrencyItemByID(ctx context.Context, apiID, league string) (*domain.CurrencyItemByIDResponse, error)
}

type poe2ScoutClient struct {
	rl         ratelimit.Limiter
	httpClient *resty.Client
	timeout    time.Duration
}

func NewPoe2ScoutClient(cfg config.Poe2ScoutConfig) CatalogClient {
	timeout := cfg.TimeoutDuration()
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &poe2ScoutClient{
		rl:         rl,
		httpClient: httpClient,
		timeout:    timeout,
	}
}

func (c *poe2ScoutClient) GetCategories(ctx context.Context) (*domain.CategoryResponse, error) {
	var out domain.CategoryResponse
	if err := c.get(ctx, categoriesPath, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *poe2ScoutClient) GetLeagues(ctx context.Context) ([]domain.League, error) {
	var out []domain.League
	if err := c.get(ctx, leaguesPath, nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *poe2ScoutClient) GetCurrencyItems(ctx context.Context, categoryAPIID string, query PageQuery) (*domain.CurrencyPage, error) {
	var out domain.CurrencyPage
	pathParams := map[string]string{"category": categoryAPIID}
	if err := c.get(ctx, currencyItemsPath, pathParams, query.params(), &out); err != nil {
		return nil, err
	}
	log.Debugf("Fetched %d currency items for %s (page %d of %d)", len(out.Items), categoryAPIID, out.CurrentPage, out.Pages)
	return &out, nil
}

func (c *poe2ScoutClient) GetUniqueItems(ctx context.Context, categoryAPIID string, query PageQuery) (*domain.UniquePage, error) {
	var out domain.UniquePage
	pathParams := map[string]string{"category": categoryAPIID}
	if err := c.get(ctx, uniqueItemsPath, pathParams, query.params(), &out); err != nil {
		return nil, err
	}
	log.Debugf("Fetched %d unique items for %s (page %d of %d)", len(out.Items), categoryAPIID, out.CurrentPage, out.Pages)
	return &out, nil
}

func (c *poe2ScoutClient) GetUniqueBaseItems(ctx context.Context, query PageQuery) (*domain.UniqueBasePage, error) {
	params := query.params()
	params["showUnChanceable"] = "false"
	params["sortedBy"] = "price"

	var out domain.UniqueBasePage
	if err := c.get(ctx, uniqueBaseItemsPath, nil, params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *poe2ScoutClient) GetUniquesByBaseName(ctx context.Context, baseName, league string) (*domain.UniquesByBaseNameResponse, error) {
	var out domain.UniquesByBaseNameResponse
	pathParams := map[string]string{"baseName": baseName}
	if err := c.get(ctx, uniquesByBaseNamePath, pathParams, leagueParam(league), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *poe2ScoutClient) GetCurrencyItemByID(ctx context.Context, apiID, league string) (*domain.CurrencyItemByIDResponse, error) {
	var out domain.CurrencyItemByIDResponse
	pathParams := map[string]string{"apiId": apiID}
	if err := c.get(ctx, currencyByIDPath, pathParams, leagueParam(league), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func leagueParam(league string) map[string]string {
	if league == "" {
		league = domain.StandardLeague
	}
	return map[string]string{"league": league}
}

// get performs one throttled request and decodes the JSON body into out
func (c *poe2ScoutClient) get(ctx context.Context, path string, pathParams, queryParams map[string]string, out any) error {
	c.rl.Take()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req := c.httpClient.R().SetContext(reqCtx)
	if len(pathParams) > 0 {
		req.SetPathParams(pathParams)
	}
	if len(queryParams) > 0 {
		req.SetQueryParams(queryParams)
	}

	log.Debugf("Making request to %s", path)
	resp, err := req.Get(path)
	if err != nil {
		switch {
		case ctx.Err() != nil:
			return &APIError{Message: fmt.Sprintf("request cancelled: %v", ctx.Err())}
		case errors.Is(err, context.DeadlineExceeded) || errors.Is(reqCtx.Err(), context.DeadlineExceeded):
			return &APIError{Message: "request timeout"}
		default:
			return &APIError{Message: fmt.Sprintf("network error: %v", err)}
		}
	}

	body := resp.String()
	log.Debugf("Response status %d, %d bytes", resp.StatusCode(), len(body))

	if resp.IsError() {
		apiErr := newStatusError(resp.StatusCode(), body)
		log.Errorf("API request to %s failed: %s", path, apiErr.Message)
		return apiErr
	}

	if err := json.Unmarshal([]byte(body), out); err != nil {
		return &APIError{StatusCode: resp.StatusCode(), Message: fmt.Sprintf("failed to parse response: %v", err)}
	}

	return nil
}
