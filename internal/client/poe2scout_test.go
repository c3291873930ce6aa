package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"poe2scout/pricer/internal/client"
	"poe2scout/pricer/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) client.CatalogClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return client.NewPoe2ScoutClient(config.Poe2ScoutConfig{
		BaseURL:   srv.URL,
		UserAgent: "pricer-test",
		Timeout:   5,
	})
}

func TestGetCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/categories", r.URL.Path)
		assert.Equal(t, "pricer-test", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"unique_categories": [{"id": 1, "apiId": "weapon", "label": "Weapons"}],
			"currency_categories": [{"id": 2, "apiId": "currency", "label": "Currency"}]
		}`))
	})

	got, err := c.GetCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, got.UniqueCategories, 1)
	assert.Equal(t, "weapon", got.UniqueCategories[0].APIID)
	assert.Equal(t, "currency", got.CurrencyCategories[0].APIID)
}

func TestGetCurrencyItemsSendsPaging(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/currency/currency", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "1", q.Get("page"))
		assert.Equal(t, "1000", q.Get("perPage"))
		assert.Equal(t, "Dawn of the Hunt", q.Get("league"))
		assert.False(t, q.Has("search"))
		_, _ = w.Write([]byte(`{
			"currentPage": 1, "pages": 1, "total": 1,
			"items": [{
				"apiId": "exalted", "text": "Exalted Orb", "categoryApiId": "currency",
				"currentPrice": 150.5,
				"priceLogs": [null, {"price": 140, "time": "2025-04-01T10:00:00", "quantity": 12}]
			}]
		}`))
	})

	page, err := c.GetCurrencyItems(context.Background(), "currency", client.PageQuery{Page: 1, PerPage: 1000, League: "Dawn of the Hunt"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	item := page.Items[0]
	assert.Equal(t, "Exalted Orb", item.Text)
	require.NotNil(t, item.CurrentPrice)
	assert.Equal(t, 150.5, *item.CurrentPrice)
	require.Len(t, item.PriceLogs, 2)
	assert.Nil(t, item.PriceLogs[0])
	assert.Equal(t, time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC), item.PriceLogs[1].Time.Time)
}

func TestGetUniqueItemsEscapesCategory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/items/unique/body armour", r.URL.Path)
		assert.Equal(t, "Standard", r.URL.Query().Get("league"))
		_, _ = w.Write([]byte(`{"currentPage":1,"pages":1,"total":0,"items":[]}`))
	})

	page, err := c.GetUniqueItems(context.Background(), "body armour", client.PageQuery{})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestValidationErrorDetails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail": [
			{"loc": ["query", "perPage"], "msg": "value too large", "type": "value_error"},
			{"loc": ["query", "page"], "msg": "must be positive", "type": "value_error"}
		]}`))
	})

	_, err := c.GetLeagues(context.Background())
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnprocessableEntity, apiErr.StatusCode)
	assert.Equal(t, "request failed with status 422: value too large, must be positive", apiErr.Message)
}

func TestPlainErrorBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	})

	_, err := c.GetCategories(context.Background())
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "request failed with status 502: upstream down", apiErr.Message)
}

func TestMalformedPayload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"unique_categories": "nope"`))
	})

	_, err := c.GetCategories(context.Background())
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "failed to parse response")
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := client.NewPoe2ScoutClient(config.Poe2ScoutConfig{BaseURL: url, Timeout: 1})

	_, err := c.GetCategories(context.Background())
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.StatusCode)
}

func TestCurrencyByIDAndUniquesByBase(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/items/currencyById/divine":
			_, _ = w.Write([]byte(`{"item": {"apiId": "divine", "text": "Divine Orb", "currentPrice": 200}}`))
		case "/items/uniquesByBaseName/Gold Amulet":
			_, _ = w.Write([]byte(`{"items": [{"name": "Andvarius", "type": "Gold Amulet"}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	byID, err := c.GetCurrencyItemByID(context.Background(), "divine", "Standard")
	require.NoError(t, err)
	assert.Equal(t, "Divine Orb", byID.Item.Text)

	byBase, err := c.GetUniquesByBaseName(context.Background(), "Gold Amulet", "Standard")
	require.NoError(t, err)
	require.Len(t, byBase.Items, 1)
	assert.Equal(t, "Andvarius", byBase.Items[0].Name)
}
