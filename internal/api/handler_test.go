package api_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"poe2scout/pricer/internal/api"
	"poe2scout/pricer/internal/cache"
	"poe2scout/pricer/internal/client"
	"poe2scout/pricer/internal/client/mocks"
	"poe2scout/pricer/internal/domain"
	"poe2scout/pricer/internal/matcher"
	"poe2scout/pricer/internal/service"
	"poe2scout/pricer/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, *mocks.CatalogClient) {
	t.Helper()

	c := cache.New(time.Hour, time.Minute)
	t.Cleanup(c.Close)

	catalogClient := new(mocks.CatalogClient)
	t.Cleanup(func() { catalogClient.AssertExpectations(t) })

	svc := service.NewService(catalogClient, matcher.Default(), store.NewCatalog(), c, nil, service.Options{})
	return api.NewApp(api.NewHandler(svc, "Standard")), catalogClient
}

func do(t *testing.T, app *fiber.App, method, target string) (int, []byte) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(method, target, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func TestGetPrice(t *testing.T) {
	app, catalogClient := newTestApp(t)

	divine := 400.0
	catalogClient.On("GetCurrencyItems", mock.Anything, "currency", client.PageQuery{Page: 1, PerPage: 1000, League: "Dawn of the Hunt"}).
		Return(&domain.CurrencyPage{Items: []domain.CurrencyItem{{APIID: "divine", Text: "Divine Orb", CurrentPrice: &divine}}}, nil).Once()

	status, body := do(t, app, http.MethodGet, "/price?name=Divine%20Orb&category=currency&league=Dawn%20of%20the%20Hunt")
	require.Equal(t, http.StatusOK, status)

	var got domain.PriceData
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 400.0, got.CurrentPrice)
	assert.Equal(t, "divine", got.DetailsID)
}

func TestGetPriceUnknownIsEmpty(t *testing.T) {
	app, catalogClient := newTestApp(t)
	catalogClient.On("GetCategories", mock.Anything).Return(&domain.CategoryResponse{
		CurrencyCategories: []domain.Category{{APIID: "currency"}},
	}, nil).Once()

	status, body := do(t, app, http.MethodGet, "/price?name=Thing&category=mystery")
	require.Equal(t, http.StatusOK, status)

	var got domain.PriceData
	require.NoError(t, json.Unmarshal(body, &got))
	assert.False(t, got.HasValidPrice())
}

func TestStatusBeforeLoad(t *testing.T) {
	app, _ := newTestApp(t)

	status, body := do(t, app, http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{
		"loaded": false,
		"last_update": null,
		"divine_price": null,
		"stats": {"currency_categories":0,"unique_categories":0,"currency_pages":0,"unique_pages":0,"leagues":0}
	}`, string(body))
}

func TestReload(t *testing.T) {
	app, catalogClient := newTestApp(t)

	catalogClient.On("GetCategories", mock.Anything).Return(&domain.CategoryResponse{}, nil).Once()
	catalogClient.On("GetLeagues", mock.Anything).Return([]domain.League{{Value: "Standard", DivinePrice: 390}}, nil).Once()

	status, body := do(t, app, http.MethodPost, "/reload")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"success": true}`, string(body))

	_, body = do(t, app, http.MethodGet, "/status")
	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, 390.0, got["divine_price"])
	assert.NotNil(t, got["last_update"])
}

func TestReloadFailure(t *testing.T) {
	app, catalogClient := newTestApp(t)
	catalogClient.On("GetCategories", mock.Anything).Return(nil, &client.APIError{Message: "request timeout"}).Once()

	status, body := do(t, app, http.MethodPost, "/reload?league=Hardcore")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, string(body), `"success":false`)
}

func TestClearCache(t *testing.T) {
	app, _ := newTestApp(t)

	status, _ := do(t, app, http.MethodDelete, "/cache")
	assert.Equal(t, http.StatusNoContent, status)
}

func TestAuxiliaryLookups(t *testing.T) {
	app, catalogClient := newTestApp(t)

	catalogClient.On("GetCurrencyItemByID", mock.Anything, "divine", "Standard").Return(&domain.CurrencyItemByIDResponse{
		Item: domain.CurrencyItem{APIID: "divine", Text: "Divine Orb"},
	}, nil).Once()
	catalogClient.On("GetCurrencyItemByID", mock.Anything, "nope", "Standard").
		Return(nil, &client.APIError{StatusCode: 404, Message: "request failed with status 404"}).Once()
	catalogClient.On("GetUniquesByBaseName", mock.Anything, "Gold Amulet", "Standard").Return(&domain.UniquesByBaseNameResponse{
		Items: []domain.UniqueItem{{Name: "Andvarius"}},
	}, nil).Once()

	status, body := do(t, app, http.MethodGet, "/currency/divine")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"text":"Divine Orb"`)

	status, _ = do(t, app, http.MethodGet, "/currency/nope")
	assert.Equal(t, http.StatusNotFound, status)

	status, body = do(t, app, http.MethodGet, "/uniques/base/Gold%20Amulet")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "Andvarius")
}
