// Package store holds the in-memory catalog snapshot.
//
// Pages are stored and handed out by pointer and must be treated as read-only;
// a refresh replaces a page wholesale instead of editing it.
package store

import (
	"slices"
	"sync"
	"time"

	"poe2scout/pricer/internal/domain"
)

type Catalog struct {
	mu sync.RWMutex

	categories    domain.CategoryResponse
	currencyItems map[string]*domain.CurrencyPage // keyed by category API id
	uniqueItems   map[string]*domain.UniquePage   // keyed by category API id
	baseItems     *domain.UniqueBasePage
	leagues       []domain.League
	lastUpdate    time.Time
}

// Stats is a point-in-time summary of what the catalog holds
type Stats struct {
	CurrencyCategories int `json:"currency_categories"`
	UniqueCategories   int `json:"unique_categories"`
	CurrencyPages      int `json:"currency_pages"`
	UniquePages        int `json:"unique_pages"`
	Leagues            int `json:"leagues"`
}

func NewCatalog() *Catalog {
	return &Catalog{
		currencyItems: make(map[string]*domain.CurrencyPage),
		uniqueItems:   make(map[string]*domain.UniquePage),
	}
}

func (c *Catalog) SetCategories(categories domain.CategoryResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = domain.CategoryResponse{
		UniqueCategories:   slices.Clone(categories.UniqueCategories),
		CurrencyCategories: slices.Clone(categories.CurrencyCategories),
	}
}

func (c *Catalog) Categories() domain.CategoryResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.CategoryResponse{
		UniqueCategories:   slices.Clone(c.categories.UniqueCategories),
		CurrencyCategories: slices.Clone(c.categories.CurrencyCategories),
	}
}

// ClassifyCategory reports which category list holds apiID.
// It returns ItemTypeNone when the id is in neither list.
func (c *Catalog) ClassifyCategory(apiID string) domain.ItemType {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, cat := range c.categories.CurrencyCategories {
		if cat.APIID == apiID {
			return domain.ItemTypeCurrency
		}
	}
	for _, cat := range c.categories.UniqueCategories {
		if cat.APIID == apiID {
			return domain.ItemTypeUnique
		}
	}
	return domain.ItemTypeNone
}

func (c *Catalog) PutCurrencyPage(categoryAPIID string, page *domain.CurrencyPage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currencyItems[categoryAPIID] = page
}

// CurrencyPage returns the stored page; false means the category was not fetched yet
func (c *Catalog) CurrencyPage(categoryAPIID string) (*domain.CurrencyPage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	page, ok := c.currencyItems[categoryAPIID]
	return page, ok
}

func (c *Catalog) PutUniquePage(categoryAPIID string, page *domain.UniquePage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.uniqueItems[categoryAPIID] = page
}

func (c *Catalog) UniquePage(categoryAPIID string) (*domain.UniquePage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	page, ok := c.uniqueItems[categoryAPIID]
	return page, ok
}

func (c *Catalog) SetBaseItems(page *domain.UniqueBasePage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseItems = page
}

func (c *Catalog) BaseItems() (*domain.UniqueBasePage, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseItems, c.baseItems != nil
}

func (c *Catalog) SetLeagues(leagues []domain.League) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leagues = slices.Clone(leagues)
}

func (c *Catalog) Leagues() []domain.League {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.leagues)
}

// DivinePrice is the Standard league's divine price, if leagues were fetched
func (c *Catalog) DivinePrice() (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.leagues {
		if l.Value == domain.StandardLeague {
			return l.DivinePrice, true
		}
	}
	return 0, false
}

// IsLoaded reports whether any category listing is present
func (c *Catalog) IsLoaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.categories.IsEmpty()
}

func (c *Catalog) MarkUpdated(at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastUpdate = at
}

func (c *Catalog) LastUpdateTime() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}

func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		CurrencyCategories: len(c.categories.CurrencyCategories),
		UniqueCategories:   len(c.categories.UniqueCategories),
		CurrencyPages:      len(c.currencyItems),
		UniquePages:        len(c.uniqueItems),
		Leagues:            len(c.leagues),
	}
}

// Clear drops everything, returning every partition to unfetched
func (c *Catalog) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories = domain.CategoryResponse{}
	c.currencyItems = make(map[string]*domain.CurrencyPage)
	c.uniqueItems = make(map[string]*domain.UniquePage)
	c.baseItems = nil
	c.leagues = nil
	c.lastUpdate = time.Time{}
}
