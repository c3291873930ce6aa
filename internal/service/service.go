package service

import (
	"context"
	"fmt"
	"time"

	"poe2scout/pricer/internal/cache"
	"poe2scout/pricer/internal/client"
	"poe2scout/pricer/internal/domain"
	"poe2scout/pricer/internal/matcher"
	"poe2scout/pricer/internal/state"
	"poe2scout/pricer/internal/store"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Options tune how the service talks to the catalog
type Options struct {
	PerPage       int           // page size large enough to hold a whole category
	RequestDelay  time.Duration // pause between consecutive category fetches in LoadAll
	LookupTTL     time.Duration // lifetime of cached by-id and by-base lookups
	LoadBaseItems bool
}

// Service resolves query items to prices against a lazily or bulk populated catalog.
// Lookups never return errors; failures degrade to an empty PriceData.
type Service struct {
	client  client.CatalogClient
	matcher *matcher.Matcher
	catalog *store.Catalog
	cache   *cache.Cache
	status  state.StatusStore // optional

	opts  Options
	group singleflight.Group
	now   func() time.Time
}

func NewService(
	client client.CatalogClient,
	matcher *matcher.Matcher,
	catalog *store.Catalog,
	cache *cache.Cache,
	status state.StatusStore,
	opts Options,
) *Service {
	if opts.PerPage <= 0 {
		opts.PerPage = 1000
	}

	return &Service{
		client:  client,
		matcher: matcher,
		catalog: catalog,
		cache:   cache,
		status:  status,
		opts:    opts,
		now:     time.Now,
	}
}

// GetPrice resolves item against the catalog of its category, fetching the category on first use
func (s *Service) GetPrice(ctx context.Context, item domain.QueryItem, league string) domain.PriceData {
	kind := s.classify(ctx, item.CategoryAPIID)
	if kind == domain.ItemTypeNone {
		log.Debugf("Unknown category %q for %q", item.CategoryAPIID, item.Name)
		return domain.PriceData{}
	}

	result := domain.PriceData{
		ItemType:      kind,
		CategoryAPIID: item.CategoryAPIID,
		LastUpdated:   s.now(),
	}

	switch {
	case kind.IsCurrency():
		page, err := s.ensureCurrency(ctx, item.CategoryAPIID, league, false)
		if err != nil {
			log.Debugf("No currency data for %s: %v", item.CategoryAPIID, err)
			return result
		}

		found := s.matcher.FindCurrencyItem(item.Name, item.CategoryAPIID, page.Items)
		if found == nil {
			log.Debugf("No currency match for %q in %s", item.Name, item.CategoryAPIID)
			return result
		}

		result.DetailsID = found.APIID
		result.ApplyQuote(found.CurrentPrice, found.PriceLogs)

	case kind.IsUnique():
		page, err := s.ensureUnique(ctx, item.CategoryAPIID, league, false)
		if err != nil {
			log.Debugf("No unique data for %s: %v", item.CategoryAPIID, err)
			return result
		}

		found := s.matcher.FindUniqueItem(item.Name, item.BaseName, item.CategoryAPIID, page.Items)
		if found == nil {
			log.Debugf("No unique match for %q (%s) in %s", item.Name, item.BaseName, item.CategoryAPIID)
			return result
		}

		result.DetailsID = found.Name
		result.IsChanceable = found.IsChanceable
		result.ApplyQuote(found.CurrentPrice, found.PriceLogs)
	}

	return result
}

// classify prefers the static category table, then the loaded category lists.
// When nothing is loaded yet the category listing is fetched once.
func (s *Service) classify(ctx context.Context, categoryAPIID string) domain.ItemType {
	if categoryAPIID == "" {
		return domain.ItemTypeNone
	}
	if t := domain.ItemTypeFromCategory(categoryAPIID); t != domain.ItemTypeNone {
		return t
	}
	if t := s.catalog.ClassifyCategory(categoryAPIID); t != domain.ItemTypeNone || s.catalog.IsLoaded() {
		return t
	}

	if err := s.ensureCategories(ctx); err != nil {
		log.Debugf("Could not classify %s: %v", categoryAPIID, err)
		return domain.ItemTypeNone
	}
	return s.catalog.ClassifyCategory(categoryAPIID)
}

func (s *Service) ensureCategories(ctx context.Context) error {
	_, err, _ := s.group.Do("categories", func() (any, error) {
		if s.catalog.IsLoaded() {
			return nil, nil
		}
		categories, err := s.client.GetCategories(ctx)
		if err != nil {
			return nil, err
		}
		s.catalog.SetCategories(*categories)
		return nil, nil
	})
	return err
}

func (s *Service) ensureCurrency(ctx context.Context, categoryAPIID, league string, force bool) (*domain.CurrencyPage, error) {
	return ensurePage(s, "currency:"+categoryAPIID, force,
		func() (*domain.CurrencyPage, bool) { return s.catalog.CurrencyPage(categoryAPIID) },
		func() (*domain.CurrencyPage, error) {
			return s.client.GetCurrencyItems(ctx, categoryAPIID, s.pageQuery(league))
		},
		func(page *domain.CurrencyPage) { s.catalog.PutCurrencyPage(categoryAPIID, page) },
	)
}

func (s *Service) ensureUnique(ctx context.Context, categoryAPIID, league string, force bool) (*domain.UniquePage, error) {
	return ensurePage(s, "unique:"+categoryAPIID, force,
		func() (*domain.UniquePage, bool) { return s.catalog.UniquePage(categoryAPIID) },
		func() (*domain.UniquePage, error) {
			return s.client.GetUniqueItems(ctx, categoryAPIID, s.pageQuery(league))
		},
		func(page *domain.UniquePage) { s.catalog.PutUniquePage(categoryAPIID, page) },
	)
}

// ensurePage returns the stored page for key, fetching it when absent or when force is set.
// Concurrent fetches of the same key share one request. Failures are not stored.
func ensurePage[P any](
	s *Service,
	key string,
	force bool,
	stored func() (P, bool),
	fetch func() (P, error),
	put func(P),
) (P, error) {
	if !force {
		if page, ok := stored(); ok {
			return page, nil
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		if !force {
			if page, ok := stored(); ok {
				return page, nil
			}
		}
		page, err := fetch()
		if err != nil {
			return nil, err
		}
		put(page)
		return page, nil
	})
	if err != nil {
		var zero P
		return zero, err
	}
	return v.(P), nil
}

func (s *Service) pageQuery(league string) client.PageQuery {
	return client.PageQuery{
		Page:    1,
		PerPage: s.opts.PerPage,
		League:  league,
	}
}

// LoadAll fetches the category listing, the leagues and every category page in listing order.
// It reports false only when the category listing itself could not be fetched or ctx ends mid-load.
func (s *Service) LoadAll(ctx context.Context, league string) bool {
	log.Infof("🔄 Loading catalog for league %s", league)
	started := s.now()

	categories, err := s.client.GetCategories(ctx)
	if err != nil {
		log.Errorf("❌ Failed to fetch categories: %v", err)
		return false
	}
	s.catalog.SetCategories(*categories)

	leagues, err := s.client.GetLeagues(ctx)
	if err != nil {
		log.Warnf("⚠️ Failed to fetch leagues: %v", err)
	} else {
		s.catalog.SetLeagues(leagues)
	}

	fetched, skipped := 0, 0
	for _, category := range categories.CurrencyCategories {
		if err := s.pause(ctx, fetched+skipped); err != nil {
			log.Warnf("🛑 Catalog load for %s interrupted: %v", league, err)
			return false
		}
		if _, err := s.ensureCurrency(ctx, category.APIID, league, true); err != nil {
			log.Warnf("⚠️ Skipping currency category %s: %v", category.APIID, err)
			skipped++
			continue
		}
		fetched++
	}

	for _, category := range categories.UniqueCategories {
		if err := s.pause(ctx, fetched+skipped); err != nil {
			log.Warnf("🛑 Catalog load for %s interrupted: %v", league, err)
			return false
		}
		if _, err := s.ensureUnique(ctx, category.APIID, league, true); err != nil {
			log.Warnf("⚠️ Skipping unique category %s: %v", category.APIID, err)
			skipped++
			continue
		}
		fetched++
	}

	if s.opts.LoadBaseItems {
		s.loadBaseItems(ctx, league, fetched+skipped)
	}

	s.catalog.MarkUpdated(s.now())
	log.Infof("✅ Loaded %d categories for %s (%d skipped) in %s",
		fetched, league, skipped, s.now().Sub(started).Round(time.Millisecond))

	s.publishStatus(ctx, league, skipped)
	return true
}

// RefreshAll drops everything held in memory and loads the catalog again
func (s *Service) RefreshAll(ctx context.Context, league string) bool {
	log.Infof("🧹 Refreshing catalog for league %s", league)
	s.catalog.Clear()
	s.cache.Clear()
	return s.LoadAll(ctx, league)
}

func (s *Service) loadBaseItems(ctx context.Context, league string, done int) {
	if err := s.pause(ctx, done); err != nil {
		return
	}
	page, err := s.client.GetUniqueBaseItems(ctx, s.pageQuery(league))
	if err != nil {
		log.Warnf("⚠️ Failed to fetch unique base items: %v", err)
		return
	}
	s.catalog.SetBaseItems(page)
}

// pause waits RequestDelay before every fetch but the first
func (s *Service) pause(ctx context.Context, done int) error {
	if done == 0 || s.opts.RequestDelay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(s.opts.RequestDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) publishStatus(ctx context.Context, league string, skipped int) {
	if s.status == nil {
		return
	}

	divine, _ := s.catalog.DivinePrice()
	status := state.LoadStatus{
		League:      league,
		LastUpdate:  s.catalog.LastUpdateTime(),
		Stats:       s.catalog.Stats(),
		Skipped:     skipped,
		DivinePrice: divine,
	}
	if err := s.status.SetStatus(ctx, status); err != nil {
		log.Warnf("⚠️ Failed to publish load status for %s: %v", league, err)
	}
}

// CurrencyByID looks up a single currency entry, caching the answer for LookupTTL
func (s *Service) CurrencyByID(ctx context.Context, apiID, league string) (*domain.CurrencyItem, bool) {
	key := fmt.Sprintf("currencyById:%s:%s", league, apiID)
	if item, ok := cache.TryGet[*domain.CurrencyItem](s.cache, key); ok {
		return item, true
	}

	resp, err := s.client.GetCurrencyItemByID(ctx, apiID, league)
	if err != nil {
		log.Debugf("Currency %s not available: %v", apiID, err)
		return nil, false
	}
	if resp.Item.APIID == "" && resp.Item.Text == "" {
		return nil, false
	}

	item := resp.Item
	s.remember(key, &item)
	return &item, true
}

// UniquesByBaseName lists the uniques sharing a base type, caching the answer for LookupTTL
func (s *Service) UniquesByBaseName(ctx context.Context, baseName, league string) ([]domain.UniqueItem, bool) {
	key := fmt.Sprintf("uniquesByBase:%s:%s", league, matcher.NormalizeName(baseName))
	if items, ok := cache.TryGet[[]domain.UniqueItem](s.cache, key); ok {
		return items, true
	}

	resp, err := s.client.GetUniquesByBaseName(ctx, baseName, league)
	if err != nil {
		log.Debugf("Uniques for base %s not available: %v", baseName, err)
		return nil, false
	}
	if len(resp.Items) == 0 {
		return nil, false
	}

	s.remember(key, resp.Items)
	return resp.Items, true
}

func (s *Service) remember(key string, value any) {
	if err := s.cache.SetWithTTL(key, value, s.opts.LookupTTL); err != nil {
		log.Warnf("⚠️ Failed to cache %s: %v", key, err)
	}
}

// ClearCache drops cached auxiliary lookups. The catalog itself is untouched.
func (s *Service) ClearCache() {
	s.cache.Clear()
	log.Info("🧹 Lookup cache cleared")
}

func (s *Service) IsDataLoaded() bool {
	return s.catalog.IsLoaded()
}

func (s *Service) LastUpdateTime() time.Time {
	return s.catalog.LastUpdateTime()
}

// DivinePrice is the Standard league divine price, used to convert chaos prices
func (s *Service) DivinePrice() (float64, bool) {
	return s.catalog.DivinePrice()
}

func (s *Service) Stats() store.Stats {
	return s.catalog.Stats()
}
