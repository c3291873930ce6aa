package domain

type Category struct {
	ID    int    `json:"id"`
	APIID string `json:"apiId"` // Partition key, e.g. "currency", "weapon"
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

type CategoryResponse struct {
	UniqueCategories   []Category `json:"unique_categories"`
	CurrencyCategories []Category `json:"currency_categories"`
}

// IsEmpty reports whether neither category list has entries
func (r CategoryResponse) IsEmpty() bool {
	return len(r.UniqueCategories) == 0 && len(r.CurrencyCategories) == 0
}

type CurrencyItem struct {
	ID                 int            `json:"id"`
	ItemID             int            `json:"itemId"`
	CurrencyCategoryID int            `json:"currencyCategoryId"`
	APIID              string         `json:"apiId"`
	Text               string         `json:"text"`
	CategoryAPIID      string         `json:"categoryApiId"`
	IconURL            *string        `json:"iconUrl,omitempty"`
	ItemMetadata       map[string]any `json:"itemMetadata,omitempty"`
	PriceLogs          []*PriceLog    `json:"priceLogs"`
	CurrentPrice       *float64       `json:"currentPrice"`
}

type UniqueItem struct {
	ID            int            `json:"id"`
	ItemID        int            `json:"itemId"`
	IconURL       *string        `json:"iconUrl,omitempty"`
	Text          string         `json:"text"`
	Name          string         `json:"name"`
	CategoryAPIID string         `json:"categoryApiId"`
	ItemMetadata  map[string]any `json:"itemMetadata,omitempty"`
	Type          string         `json:"type"` // Base type label, e.g. "Gold Amulet"
	IsChanceable  bool           `json:"isChanceable"`
	PriceLogs     []*PriceLog    `json:"priceLogs"`
	CurrentPrice  *float64       `json:"currentPrice"`
}

type UniqueBaseItem struct {
	ID                 int            `json:"id"`
	ItemID             int            `json:"itemId"`
	IconURL            *string        `json:"iconUrl,omitempty"`
	ItemMetadata       map[string]any `json:"itemMetadata,omitempty"`
	Name               string         `json:"name"`
	APIID              string         `json:"apiId"`
	PriceLogs          []*PriceLog    `json:"priceLogs"`
	CurrentPrice       *float64       `json:"currentPrice"`
	AverageUniquePrice *float64       `json:"averageUniquePrice"`
	IsChanceable       *bool          `json:"isChanceable"`
}

// Page is one page of a paginated catalog listing
type Page[T any] struct {
	CurrentPage int `json:"currentPage"`
	Pages       int `json:"pages"`
	Total       int `json:"total"`
	Items       []T `json:"items"`
}

type (
	CurrencyPage   = Page[CurrencyItem]
	UniquePage     = Page[UniqueItem]
	UniqueBasePage = Page[UniqueBaseItem]
)

type UniquesByBaseNameResponse struct {
	Items []UniqueItem `json:"items"`
}

type CurrencyItemByIDResponse struct {
	Item CurrencyItem `json:"item"`
}

type League struct {
	Value       string  `json:"value"`
	DivinePrice float64 `json:"divinePrice"`
}

// StandardLeague is the league whose divine price is used for denomination conversion
const StandardLeague = "Standard"
