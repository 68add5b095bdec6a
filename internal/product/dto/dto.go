package dto

import "github.com/shopspring/decimal"

type ProductFilters struct {
	CategoryID  string           `json:"category_id,omitempty"`
	SearchQuery string           `json:"search,omitempty"` // name substring
	MinPrice    *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice    *decimal.Decimal `json:"max_price,omitempty"`
	SortBy      string           `json:"sort_by,omitempty"` // name, price, created_at
	SortOrder   string           `json:"sort_order,omitempty"`
	Page        int              `json:"page"`
	PageSize    int              `json:"page_size"` // 0 returns every product
}
