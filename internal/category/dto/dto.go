package dto

type CategoryFilters struct {
	SearchQuery string
	Page        int
	PageSize    int // 0 returns every category
}
