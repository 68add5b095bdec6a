package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/product/dto"
	"go.uber.org/zap"
)

const (
	indexName = "products"

	indexMapping = `{
		"mappings": {
			"properties": {
				"category_id": { "type": "keyword" },
				"name": { "type": "text", "fields": { "raw": { "type": "keyword" } } },
				"description": { "type": "text" },
				"price": { "type": "double" },
				"created_at": { "type": "date" }
			}
		}
	}`
)

type productDocument struct {
	ID          string    `json:"id"`
	CategoryID  *string   `json:"category_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

func newDocument(p *model.Product) productDocument {
	price, _ := p.Price.Float64()
	return productDocument{
		ID:          p.ID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       price,
		CreatedAt:   p.CreatedAt,
	}
}

func (uc *productUseCase) syncToElastic(ctx context.Context, p *model.Product) {
	if uc.es == nil {
		return
	}
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		uc.logger.Warn("failed to ensure product index", zap.Error(err))
	}
	if err := uc.es.Index(ctx, indexName, p.ID, newDocument(p)); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", p.ID), zap.Error(err))
	}
}

func (uc *productUseCase) removeFromElastic(ctx context.Context, id string) {
	if uc.es == nil {
		return
	}
	if err := uc.es.Delete(ctx, indexName, id); err != nil {
		uc.logger.Error("failed to delete product from ES", zap.String("product_id", id), zap.Error(err))
	}
}

// searchElastic resolves matching ids in the index and loads the rows from the
// database, keeping the index ranking.
func (uc *productUseCase) searchElastic(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	res, err := uc.es.Search(ctx, indexName, buildSearchQuery(f))
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	rows, err := uc.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	byID := make(map[string]model.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	products := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, res.Hits.Total.Value, nil
}

func buildSearchQuery(f *dto.ProductFilters) map[string]interface{} {
	must := []map[string]interface{}{
		{
			"query_string": map[string]interface{}{
				"query":  fmt.Sprintf("*%s*", escapeQuery(f.SearchQuery)),
				"fields": []string{"name^3", "description"},
			},
		},
	}

	filter := []map[string]interface{}{}
	if f.CategoryID != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"category_id": f.CategoryID},
		})
	}
	if f.MinPrice != nil || f.MaxPrice != nil {
		price := map[string]interface{}{}
		if f.MinPrice != nil {
			v, _ := f.MinPrice.Float64()
			price["gte"] = v
		}
		if f.MaxPrice != nil {
			v, _ := f.MaxPrice.Float64()
			price["lte"] = v
		}
		filter = append(filter, map[string]interface{}{
			"range": map[string]interface{}{"price": price},
		})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}

	if f.SortBy != "" {
		field := f.SortBy
		if field == "name" {
			field = "name.raw"
		}
		order := "desc"
		if strings.ToLower(f.SortOrder) == "asc" {
			order = "asc"
		}
		q["sort"] = []map[string]interface{}{{field: map[string]interface{}{"order": order}}}
	}

	if f.PageSize > 0 {
		q["from"] = (f.Page - 1) * f.PageSize
		q["size"] = f.PageSize
	}
	return q
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`, `+`, `\+`, `-`, `\-`, `=`, `\=`, `&`, `\&`, `|`, `\|`, `!`, `\!`,
	`(`, `\(`, `)`, `\)`, `{`, `\{`, `}`, `\}`, `[`, `\[`, `]`, `\]`, `^`, `\^`,
	`"`, `\"`, `~`, `\~`, `*`, `\*`, `?`, `\?`, `:`, `\:`, `/`, `\/`, `<`, ``, `>`, ``,
)

// escapeQuery neutralises query_string operators in user input.
func escapeQuery(s string) string {
	return queryEscaper.Replace(strings.TrimSpace(s))
}
