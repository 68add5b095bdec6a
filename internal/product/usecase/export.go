package usecase

import (
	"context"
	"io"

	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/internal/product/dto"
	"github.com/tealeg/xlsx"
)

const exportTimeLayout = "2006-01-02 15:04:05"

var exportHeaders = []string{
	"ID", "Name", "Description", "Price", "Category", "Image", "CreatedAt", "UpdatedAt",
}

func (uc *productUseCase) ExportProducts(ctx context.Context, w io.Writer) error {
	products, _, err := uc.repo.FindAll(ctx, &dto.ProductFilters{})
	if err != nil {
		return err
	}
	refs := make([]*model.Product, len(products))
	for i := range products {
		refs[i] = &products[i]
	}
	if err := uc.attach(ctx, refs); err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range exportHeaders {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(deref(p.Description))
		row.AddCell().SetValue(p.Price.StringFixed(2))

		categoryName := ""
		if p.Category != nil {
			categoryName = p.Category.Name
		}
		row.AddCell().SetValue(categoryName)
		row.AddCell().SetValue(deref(p.ImageURL))
		row.AddCell().SetValue(p.CreatedAt.Format(exportTimeLayout))
		row.AddCell().SetValue(p.UpdatedAt.Format(exportTimeLayout))
	}

	return file.Write(w)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
