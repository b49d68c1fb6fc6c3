package service

import (
	"context"
	"fmt"
	"io"

	"bookstore-catalog/internal/domains/book/model"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Books"

var exportHeaders = []string{
	"Book ID",
	"Title",
	"Author",
	"Publisher",
	"ISBN",
	"Category",
	"Classification",
	"Page Count",
	"Price",
}

// ExportBooks streams the matching books, ordered by id, as an xlsx workbook.
// It reads the store directly so that exports never come from a stale cache.
func (s *BookService) ExportBooks(ctx context.Context, category string, w io.Writer) (int, error) {
	filter := model.PageQuery{Category: category}.Filter()
	books, _, err := s.repo.ListPage(ctx, filter)
	if err != nil {
		return 0, err
	}

	f, err := buildBooksExcelFile(books)
	if err != nil {
		return 0, fmt.Errorf("failed to build excel file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return 0, fmt.Errorf("failed to write excel file: %w", err)
	}
	return len(books), nil
}

func buildBooksExcelFile(books []model.Book) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	// Row 1: header
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeaders); err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
		_ = f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle)
	}

	// Data rows start at row 2
	for i, b := range books {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []interface{}{
			b.BookID,
			b.Title,
			b.Author,
			b.Publisher,
			b.ISBN,
			b.Category,
			b.Classification,
			b.PageCount,
			b.Price.InexactFloat64(),
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, err
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}
	return f, nil
}
