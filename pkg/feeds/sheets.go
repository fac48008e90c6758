package feeds

import (
	"context"
	"errors"
	"fmt"

	"github.com/travigo/driverportal/pkg/sheet"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsFetcher reads feeds straight from the Google Sheets API instead of a published export.
type SheetsFetcher struct {
	service *sheets.Service
}

func NewSheetsFetcher(ctx context.Context, apiKey string) (*SheetsFetcher, error) {
	if apiKey == "" {
		return nil, errors.New("sheets api key is not set")
	}

	service, err := sheets.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsFetcher{service: service}, nil
}

func (f *SheetsFetcher) Fetch(ctx context.Context, registry *Registry, feed Feed) (*sheet.Table, error) {
	valueRange, err := f.service.Spreadsheets.Values.
		Get(registry.SpreadsheetID, feed.Sheet).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}

	return sheet.FromValues(feed.Identifier, valueRange.Values), nil
}
