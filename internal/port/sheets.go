package port

import "context"

// SheetReader reads cell ranges from a spreadsheet. The first row is the header.
type SheetReader interface {
	ReadRange(ctx context.Context, sheet, cellRange string) ([][]string, error)
}
