package inventory

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"collection-pricer/core/utils"

	"go.uber.org/zap"
)

// Normalised header names recognised by the importer.
const (
	colQuantity  = "quantity"
	colCondition = "condition"
	colName      = "name"
	colRarity    = "rarity"
	colCardID    = "cardid"
	colManual    = "manualpricegbp"
	colPrice     = "marketpricegbp"
)

var requiredHeaders = []string{colQuantity, colCondition, colName, colRarity}

// headerAliases folds alternative spellings onto the canonical names.
var headerAliases = map[string]string{
	"qty":         colQuantity,
	"manualprice": colManual,
	"override":    colManual,
	"price":       colPrice,
	"marketprice": colPrice,
	"catalogid":   colCardID,
}

// ErrMissingHeaders is returned when the CSV lacks a required column.
var ErrMissingHeaders = errors.New("csv is missing required headers")

// Importer loads CSV exports into the Store.
type Importer struct {
	store  *Store
	logger *zap.Logger
}

// NewImporter returns an Importer writing to store.
func NewImporter(store *Store, logger *zap.Logger) *Importer {
	return &Importer{store: store, logger: logger}
}

// ImportResult summarises one import.
type ImportResult struct {
	Set     Set `json:"set"`
	Rows    int `json:"rows"`
	Skipped int `json:"skipped"`
}

// Import replaces the rows of setName with the content of r.
func (im *Importer) Import(ctx context.Context, setName, catalogSetID string, r io.Reader) (*ImportResult, error) {
	rows, skipped, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	set, err := im.store.ReplaceSet(ctx, Set{Name: strings.TrimSpace(setName), CatalogSetID: catalogSetID}, rows)
	if err != nil {
		return nil, err
	}
	im.logger.Info("Imported set",
		zap.String("set", set.Name),
		zap.Int("rows", len(rows)),
		zap.Int("skipped", skipped),
	)
	return &ImportResult{Set: *set, Rows: len(rows), Skipped: skipped}, nil
}

// ParseCSV reads rows from a CSV with a header line. Rows without a name are
// counted as skipped.
func ParseCSV(r io.Reader) ([]Row, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read csv header: %w", err)
	}
	index := buildHeaderIndex(header)

	var missing []string
	for _, h := range requiredHeaders {
		if _, ok := index[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, 0, fmt.Errorf("%w: %s", ErrMissingHeaders, strings.Join(missing, ", "))
	}

	var rows []Row
	skipped := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read csv: %w", err)
		}

		field := func(col string) string {
			i, ok := index[col]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		row := Row{
			Quantity: utils.ToInt(field(colQuantity)),
			Cond:     string(ParseCondition(field(colCondition))),
			Name:     field(colName),
			Rarity:   field(colRarity),
			CardID:   field(colCardID),
		}
		if !row.HasName() {
			skipped++
			continue
		}
		if v := utils.ToFloat(field(colManual)); v > 0 {
			row.ManualPrice = &v
		}
		if v := utils.ToFloat(field(colPrice)); v > 0 {
			row.Price = &v
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

func buildHeaderIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		key := utils.NormalizeHeader(h)
		if alias, ok := headerAliases[key]; ok {
			key = alias
		}
		if key == "" {
			continue
		}
		if _, seen := index[key]; !seen {
			index[key] = i
		}
	}
	return index
}
