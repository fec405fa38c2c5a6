// Package importer loads colleagues from a LinkedIn connections CSV export.
package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/network-overlap/internal/logger"
	"github.com/jonathan/network-overlap/internal/profileurl"
	"github.com/jonathan/network-overlap/internal/types"
	"go.uber.org/zap"
)

// headerPrefix starts the header row of a connections export. Exports put a
// free-text "Notes:" preamble above it.
const headerPrefix = "First Name,"

// NoFilterLabel is reported when every row is imported.
const NoFilterLabel = "(none - importing all)"

// Connection is one row of the export.
type Connection struct {
	FirstName   string
	LastName    string
	URL         string
	Email       string
	Company     string
	Position    string
	ConnectedOn string
}

// Name returns "First Last", trimmed.
func (c Connection) Name() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ParseConnections reads a connections export, skipping any preamble above the header.
func ParseConnections(r io.Reader) ([]Connection, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	text := strings.TrimPrefix(string(raw), "\ufeff")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, headerPrefix) {
			text = strings.Join(lines[i:], "\n")
			break
		}
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("CSV has no header row")
	}

	colIdx := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		colIdx[strings.TrimSpace(col)] = i
	}
	if _, ok := colIdx["URL"]; !ok {
		return nil, fmt.Errorf("CSV is missing required column %q", "URL")
	}

	connections := make([]Connection, 0, len(records)-1)
	for _, row := range records[1:] {
		if isBlank(row) {
			continue
		}
		connections = append(connections, Connection{
			FirstName:   getCol(row, colIdx, "First Name"),
			LastName:    getCol(row, colIdx, "Last Name"),
			URL:         getCol(row, colIdx, "URL"),
			Email:       getCol(row, colIdx, "Email Address"),
			Company:     getCol(row, colIdx, "Company"),
			Position:    getCol(row, colIdx, "Position"),
			ConnectedOn: getCol(row, colIdx, "Connected On"),
		})
	}
	return connections, nil
}

// getCol safely retrieves a column value from a CSV row.
func getCol(row []string, colIdx map[string]int, col string) string {
	idx, ok := colIdx[col]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Store receives imported colleagues. InsertColleague returns false for an
// already-known profile URL.
type Store interface {
	InsertColleague(ctx context.Context, c *types.Colleague) (bool, error)
}

// FilterSource supplies the current-company filter.
type FilterSource interface {
	CompanyFilter(ctx context.Context) (string, error)
}

// Result summarizes an import.
type Result struct {
	Imported    int    `json:"imported"`
	Skipped     int    `json:"skipped"`
	Total       int    `json:"total"`
	FilteredOut int    `json:"filtered_out"`
	Filter      string `json:"filter"`
}

// Importer stores the connections that pass the company filter.
type Importer struct {
	store  Store
	filter FilterSource
	logger *zap.Logger
}

// New creates an importer.
func New(store Store, filter FilterSource, log *zap.Logger) *Importer {
	return &Importer{store: store, filter: filter, logger: logger.OrNop(log).Named("importer")}
}

// Import parses r and inserts every connection whose company contains the
// configured filter. Connections without a URL are ignored; known URLs are skipped.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*Result, error) {
	connections, err := ParseConnections(r)
	if err != nil {
		return nil, err
	}

	filter, err := im.filter.CompanyFilter(ctx)
	if err != nil {
		return nil, err
	}
	filter = strings.ToLower(strings.TrimSpace(filter))

	result := &Result{Total: len(connections), Filter: filter}
	if filter == "" {
		result.Filter = NoFilterLabel
	}

	for _, conn := range connections {
		if filter != "" && !strings.Contains(strings.ToLower(conn.Company), filter) {
			result.FilteredOut++
			continue
		}
		if conn.URL == "" {
			continue
		}

		inserted, err := im.store.InsertColleague(ctx, &types.Colleague{
			Name:           conn.Name(),
			ProfileURL:     profileurl.Normalize(conn.URL),
			CurrentTitle:   conn.Position,
			CurrentCompany: conn.Company,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to import %s: %w", conn.URL, err)
		}
		if inserted {
			result.Imported++
		} else {
			result.Skipped++
		}
	}

	im.logger.Info("connections imported",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("total", result.Total),
		zap.Int("filtered_out", result.FilteredOut),
	)
	return result, nil
}
