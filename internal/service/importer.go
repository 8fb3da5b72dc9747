package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"price-intel-service/internal/pricing"
	"price-intel-service/internal/store"
	"price-intel-service/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ImportService handles batch CSV import of price observations. Every row is
// an independent unit: normalization, duplicate check and insert either all
// succeed or the row is recorded as failed and the batch continues.
type ImportService struct {
	store        *store.Store
	observations *ObservationService
	catalog      *CatalogClient
	logger       *zap.Logger
}

// NewImportService creates a new import service
func NewImportService(store *store.Store, observations *ObservationService, catalog *CatalogClient) *ImportService {
	return &ImportService{
		store:        store,
		observations: observations,
		catalog:      catalog,
		logger:       util.GetLogger(),
	}
}

// RowError describes one failed import row
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportReport summarizes a CSV import batch
type ImportReport struct {
	BatchID    string     `json:"batch_id"`
	Total      int        `json:"total"`
	Recorded   int        `json:"recorded"`
	Duplicates int        `json:"duplicates"`
	Failed     int        `json:"failed"`
	Errors     []RowError `json:"errors,omitempty"`
}

// Expected CSV columns. Header names are matched case-insensitively.
var requiredColumns = []string{"sku_code", "company", "observed_at", "channel"}

// ImportCSV reads price observation rows from r and records each one. Row
// numbers in the report count data rows from 1 (the header is row 0).
func (s *ImportService) ImportCSV(ctx context.Context, r io.Reader) (*ImportReport, error) {
	ctx, span := util.StartSpan(ctx, "ImportService.ImportCSV")
	defer span.End()

	start := time.Now()
	defer func() {
		util.ImportBatchLatency.Observe(time.Since(start).Seconds())
	}()

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required CSV column: %s", name)
		}
	}

	report := &ImportReport{BatchID: uuid.New().String()}

	for rowNum := 1; ; rowNum++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Total++
			report.Failed++
			report.Errors = append(report.Errors, RowError{Row: rowNum, Message: err.Error()})
			util.ImportRowsTotal.WithLabelValues("failed").Inc()
			continue
		}

		report.Total++

		resp, err := s.importRow(ctx, columns, record)
		switch {
		case err != nil:
			report.Failed++
			report.Errors = append(report.Errors, RowError{Row: rowNum, Message: err.Error()})
			util.ImportRowsTotal.WithLabelValues("failed").Inc()
		case resp.Duplicate:
			report.Duplicates++
			util.ImportRowsTotal.WithLabelValues("duplicate").Inc()
		default:
			report.Recorded++
			util.ImportRowsTotal.WithLabelValues("recorded").Inc()
		}
	}

	s.logger.Info("CSV import finished",
		zap.String("batch_id", report.BatchID),
		zap.Int("total", report.Total),
		zap.Int("recorded", report.Recorded),
		zap.Int("duplicates", report.Duplicates),
		zap.Int("failed", report.Failed))

	return report, nil
}

// importRow resolves the entities one row references and records the
// observation. Missing SKU or company is a row error, never created here.
func (s *ImportService) importRow(ctx context.Context, columns map[string]int, record []string) (*RecordObservationResponse, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	sku, err := s.catalog.SKUByCode(ctx, field("sku_code"))
	if err != nil {
		return nil, err
	}

	company, err := s.store.GetCompanyByName(ctx, field("company"))
	if err != nil {
		return nil, err
	}

	observedAt, err := parseObservedAt(field("observed_at"))
	if err != nil {
		return nil, err
	}

	req := &RecordObservationRequest{
		SKUID:        sku.ID,
		CompanyID:    company.ID,
		ObservedAt:   observedAt,
		Channel:      field("channel"),
		PriceContext: field("price_context"),
	}
	if req.PriceContext == "" {
		req.PriceContext = "shelf"
	}

	if name := field("location"); name != "" {
		location, err := s.store.GetLocationByName(ctx, company.ID, name)
		if err != nil {
			return nil, err
		}
		req.LocationID = &location.ID
	}

	if req.PriceExGST, err = parseOptionalDecimal(field("price_ex_gst")); err != nil {
		return nil, err
	}
	if req.PriceIncGST, err = parseOptionalDecimal(field("price_inc_gst")); err != nil {
		return nil, err
	}
	if req.GSTRate, err = parseOptionalDecimal(field("gst_rate")); err != nil {
		return nil, err
	}

	req.IsCartonPrice = parseFlag(field("is_carton_price"))
	req.IsPackPrice = parseFlag(field("is_pack_price"))

	if raw := field("carton_units"); raw != "" {
		units, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: carton_units %q", pricing.ErrInvalidAmount, raw)
		}
		req.CartonUnits = &units
	}

	return s.observations.RecordObservation(ctx, req)
}

func parseObservedAt(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid observed_at: %q", raw)
}

func parseOptionalDecimal(raw string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimPrefix(raw, "$"))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", pricing.ErrInvalidAmount, raw)
	}
	return &d, nil
}

func parseFlag(raw string) bool {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
