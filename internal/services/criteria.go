package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"recruitdesk/screening-service/internal/config"
	"recruitdesk/screening-service/internal/models"
)

// CriteriaService retrieves the current role set and scoring rubrics from
// the criteria spreadsheet. No caching: every screening run re-fetches,
// accepting staleness risk in exchange for always using the latest rubric.
type CriteriaService interface {
	FetchCriteria(ctx context.Context) ([]models.ScoringCriterion, error)
}

type criteriaService struct {
	svc           *sheets.Service
	spreadsheetID string
	readRange     string
}

func NewCriteriaService(ctx context.Context, cfg config.SheetsConfig) (CriteriaService, error) {
	s := &criteriaService{
		spreadsheetID: cfg.SpreadsheetID,
		readRange:     cfg.CriteriaRange,
	}

	if cfg.APIKey == "" {
		// Leave svc nil; FetchCriteria reports the missing setting.
		return s, nil
	}

	svc, err := sheets.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	s.svc = svc

	return s, nil
}

// FetchCriteria implements CriteriaService. An empty sheet yields an empty
// list, which is a valid state here; the orchestrator decides whether to
// refuse screening.
func (s *criteriaService) FetchCriteria(ctx context.Context) ([]models.ScoringCriterion, error) {
	if s.svc == nil {
		return nil, &ConfigurationError{Setting: "SHEETS_API_KEY"}
	}
	if s.spreadsheetID == "" {
		return nil, &ConfigurationError{Setting: "SHEETS_SPREADSHEET_ID"}
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return nil, &UpstreamError{Op: "criteria fetch", Status: gerr.Code, Body: gerr.Message}
		}
		return nil, &UpstreamError{Op: "criteria fetch", Err: err}
	}

	criteria := make([]models.ScoringCriterion, 0, len(resp.Values))
	for _, row := range resp.Values {
		c := models.ScoringCriterion{
			Title:        cellString(row, 0),
			Requirements: cellString(row, 1),
			ScoringGuide: cellString(row, 2),
		}
		// Rows without a role title carry no rubric.
		if c.Title == "" {
			continue
		}
		criteria = append(criteria, c)
	}

	log.Printf("📋 Fetched %d scoring criteria from sheet\n", len(criteria))
	return criteria, nil
}

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) {
		return ""
	}
	s, ok := row[idx].(string)
	if !ok {
		return fmt.Sprintf("%v", row[idx])
	}
	return strings.TrimSpace(s)
}
