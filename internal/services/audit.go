package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"recruitdesk/screening-service/internal/config"
	"recruitdesk/screening-service/internal/models"
)

// AuditLogger appends screening results to the log sheet. Strictly best
// effort: callers fire it detached and only log failures.
type AuditLogger interface {
	Append(ctx context.Context, result *models.ScreeningResult) error
}

type sheetAuditLogger struct {
	svc           *sheets.Service
	spreadsheetID string
	appendRange   string
}

func NewSheetAuditLogger(ctx context.Context, cfg config.SheetsConfig) (AuditLogger, error) {
	l := &sheetAuditLogger{
		spreadsheetID: cfg.SpreadsheetID,
		appendRange:   cfg.AuditRange,
	}

	// Appending rows is a write; the Sheets API rejects API-key auth for
	// writes, so the audit client needs service-account credentials.
	if cfg.ServiceAccountJSON == "" {
		return l, nil
	}

	svc, err := sheets.NewService(ctx, option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	l.svc = svc

	return l, nil
}

// Append implements AuditLogger.
func (l *sheetAuditLogger) Append(ctx context.Context, result *models.ScreeningResult) error {
	if l.svc == nil {
		return &ConfigurationError{Setting: "SHEETS_SERVICE_ACCOUNT_JSON"}
	}
	if l.spreadsheetID == "" {
		return &ConfigurationError{Setting: "SHEETS_SPREADSHEET_ID"}
	}

	row := []interface{}{
		time.Now().Format(time.RFC3339),
		result.CandidateName,
		stringOrEmpty(result.CandidateEmail),
		stringOrEmpty(result.CandidatePhone),
		result.RoleApplied,
		result.RoleMatched,
		result.Score,
		string(result.CitizenshipStatus),
		string(result.Recommendation),
		result.Summary,
	}

	_, err := l.svc.Spreadsheets.Values.
		Append(l.spreadsheetID, l.appendRange, &sheets.ValueRange{Values: [][]interface{}{row}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) {
			return &UpstreamError{Op: "audit append", Status: gerr.Code, Body: gerr.Message}
		}
		return &UpstreamError{Op: "audit append", Err: err}
	}

	return nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
