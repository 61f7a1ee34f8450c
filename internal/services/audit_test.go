package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"recruitdesk/screening-service/internal/config"
	"recruitdesk/screening-service/internal/models"
)

func TestSheetAuditLoggerRequiresServiceAccount(t *testing.T) {
	t.Run("no credentials refuses with the missing setting named", func(t *testing.T) {
		logger, err := NewSheetAuditLogger(context.Background(), config.SheetsConfig{
			SpreadsheetID: "sheet-id",
			AuditRange:    "ScreeningLog!A:J",
		})
		assert.NoError(t, err)

		err = logger.Append(context.Background(), &models.ScreeningResult{CandidateName: "A"})

		var configErr *ConfigurationError
		assert.ErrorAs(t, err, &configErr)
		assert.Equal(t, "SHEETS_SERVICE_ACCOUNT_JSON", configErr.Setting)
	})

	t.Run("an API key alone does not enable the writer", func(t *testing.T) {
		// The Sheets API only accepts API keys for public reads; a write
		// client built from one would 401 on every append. Refuse up front
		// instead of failing silently on each call.
		logger, err := NewSheetAuditLogger(context.Background(), config.SheetsConfig{
			APIKey:        "reads-only-key",
			SpreadsheetID: "sheet-id",
			AuditRange:    "ScreeningLog!A:J",
		})
		assert.NoError(t, err)

		err = logger.Append(context.Background(), &models.ScreeningResult{CandidateName: "A"})

		var configErr *ConfigurationError
		assert.ErrorAs(t, err, &configErr)
		assert.Equal(t, "SHEETS_SERVICE_ACCOUNT_JSON", configErr.Setting)
	})
}
