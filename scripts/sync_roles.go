package main

import (
	"context"
	"log"

	"recruitdesk/screening-service/internal/config"
	"recruitdesk/screening-service/internal/services"
)

// One-shot: pull the current scoring criteria from the sheet and sync them
// into the role index. Run after editing the criteria spreadsheet so role
// suggestions reflect the new rubric immediately instead of waiting for the
// next screening.
func main() {
	log.Println("🚀 Starting role index sync...")

	cfg := config.Load()
	ctx := context.Background()

	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	criteriaService, err := services.NewCriteriaService(ctx, cfg.Sheets)
	if err != nil {
		log.Fatalf("❌ Failed to initialize criteria source: %v", err)
	}

	roleIndex, err := services.NewRoleIndexService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
		geminiService,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize role index: %v", err)
	}

	if err := roleIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize role collection: %v", err)
	}

	criteria, err := criteriaService.FetchCriteria(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to fetch criteria: %v", err)
	}
	if len(criteria) == 0 {
		log.Fatal("❌ Criteria sheet is empty, nothing to sync")
	}

	if err := roleIndex.SyncRoles(ctx, criteria); err != nil {
		log.Fatalf("❌ Failed to sync roles: %v", err)
	}

	log.Printf("✅ Synced %d roles into the index\n", len(criteria))
}
