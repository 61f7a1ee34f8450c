package services

import (
	"context"
	"log"
	"strings"
	"time"

	"recruitdesk/screening-service/internal/models"
)

// Orchestrator composes criteria fetch, screening, and the best-effort audit
// append into a single screening operation. Steps are strictly sequential;
// only the audit row is detached.
type Orchestrator interface {
	RunScreening(ctx context.Context, input models.ScreeningInput) (*models.ScreeningResult, error)
}

type orchestrator struct {
	criteria  CriteriaService
	screener  ScreeningClient
	audit     AuditLogger
	roleIndex RoleIndexService
}

func NewOrchestrator(
	criteria CriteriaService,
	screener ScreeningClient,
	audit AuditLogger,
	roleIndex RoleIndexService,
) Orchestrator {
	return &orchestrator{
		criteria:  criteria,
		screener:  screener,
		audit:     audit,
		roleIndex: roleIndex,
	}
}

// RunScreening implements Orchestrator.
func (o *orchestrator) RunScreening(ctx context.Context, input models.ScreeningInput) (*models.ScreeningResult, error) {
	if strings.TrimSpace(input.ContextLabel) == "" {
		return nil, ErrEmptyContextLabel
	}

	criteria, err := o.criteria.FetchCriteria(ctx)
	if err != nil {
		return nil, err
	}
	if len(criteria) == 0 {
		return nil, ErrNoCriteriaAvailable
	}

	// Keep the role index in step with the sheet. Best effort.
	if o.roleIndex != nil {
		go o.syncRoleIndex(criteria)
	}

	result, err := o.screener.Screen(ctx, input, criteria)
	if err != nil {
		return nil, err
	}

	// Audit logging is a convenience, not a correctness requirement. Run it
	// detached so a logging outage can never fail a screened candidate.
	if o.audit != nil {
		go o.appendAudit(result)
	}

	return result, nil
}

func (o *orchestrator) appendAudit(result *models.ScreeningResult) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := o.audit.Append(ctx, result); err != nil {
		log.Printf("⚠️  Audit log append failed: %v\n", err)
	}
}

func (o *orchestrator) syncRoleIndex(criteria []models.ScoringCriterion) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := o.roleIndex.SyncRoles(ctx, criteria); err != nil {
		log.Printf("⚠️  Role index sync failed: %v\n", err)
	}
}
