package service

import (
	"context"

	"github.com/fuelpoints-ledger/internal/domain/audit"
)

// AuditServiceImpl implements the AuditService interface
type AuditServiceImpl struct {
	auditRepo audit.Repository
}

// NewAuditService creates a new audit query service
func NewAuditService(auditRepo audit.Repository) AuditService {
	return &AuditServiceImpl{
		auditRepo: auditRepo,
	}
}

// ListRecent retrieves the newest audit entries matching the filter
func (s *AuditServiceImpl) ListRecent(ctx context.Context, filter audit.Filter, limit int) ([]*audit.Entry, error) {
	return s.auditRepo.ListRecent(ctx, filter, limit)
}
