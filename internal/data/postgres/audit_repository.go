// Package postgres provides the PostgreSQL implementation of the audit log
// repository. The audit table is append-only; rows are written by the audit
// processor and read by administrative tooling.
package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fuelpoints-ledger/internal/domain/audit"
	"github.com/fuelpoints-ledger/internal/platform/persistence"
)

// AuditRepository implements the audit.Repository interface for PostgreSQL
type AuditRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewAuditRepository creates a new PostgreSQL audit repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewAuditRepository(logger *slog.Logger, db *persistence.PostgresDB) audit.Repository {
	return &AuditRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// NewAuditRepositoryWithQuerier creates a repository over an explicit querier,
// used by tests to substitute a mock connection.
func NewAuditRepositoryWithQuerier(logger *slog.Logger, querier persistence.Querier) audit.Repository {
	return &AuditRepository{
		querier: querier,
		logger:  logger,
	}
}

// Append stores a new audit entry
func (r *AuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	query := `
		INSERT INTO audit_logs (id, actor_id, customer_id, station_id, change_type, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		entry.ID,
		entry.ActorID,
		entry.CustomerID,
		entry.StationID,
		string(entry.ChangeType),
		entry.Details,
		entry.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append audit entry", "id", entry.ID.String(), "error", err)
		return fmt.Errorf("failed to append audit entry: %w", err)
	}

	return nil
}

// ListRecent retrieves the newest audit entries matching the filter
func (r *AuditRepository) ListRecent(ctx context.Context, filter audit.Filter, limit int) ([]*audit.Entry, error) {
	query := `
		SELECT id, actor_id, customer_id, station_id, change_type, details, created_at
		FROM audit_logs
		WHERE ($1 = '' OR actor_id = $1)
		  AND ($2 = '' OR customer_id = $2)
		  AND ($3 = '' OR station_id = $3)
		ORDER BY created_at DESC
		LIMIT $4
	`

	rows, err := r.querier.Query(ctx, query, filter.ActorID, filter.CustomerID, filter.StationID, limit)
	if err != nil {
		r.logger.Error("Failed to list audit entries", "error", err)
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*audit.Entry
	for rows.Next() {
		var e audit.Entry
		var changeType string
		if err := rows.Scan(&e.ID, &e.ActorID, &e.CustomerID, &e.StationID, &changeType, &e.Details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.ChangeType = audit.ChangeType(changeType)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit rows error: %w", err)
	}

	return entries, nil
}
