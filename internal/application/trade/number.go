package trade

import (
	"context"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/bizledger/backend/internal/domain/trade"
	"github.com/google/uuid"
)

// maxNumberAttempts bounds how often a creation is retried when the
// allocated document number collides with an existing one.
const maxNumberAttempts = 3

// allocateNumber draws the next per-tenant, per-type, per-day sequence value
// and formats it as a document number. Called inside the creation transaction
// so a rolled-back document releases nothing but a sequence gap.
func allocateNumber(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, docType trade.DocumentType, date time.Time) (string, error) {
	seq, err := repos.Sequences().NextValue(ctx, tenantID, docType, date.Format("060102"))
	if err != nil {
		return "", err
	}
	return trade.FormatDocumentNumber(docType, date, seq), nil
}

// publishAndClear publishes the aggregate's buffered domain events after the
// surrounding transaction has committed. Publishing failures are swallowed:
// the document state is already durable and the in-process bus is best effort.
func publishAndClear(ctx context.Context, publisher shared.EventPublisher, aggregate shared.AggregateRoot) {
	if publisher == nil {
		aggregate.ClearDomainEvents()
		return
	}
	events := aggregate.GetDomainEvents()
	if len(events) > 0 {
		_ = publisher.Publish(ctx, events...)
	}
	aggregate.ClearDomainEvents()
}
