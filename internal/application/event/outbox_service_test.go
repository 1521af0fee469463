package event

import (
	"context"
	"testing"
	"time"

	"github.com/bizledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryOutboxRepo is an in-memory OutboxRepository for service tests.
type memoryOutboxRepo struct {
	entries map[uuid.UUID]*shared.OutboxEntry
}

func newMemoryOutboxRepo() *memoryOutboxRepo {
	return &memoryOutboxRepo{entries: make(map[uuid.UUID]*shared.OutboxEntry)}
}

func (r *memoryOutboxRepo) addDead(eventType, lastError string) *shared.OutboxEntry {
	entry := &shared.OutboxEntry{
		ID:            uuid.New(),
		TenantID:      uuid.New(),
		EventID:       uuid.New(),
		EventType:     eventType,
		AggregateID:   uuid.New(),
		AggregateType: "SalesInvoice",
		Status:        shared.OutboxStatusDead,
		RetryCount:    5,
		MaxRetries:    5,
		LastError:     lastError,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	r.entries[entry.ID] = entry
	return entry
}

func (r *memoryOutboxRepo) addWithStatus(status shared.OutboxStatus) *shared.OutboxEntry {
	entry := &shared.OutboxEntry{ID: uuid.New(), Status: status}
	r.entries[entry.ID] = entry
	return entry
}

func (r *memoryOutboxRepo) Save(ctx context.Context, entries ...*shared.OutboxEntry) error {
	for _, e := range entries {
		r.entries[e.ID] = e
	}
	return nil
}

func (r *memoryOutboxRepo) FindPending(ctx context.Context, limit int) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *memoryOutboxRepo) FindRetryable(ctx context.Context, before time.Time, limit int) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *memoryOutboxRepo) MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*shared.OutboxEntry, error) {
	return nil, nil
}

func (r *memoryOutboxRepo) Update(ctx context.Context, entry *shared.OutboxEntry) error {
	r.entries[entry.ID] = entry
	return nil
}

func (r *memoryOutboxRepo) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (r *memoryOutboxRepo) FindDead(ctx context.Context, page, pageSize int) ([]*shared.OutboxEntry, int64, error) {
	var dead []*shared.OutboxEntry
	for _, e := range r.entries {
		if e.Status == shared.OutboxStatusDead {
			dead = append(dead, e)
		}
	}
	total := int64(len(dead))

	start := (page - 1) * pageSize
	if start >= len(dead) {
		return nil, total, nil
	}
	end := start + pageSize
	if end > len(dead) {
		end = len(dead)
	}
	return dead[start:end], total, nil
}

func (r *memoryOutboxRepo) FindByID(ctx context.Context, id uuid.UUID) (*shared.OutboxEntry, error) {
	return r.entries[id], nil
}

func (r *memoryOutboxRepo) CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error) {
	counts := make(map[shared.OutboxStatus]int64)
	for _, e := range r.entries {
		counts[e.Status]++
	}
	return counts, nil
}

var _ shared.OutboxRepository = (*memoryOutboxRepo)(nil)

func newTestOutboxService() (*OutboxService, *memoryOutboxRepo) {
	repo := newMemoryOutboxRepo()
	return NewOutboxService(repo, zap.NewNop()), repo
}

func TestOutboxServiceGetDeadLetterEntries(t *testing.T) {
	service, repo := newTestOutboxService()
	for i := 0; i < 5; i++ {
		repo.addDead("trade.sales_invoice.issued", "warehouse unreachable")
	}
	repo.addWithStatus(shared.OutboxStatusPending)

	result, err := service.GetDeadLetterEntries(context.Background(), OutboxFilter{Page: 1, PageSize: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Total)
	assert.Equal(t, 1, result.TotalPages)
	require.Len(t, result.Entries, 5)
	for _, entry := range result.Entries {
		assert.Equal(t, "DEAD", entry.Status)
		assert.Equal(t, "warehouse unreachable", entry.LastError)
	}
}

func TestOutboxServiceGetDeadLetterEntriesClampsFilter(t *testing.T) {
	service, repo := newTestOutboxService()
	repo.addDead("trade.sales_invoice.issued", "warehouse unreachable")

	result, err := service.GetDeadLetterEntries(context.Background(), OutboxFilter{Page: -2, PageSize: 500})

	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 100, result.PageSize)
}

func TestOutboxServiceGetEntry(t *testing.T) {
	service, repo := newTestOutboxService()
	entry := repo.addDead("trade.transfer.dispatched", "warehouse unreachable")

	dto, err := service.GetEntry(context.Background(), entry.ID)

	require.NoError(t, err)
	assert.Equal(t, entry.ID, dto.ID)
	assert.Equal(t, "trade.transfer.dispatched", dto.EventType)

	_, err = service.GetEntry(context.Background(), uuid.New())
	require.Error(t, err)
}

func TestOutboxServiceRetryDeadEntry(t *testing.T) {
	t.Run("requeues the entry", func(t *testing.T) {
		service, repo := newTestOutboxService()
		entry := repo.addDead("trade.sales_invoice.issued", "warehouse unreachable")

		dto, err := service.RetryDeadEntry(context.Background(), entry.ID)

		require.NoError(t, err)
		assert.Equal(t, "PENDING", dto.Status)
		assert.Zero(t, dto.RetryCount)
		assert.Empty(t, dto.LastError)
	})

	t.Run("unknown entry", func(t *testing.T) {
		service, _ := newTestOutboxService()
		_, err := service.RetryDeadEntry(context.Background(), uuid.New())
		require.Error(t, err)
	})

	t.Run("entry that is not dead", func(t *testing.T) {
		service, repo := newTestOutboxService()
		entry := repo.addWithStatus(shared.OutboxStatusPending)

		_, err := service.RetryDeadEntry(context.Background(), entry.ID)
		require.Error(t, err)
	})
}

func TestOutboxServiceRetryAllDeadEntries(t *testing.T) {
	service, repo := newTestOutboxService()
	for i := 0; i < 3; i++ {
		repo.addDead("trade.return.refunded", "warehouse unreachable")
	}
	untouched := repo.addWithStatus(shared.OutboxStatusPending)

	count, err := service.RetryAllDeadEntries(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	for _, entry := range repo.entries {
		assert.Equal(t, shared.OutboxStatusPending, entry.Status)
		if entry.ID != untouched.ID {
			assert.Zero(t, entry.RetryCount)
		}
	}
}

func TestOutboxServiceGetStats(t *testing.T) {
	service, repo := newTestOutboxService()
	repo.addWithStatus(shared.OutboxStatusPending)
	repo.addWithStatus(shared.OutboxStatusPending)
	repo.addWithStatus(shared.OutboxStatusProcessing)
	repo.addWithStatus(shared.OutboxStatusSent)
	repo.addWithStatus(shared.OutboxStatusSent)
	repo.addWithStatus(shared.OutboxStatusSent)
	repo.addWithStatus(shared.OutboxStatusFailed)
	repo.addDead("trade.sales_invoice.issued", "warehouse unreachable")

	stats, err := service.GetStats(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Pending)
	assert.Equal(t, int64(1), stats.Processing)
	assert.Equal(t, int64(3), stats.Sent)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.Dead)
	assert.Equal(t, int64(8), stats.Total)
}
