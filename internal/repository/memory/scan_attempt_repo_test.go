package memory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seacrew/internal/domain"
	"seacrew/internal/port"
	"seacrew/internal/repository/memory"
)

func seedDocument(t *testing.T, s *memory.Store) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	member := &domain.CrewMember{ID: uuid.New(), FullName: "RAVI KUMAR", Nationality: "India"}
	require.NoError(t, memory.NewCrewMemberRepo(s).Create(ctx, member))
	record := &domain.DocumentRecord{
		ID:                 uuid.New(),
		Type:               domain.DocumentTypePassport,
		DocumentNumber:     "U2701560",
		HolderCrewMemberID: member.ID,
	}
	require.NoError(t, memory.NewDocumentRecordRepo(s).Create(ctx, record))
	return record.ID
}

func newAttempt(docID uuid.UUID, at time.Time) *domain.ScanAttempt {
	return &domain.ScanAttempt{ID: uuid.New(), DocumentID: docID, CreatedAt: at}
}

// supersedeWithRetry mirrors the read-check-write loop callers run against the port.
func supersedeWithRetry(ctx context.Context, repo port.ScanAttemptRepository, a *domain.ScanAttempt) error {
	for {
		var expected *uuid.UUID
		active, err := repo.GetActive(ctx, a.DocumentID)
		if err == nil {
			expected = &active.ID
		} else if !errors.Is(err, domain.ErrScanAttemptNotFound) {
			return err
		}
		err = repo.Supersede(ctx, a, expected)
		if !errors.Is(err, domain.ErrConcurrentSupersession) {
			return err
		}
	}
}

func assertSingleChain(t *testing.T, repo port.ScanAttemptRepository, docID uuid.UUID, n int) {
	t.Helper()
	ctx := context.Background()
	all, total, err := repo.ListByDocument(ctx, docID, 0, n+10)
	require.NoError(t, err)
	require.Equal(t, n, total)
	require.Len(t, all, n)

	byID := make(map[uuid.UUID]domain.ScanAttempt, n)
	var active []domain.ScanAttempt
	pointedTo := make(map[uuid.UUID]int)
	for _, a := range all {
		byID[a.ID] = a
		if a.SupersededAt == nil {
			active = append(active, a)
			assert.Nil(t, a.SupersededBy)
		} else {
			require.NotNil(t, a.SupersededBy)
			pointedTo[*a.SupersededBy]++
		}
	}
	require.Len(t, active, 1)

	var head *domain.ScanAttempt
	for i := range all {
		if pointedTo[all[i].ID] == 0 {
			require.Nil(t, head, "more than one chain start")
			head = &all[i]
		}
	}
	require.NotNil(t, head)

	steps := 1
	cur := *head
	for cur.SupersededBy != nil {
		assert.Equal(t, 1, pointedTo[*cur.SupersededBy])
		cur = byID[*cur.SupersededBy]
		steps++
	}
	assert.Equal(t, n, steps)
	assert.Equal(t, active[0].ID, cur.ID)
}

func TestSupersede_FirstAttempt(t *testing.T) {
	s := memory.NewStore()
	docID := seedDocument(t, s)
	repo := memory.NewScanAttemptRepo(s)
	ctx := context.Background()

	a := newAttempt(docID, time.Now())
	require.NoError(t, repo.Supersede(ctx, a, nil))

	active, err := repo.GetActive(ctx, docID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, active.ID)
	assert.True(t, active.IsActive())
}

func TestSupersede_RejectsStaleExpectation(t *testing.T) {
	s := memory.NewStore()
	docID := seedDocument(t, s)
	repo := memory.NewScanAttemptRepo(s)
	ctx := context.Background()

	first := newAttempt(docID, time.Now())
	require.NoError(t, repo.Supersede(ctx, first, nil))

	err := repo.Supersede(ctx, newAttempt(docID, time.Now()), nil)
	assert.ErrorIs(t, err, domain.ErrConcurrentSupersession)

	stale := uuid.New()
	err = repo.Supersede(ctx, newAttempt(docID, time.Now()), &stale)
	assert.ErrorIs(t, err, domain.ErrConcurrentSupersession)

	second := newAttempt(docID, time.Now())
	require.NoError(t, repo.Supersede(ctx, second, &first.ID))

	old, err := repo.GetByID(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, old.SupersededBy)
	assert.Equal(t, second.ID, *old.SupersededBy)
	assert.NotNil(t, old.SupersededAt)
}

func TestSupersede_UnknownDocument(t *testing.T) {
	repo := memory.NewScanAttemptRepo(memory.NewStore())
	err := repo.Supersede(context.Background(), newAttempt(uuid.New(), time.Now()), nil)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}

func TestSupersede_SequentialChain(t *testing.T) {
	s := memory.NewStore()
	docID := seedDocument(t, s)
	repo := memory.NewScanAttemptRepo(s)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	const n = 12
	for i := 0; i < n; i++ {
		require.NoError(t, supersedeWithRetry(ctx, repo, newAttempt(docID, base.Add(time.Duration(i)*time.Minute))))
	}
	assertSingleChain(t, repo, docID, n)
}

func TestSupersede_ConcurrentWritersKeepSingleActive(t *testing.T) {
	s := memory.NewStore()
	docID := seedDocument(t, s)
	repo := memory.NewScanAttemptRepo(s)
	ctx := context.Background()

	const n = 40
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- supersedeWithRetry(ctx, repo, newAttempt(docID, time.Now()))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
	assertSingleChain(t, repo, docID, n)
}

func TestListByDocument_NewestFirstPaged(t *testing.T) {
	s := memory.NewStore()
	docID := seedDocument(t, s)
	repo := memory.NewScanAttemptRepo(s)
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		a := newAttempt(docID, time.Now())
		require.NoError(t, supersedeWithRetry(ctx, repo, a))
		ids = append(ids, a.ID)
	}

	page, total, err := repo.ListByDocument(ctx, docID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.Equal(t, ids[4], page[0].ID)
	assert.Equal(t, ids[3], page[1].ID)

	page, _, err = repo.ListByDocument(ctx, docID, 4, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	page, _, err = repo.ListByDocument(ctx, docID, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestListActive(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	repo := memory.NewScanAttemptRepo(s)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	docA, docB := seedDocument(t, s), seedDocument(t, s)
	require.NoError(t, supersedeWithRetry(ctx, repo, newAttempt(docA, base)))
	require.NoError(t, supersedeWithRetry(ctx, repo, newAttempt(docB, base.Add(time.Hour))))
	latestA := newAttempt(docA, base.Add(2*time.Hour))
	require.NoError(t, supersedeWithRetry(ctx, repo, latestA))

	active, err := repo.ListActive(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, docB, active[0].DocumentID)
	assert.Equal(t, latestA.ID, active[1].ID)

	active, err = repo.ListActive(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, active)
}
