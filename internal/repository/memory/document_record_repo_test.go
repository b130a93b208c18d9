package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seacrew/internal/domain"
	"seacrew/internal/repository/memory"
)

func TestDocumentRecordRepo_CRUD(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	crew := memory.NewCrewMemberRepo(s)
	records := memory.NewDocumentRecordRepo(s)

	member := &domain.CrewMember{ID: uuid.New(), FullName: "ANNA MARIA"}
	require.NoError(t, crew.Create(ctx, member))
	assert.Error(t, crew.Create(ctx, member))

	_, err := crew.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrCrewMemberNotFound)

	orphan := &domain.DocumentRecord{ID: uuid.New(), HolderCrewMemberID: uuid.New()}
	assert.ErrorIs(t, records.Create(ctx, orphan), domain.ErrCrewMemberNotFound)

	rec := &domain.DocumentRecord{ID: uuid.New(), Type: domain.DocumentTypeCDC, HolderCrewMemberID: member.ID}
	require.NoError(t, records.Create(ctx, rec))

	now := time.Now().UTC()
	scanID := uuid.New()
	rec.IssuingAuthority = "DG SHIPPING"
	rec.LastScanID = &scanID
	rec.LastVerifiedAt = &now
	require.NoError(t, records.Update(ctx, rec))

	got, err := records.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "DG SHIPPING", got.IssuingAuthority)
	assert.Equal(t, scanID, *got.LastScanID)

	list, err := records.ListByHolder(ctx, member.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = records.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.ErrorIs(t, records.Update(ctx, &domain.DocumentRecord{ID: uuid.New()}), domain.ErrDocumentNotFound)
}
