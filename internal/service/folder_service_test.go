package service

import (
	"context"
	"sync"
	"testing"

	"notealog/internal/dto"
	"notealog/internal/entity"
	"notealog/internal/pkg/logger"
	"notealog/pkg/domain"
	"notealog/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFolderService(db *fakeDB) (IFolderService, *recordingPublisher) {
	pub := &recordingPublisher{}
	return NewFolderService(db, pub, logger.NewNopLogger()), pub
}

func TestFolderService_Create(t *testing.T) {
	db := newFakeDB()
	svc, _ := newFolderService(db)
	ctx := context.Background()

	created, err := svc.Create(ctx, &dto.CreateFolderRequest{Name: "  Work "})
	require.NoError(t, err)
	assert.Equal(t, "Work", created.Name)
	assert.NotEmpty(t, created.Id)

	_, err = svc.Create(ctx, &dto.CreateFolderRequest{Name: "Work"})
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = svc.Create(ctx, &dto.CreateFolderRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	withID, err := svc.Create(ctx, &dto.CreateFolderRequest{Id: "f-client", Name: "Home"})
	require.NoError(t, err)
	assert.Equal(t, "f-client", withID.Id)
}

func TestFolderService_Rename(t *testing.T) {
	db := newFakeDB()
	db.folders = append(db.folders, entity.Folder{Id: "f1", Name: "Work"})
	svc, _ := newFolderService(db)

	tests := []struct {
		name    string
		req     dto.RenameFolderRequest
		wantErr error
	}{
		{name: "renames", req: dto.RenameFolderRequest{Id: "f1", Name: "Office"}},
		{name: "reserved", req: dto.RenameFolderRequest{Id: domain.UnassignedFolderID, Name: "Inbox"}, wantErr: domain.ErrReservedFolder},
		{name: "missing", req: dto.RenameFolderRequest{Id: "nope", Name: "X"}, wantErr: domain.ErrNotFound},
		{name: "blank", req: dto.RenameFolderRequest{Id: "f1", Name: " "}, wantErr: domain.ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Rename(context.Background(), &tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
	assert.Equal(t, "Office", db.folder("f1").Name)
}

func TestFolderService_DeleteReassignsNotes(t *testing.T) {
	db := newFakeDB()
	db.folders = append(db.folders, entity.Folder{Id: "f1", Name: "Work"})
	db.notes = []entity.Note{
		{Id: "n1", FolderId: "f1"},
		{Id: "n2", FolderId: "f1"},
		{Id: "n3", FolderId: domain.UnassignedFolderID},
	}
	svc, pub := newFolderService(db)

	require.NoError(t, svc.Delete(context.Background(), "f1"))

	assert.Nil(t, db.folder("f1"))
	for _, id := range []string{"n1", "n2", "n3"} {
		assert.Equal(t, domain.UnassignedFolderID, db.note(id).FolderId)
	}
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.FolderDeleted, pub.events[0].EventType())
	assert.Equal(t, int64(2), pub.events[0].Payload()["reassigned"])
}

func TestFolderService_DeleteGuards(t *testing.T) {
	svc, pub := newFolderService(newFakeDB())

	assert.ErrorIs(t, svc.Delete(context.Background(), domain.UnassignedFolderID), domain.ErrReservedFolder)
	assert.ErrorIs(t, svc.Delete(context.Background(), "missing"), domain.ErrNotFound)
	assert.Empty(t, pub.events)
}

func TestFolderService_EnsureIsGetOrCreate(t *testing.T) {
	db := newFakeDB()
	svc, _ := newFolderService(db)
	ctx := context.Background()

	first, err := svc.Ensure(ctx, &dto.EnsureFolderRequest{Name: "Travel"})
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := svc.Ensure(ctx, &dto.EnsureFolderRequest{Name: " Travel "})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Folder.Id, second.Folder.Id)
}

func TestFolderService_EnsureConcurrent(t *testing.T) {
	db := newFakeDB()
	svc, _ := newFolderService(db)

	var wg sync.WaitGroup
	ids := make([]string, 8)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := svc.Ensure(context.Background(), &dto.EnsureFolderRequest{Name: "Recipes"})
			if assert.NoError(t, err) {
				ids[i] = res.Folder.Id
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	count := 0
	for _, f := range db.folders {
		if f.Name == "Recipes" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}
