package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"notealog/internal/dto"
	"notealog/internal/entity"
	"notealog/internal/pkg/logger"
	"notealog/pkg/categorizer"
	"notealog/pkg/domain"
	"notealog/pkg/events"
	"notealog/pkg/taskgroup"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordSuggester picks a folder from the title; titles containing "fail"
// fail.
type keywordSuggester struct {
	mu   sync.Mutex
	seen []domain.Note
}

func (k *keywordSuggester) Suggest(ctx context.Context, note domain.Note) (string, error) {
	k.mu.Lock()
	k.seen = append(k.seen, note)
	k.mu.Unlock()

	switch {
	case strings.Contains(note.Title, "fail"):
		return "", domain.Wrap(domain.ErrRemoteUnavailable, "suggest", nil)
	case strings.Contains(note.Title, "flight"), strings.Contains(note.Title, "hotel"):
		return "Travel", nil
	default:
		return "Work", nil
	}
}

func (k *keywordSuggester) SuggestAll(ctx context.Context, notes []domain.Note, limit int) categorizer.BatchResult {
	var res categorizer.BatchResult
	for _, n := range notes {
		name, err := k.Suggest(ctx, n)
		if err != nil {
			res.Failures = append(res.Failures, taskgroup.Outcome{Key: n.Id, Err: err})
			continue
		}
		res.Suggestions = append(res.Suggestions, domain.SuggestedMove{NoteId: n.Id, SuggestedFolderName: name})
	}
	return res
}

type nopJobPublisher struct{}

func (nopJobPublisher) PublishAutoCategorize(ctx context.Context, msg dto.AutoCategorizeMessage) error {
	return nil
}

func seededDB() *fakeDB {
	db := newFakeDB()
	db.folders = append(db.folders, entity.Folder{Id: "f1", Name: "Work"})
	db.notes = []entity.Note{
		{Id: "n1", Title: "standup", FolderId: domain.UnassignedFolderID},
		{Id: "n2", Title: "flight", FolderId: domain.UnassignedFolderID},
		{Id: "n3", Title: "hotel", FolderId: domain.UnassignedFolderID},
		{Id: "n4", Title: "fail", FolderId: domain.UnassignedFolderID},
		{Id: "n5", Title: "filed", FolderId: "f1"},
	}
	return db
}

func newCategorizeService(db *fakeDB, suggester Suggester, pub *recordingPublisher, jobs IPublisherService) ICategorizeService {
	log := logger.NewNopLogger()
	folders := NewFolderService(db, pub, log)
	return NewCategorizeService(db, suggester, folders, jobs, pub, 2, log)
}

func TestCategorizeService_Categorize(t *testing.T) {
	suggester := &keywordSuggester{}
	svc := newCategorizeService(newFakeDB(), suggester, &recordingPublisher{}, nopJobPublisher{})

	res, err := svc.Categorize(context.Background(), &dto.CategorizeNoteRequest{NoteTitle: "flight", NoteEmbeddingID: "e1"})
	require.NoError(t, err)
	assert.Equal(t, "Travel", res.Category)
	assert.Equal(t, "e1", suggester.seen[0].EmbeddingsId)

	_, err = svc.Categorize(context.Background(), &dto.CategorizeNoteRequest{})
	assert.True(t, domain.IsValidation(err))
}

func TestCategorizeService_SuggestAllOnlyUnassigned(t *testing.T) {
	db := seededDB()
	svc := newCategorizeService(db, &keywordSuggester{}, &recordingPublisher{}, nopJobPublisher{})

	res, err := svc.SuggestAll(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Suggestions, 3)
	byNote := map[string]dto.SuggestedFolder{}
	for _, s := range res.Suggestions {
		byNote[s.NoteId] = s.SuggestedFolder
	}
	assert.NotContains(t, byNote, "n5")
	require.NotNil(t, byNote["n1"].Id)
	assert.Equal(t, "f1", *byNote["n1"].Id)
	assert.Nil(t, byNote["n2"].Id)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, "n4", res.Failures[0].NoteId)

	// Nothing moved.
	assert.Equal(t, domain.UnassignedFolderID, db.note("n1").FolderId)
}

func TestCategorizeService_RunAutoCategorize(t *testing.T) {
	db := seededDB()
	pub := &recordingPublisher{}
	svc := newCategorizeService(db, &keywordSuggester{}, pub, nopJobPublisher{})

	res, err := svc.RunAutoCategorize(context.Background(), dto.AutoCategorizeMessage{JobId: "job-1", Trigger: "api"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Moved)
	assert.Equal(t, 1, res.Failed)

	assert.Equal(t, "f1", db.note("n1").FolderId)
	travel := db.note("n2").FolderId
	assert.NotEqual(t, domain.UnassignedFolderID, travel)
	assert.Equal(t, travel, db.note("n3").FolderId)
	assert.Equal(t, domain.UnassignedFolderID, db.note("n4").FolderId)

	travelFolders := 0
	for _, f := range db.folders {
		if f.Name == "Travel" {
			travelFolders++
		}
	}
	assert.Equal(t, 1, travelFolders)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.CategorizationCompleted, pub.events[0].EventType())
	assert.Equal(t, "job-1", pub.events[0].Payload()["job_id"])
}

func TestAutoCategorizeJobRoundTrip(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	db := seededDB()
	log := logger.NewNopLogger()
	completed := &recordingPublisher{}
	jobs := NewPublisherService(pubSub, "auto_categorize")
	svc := newCategorizeService(db, &keywordSuggester{}, completed, jobs)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, NewConsumerService(pubSub, "auto_categorize", svc, log).Consume(ctx))

	started, err := svc.StartAutoCategorize(ctx, "api")
	require.NoError(t, err)
	assert.NotEmpty(t, started.JobId)

	assert.Eventually(t, func() bool {
		completed.mu.Lock()
		defer completed.mu.Unlock()
		return len(completed.events) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, started.JobId, completed.events[0].Payload()["job_id"])
}

func TestPublisherService_Payload(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	messages, err := pubSub.Subscribe(context.Background(), "jobs")
	require.NoError(t, err)

	require.NoError(t, NewPublisherService(pubSub, "jobs").PublishAutoCategorize(context.Background(),
		dto.AutoCategorizeMessage{JobId: "j1", Trigger: "cron"}))

	select {
	case msg := <-messages:
		var got dto.AutoCategorizeMessage
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, dto.AutoCategorizeMessage{JobId: "j1", Trigger: "cron"}, got)
		msg.Ack()
	case <-time.After(2 * time.Second):
		t.Fatal("message not delivered")
	}
}

func TestNewSchedulerService_RejectsBadSpec(t *testing.T) {
	svc := newCategorizeService(newFakeDB(), &keywordSuggester{}, &recordingPublisher{}, nopJobPublisher{})

	_, err := NewSchedulerService("every day", svc, logger.NewNopLogger())
	assert.Error(t, err)

	sched, err := NewSchedulerService("*/5 * * * *", svc, logger.NewNopLogger())
	require.NoError(t, err)
	sched.Start()
	<-sched.Stop().Done()
}
