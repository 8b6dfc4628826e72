package events

import "time"

const (
	// CategorizationCompleted is published when a server-side job has moved
	// notes into folders.
	CategorizationCompleted = "CATEGORIZATION_COMPLETED"
	// FolderDeleted is published after a folder is removed and its notes
	// reassigned.
	FolderDeleted = "FOLDER_DELETED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "FOLDER_DELETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

func NewCategorizationCompleted(jobId string, moved, failed int) BaseEvent {
	return BaseEvent{
		Type: CategorizationCompleted,
		Data: map[string]interface{}{
			"job_id": jobId,
			"moved":  moved,
			"failed": failed,
		},
		OccurredAt: time.Now(),
	}
}

func NewFolderDeleted(folderId string, reassigned int64) BaseEvent {
	return BaseEvent{
		Type: FolderDeleted,
		Data: map[string]interface{}{
			"folder_id":  folderId,
			"reassigned": reassigned,
		},
		OccurredAt: time.Now(),
	}
}
