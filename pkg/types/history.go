package types

import "time"

type HistoryEvent string

const (
	HistoryDocumentCreated HistoryEvent = "document_created"
	HistoryDocumentUpdated HistoryEvent = "document_updated"
	HistoryDocumentDeleted HistoryEvent = "document_deleted"
)

// HistoryEntry is one line of a parent record's audit trail.
type HistoryEntry struct {
	ID         string       `db:"id" json:"id"`
	ParentID   string       `db:"parent_id" json:"parentId"`
	Event      HistoryEvent `db:"event" json:"event"`
	DocumentID *string      `db:"document_id" json:"documentId,omitempty"`
	Detail     *string      `db:"detail" json:"detail,omitempty"`
	UserID     *string      `db:"user_id" json:"userId,omitempty"`
	CreatedAt  time.Time    `db:"created_at" json:"createdAt"`
}
