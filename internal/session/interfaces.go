package session

import (
	"github.com/google/uuid"
)

// PrefsStore is the durable client-local storage: the most recently
// connected board and the archived-habits filter survive across sessions
// and are cleared on disconnect.
type PrefsStore interface {
	BoardID(identity uuid.UUID) (uuid.UUID, bool)
	SetBoardID(identity, boardID uuid.UUID) error
	ClearBoardID(identity uuid.UUID) error
	ShowArchived(identity uuid.UUID) bool
	SetShowArchived(identity uuid.UUID, show bool) error
}

// MetricsRecorder receives counters from the session engine. Implemented
// by internal/metrics, a noop stands in when nothing is wired.
type MetricsRecorder interface {
	RecordReload()
	RecordReloadFailure()
	RecordMutation(op string)
	RecordToggleConflict()
}

type noopMetrics struct{}

func (noopMetrics) RecordReload()            {}
func (noopMetrics) RecordReloadFailure()     {}
func (noopMetrics) RecordMutation(op string) {}
func (noopMetrics) RecordToggleConflict()    {}

type CreateBoardRequest struct {
	Name        string `validate:"required,notblank,max=100"`
	DisplayName string `validate:"required,notblank,max=50"`
}

type JoinBoardRequest struct {
	BoardID     uuid.UUID `validate:"required"`
	DisplayName string    `validate:"required,notblank,max=50"`
}

// MemberUpdate carries the editable member fields, nil means unchanged.
type MemberUpdate struct {
	Name  *string
	Color *string
}
