// Package session carries the identity of one compiler invocation across
// the pipeline: a build id used to tag diagnostics output and the build
// log (internal/buildlog). Grounded on funxy's use of github.com/google/uuid
// in its ext/* integration tests for generating stable-but-unique ids.
package session

import (
	"time"

	"github.com/google/uuid"
)

// Session identifies one run of the compiler.
type Session struct {
	ID        uuid.UUID
	StartedAt time.Time
	EntryFile string
}

// New creates a Session for compiling entryFile.
func New(entryFile string) *Session {
	return &Session{
		ID:        uuid.New(),
		StartedAt: time.Now(),
		EntryFile: entryFile,
	}
}

func (s *Session) String() string {
	return s.ID.String()
}
