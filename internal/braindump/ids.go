package braindump

import (
	"crypto/rand"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// idSource issues suggestion ids for a single analysis run. Monotonic ULIDs
// keep ids unique within the run without leaning on raw entropy.
type idSource struct {
	mu      sync.Mutex
	entropy io.Reader
}

func newIDSource() *idSource {
	return &idSource{entropy: ulid.Monotonic(rand.Reader, 0)}
}

// next returns the next suggestion id, prefixed so ids are recognizable in
// logs and selection state.
func (s *idSource) next() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy)
	return "t_" + strings.ToLower(id.String())
}
