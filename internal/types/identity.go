package types

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/funvibe/typeflow/internal/config"
)

// ObjectID is the nominal identity token carried by Object (spec.md §3.1):
// stable across shallow aliasing, regenerated on deep clone.
type ObjectID string

var testCounter int64

// NewObjectID mints a fresh identity token. In test mode it returns a
// monotonically increasing counter so golden-value tests are deterministic,
// mirroring the teacher's config.IsTestMode normalisation trick
// (internal/typesystem/kinds.go in the teacher) rather than asserting on
// opaque UUID text.
func NewObjectID() ObjectID {
	if config.IsTestMode {
		n := atomic.AddInt64(&testCounter, 1)
		return ObjectID("obj#" + strconv.FormatInt(n, 10))
	}
	return ObjectID(uuid.NewString())
}

// ResetTestIdentityCounter restarts the deterministic id counter used in
// test mode. Nothing in this module calls it; resetCaches leaves the
// counter running.
func ResetTestIdentityCounter() {
	atomic.StoreInt64(&testCounter, 0)
}
