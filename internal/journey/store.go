package journey

import (
	"encoding/json"

	"github.com/arcyniiegas/elysium/internal/localdb"
	"github.com/arcyniiegas/elysium/internal/shared/logger"
	"go.uber.org/zap"
)

// StorageKey is the fixed namespaced key the journey blob lives under. The
// name is carried over from the original browser profile so an imported
// export lands in the right place.
const StorageKey = "elysium_v2_journey"

// BlobStore persists the state as a single JSON document in sqlite,
// whole-object overwrite on every save.
type BlobStore struct {
	Key string
}

// NewBlobStore returns a store on the default key.
func NewBlobStore() *BlobStore {
	return &BlobStore{Key: StorageKey}
}

// Load reads and decodes the blob. Missing keys in the document are
// backfilled from defaults; a corrupt document is discarded for the default
// state rather than surfaced as an error.
func (b *BlobStore) Load() (*State, error) {
	raw, err := localdb.GetStateBlob(b.Key)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return NewState(), nil
	}

	state := NewState()
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		logger.Warn("Discarding corrupt journey state blob", zap.Error(err))
		return NewState(), nil
	}
	state.normalize()
	return state, nil
}

// Save overwrites the blob with the full state.
func (b *BlobStore) Save(state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return localdb.PutStateBlob(b.Key, string(raw))
}

// Clear drops the blob entirely.
func (b *BlobStore) Clear() error {
	return localdb.DeleteStateBlob(b.Key)
}
