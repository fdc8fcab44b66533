// Package storage provides the session-scoped string key/value media backing
// the session store. A medium holds opaque string values; it knows nothing
// about tokens or users.
package storage

// Medium is a session-scoped string key/value store. Values live until
// deleted or until the host's session scope ends. Implementations do not
// coordinate writers: the last write to a key wins.
type Medium interface {
	// Get returns the value stored under key. ok is false when the key is
	// absent; absence is not an error.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(key string) error
}
