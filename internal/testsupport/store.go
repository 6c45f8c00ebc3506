package testsupport

import (
	"testing"

	"setlist/internal/config"
	"setlist/internal/state"
)

// MustOpenState opens the state database named by cfg and registers cleanup.
func MustOpenState(t testing.TB, cfg *config.Config) *state.Store {
	t.Helper()

	st, err := state.Open(cfg.StateDBPath())
	if err != nil {
		t.Fatalf("state.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}
