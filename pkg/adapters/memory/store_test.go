package memory_test

import (
	"testing"

	"github.com/aretw0/espalier/pkg/adapters/memory"
	"github.com/aretw0/espalier/pkg/session"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	session.RunStoreContract(t, store)
}
