package memory_test

import (
	"testing"

	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSnapshotStoreContract(t, store)
}

func TestMemoryResults_Contract(t *testing.T) {
	seeded := []ports.ResultRef{{ID: "r1", StrategyID: "s1"}, {ID: "r2", StrategyID: "s2"}}
	ports.RunResultStoreContract(t, memory.NewResults(seeded...), seeded)
}

func TestMemorySpec_Contract(t *testing.T) {
	seeded := map[string]string{"designBrief": "Calmer checkout", "designConstraints": "WCAG AA"}
	ports.RunSpecStoreContract(t, memory.Spec(seeded), seeded)
}
