package alloc

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// Test_RandomizedOperationSequenceStaysConsistent drives each variant
// through a long pseudo-random sequence of Allocate/Free/Reallocate calls,
// checking invariants every 50 steps and at the end. The seed is fixed so a failure here
// always reproduces.
func Test_RandomizedOperationSequenceStaysConsistent(t *testing.T) {
	forEachVariant(t, func(t *testing.T, variant string) {
		a := newAllocatorForTest(t, variant, Config{ChunkSize: 2048})
		rng := rand.New(rand.NewSource(20260806))

		live := make(map[Ptr]int)
		for step := 0; step < 2000; step++ {
			switch {
			case len(live) == 0 || rng.Intn(3) != 0:
				size := 1 + rng.Intn(500)
				p, err := a.Allocate(size)
				require.NoError(t, err)
				fillPattern(a, p, size, byte(step))
				live[p] = size

			case rng.Intn(2) == 0:
				var target Ptr
				for p := range live {
					target = p
					break
				}
				newSize := 1 + rng.Intn(500)
				p, err := a.Reallocate(target, newSize)
				require.NoError(t, err)
				delete(live, target)
				live[p] = newSize

			default:
				var target Ptr
				for p := range live {
					target = p
					break
				}
				require.NoError(t, a.Free(target))
				delete(live, target)
			}

			if step%50 == 0 {
				assertInvariants(t, a)
			}
		}
		assertInvariants(t, a)

		var bytesInUse uint64
		for _, size := range live {
			bytesInUse += uint64(size)
		}
		// BytesInUse should at least cover the payload bytes tracked here;
		// allocator-internal rounding only ever adds overhead, never less.
		require.GreaterOrEqual(t, a.Stats().BytesInUse, bytesInUse)
	})
}
