package engine

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dm/shardbal/internal/model"
)

// TestSelectTargetProperties checks the target choice over generated node
// loads, shard counts and ledgers rather than hand-picked points.
func TestSelectTargetProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)
	pct := gen.Float64Range(0, 100)

	properties.Property("never returns the excluded node", prop.ForAll(
		func(excluded string, cpuA, cpuB, cpuC float64, countA, countB, pending int) bool {
			loads := []model.NodeLoad{load("a", cpuA, 50, 50), load("b", cpuB, 50, 50), load("c", cpuC, 50, 50)}
			counts := map[string]int{"a": countA, "b": countB}
			ledger := model.AssignmentLedger{"c": pending}

			got, ok := SelectTarget(loads, excluded, counts, ledger)
			return ok && got != excluded
		},
		gen.OneConstOf("a", "b", "c", "elsewhere"),
		pct, pct, pct,
		gen.IntRange(0, 50), gen.IntRange(0, 50), gen.IntRange(0, 5),
	))

	properties.Property("a lone excluded node yields no target", prop.ForAll(
		func(cpu float64, count int) bool {
			got, ok := SelectTarget([]model.NodeLoad{load("a", cpu, 50, 50)}, "a", map[string]int{"a": count}, nil)
			return !ok && got == ""
		},
		pct, gen.IntRange(0, 50),
	))

	properties.Property("final score rises with cpu", prop.ForAll(
		func(cpu, delta, heap, diskFree float64) bool {
			lo := Score([]model.NodeLoad{load("b", cpu, heap, diskFree)}, "a", nil, nil)[0]
			hi := Score([]model.NodeLoad{load("b", cpu+delta, heap, diskFree)}, "a", nil, nil)[0]
			return hi.Final > lo.Final
		},
		gen.Float64Range(0, 50), gen.Float64Range(1, 50), pct, pct,
	))

	properties.Property("final score rises with heap", prop.ForAll(
		func(heap, delta, cpu, diskFree float64) bool {
			lo := Score([]model.NodeLoad{load("b", cpu, heap, diskFree)}, "a", nil, nil)[0]
			hi := Score([]model.NodeLoad{load("b", cpu, heap+delta, diskFree)}, "a", nil, nil)[0]
			return hi.Final > lo.Final
		},
		gen.Float64Range(0, 50), gen.Float64Range(1, 50), pct, pct,
	))

	// The excluded node holds the most primaries so maxShards stays fixed.
	properties.Property("final score rises with primaries held", prop.ForAll(
		func(count int, cpu float64) bool {
			loads := []model.NodeLoad{load("b", cpu, 50, 50)}
			lo := Score(loads, "a", map[string]int{"a": 100, "b": count}, nil)[0]
			hi := Score(loads, "a", map[string]int{"a": 100, "b": count + 1}, nil)[0]
			return hi.Final > lo.Final
		},
		gen.IntRange(0, 98), pct,
	))

	properties.Property("a winner stays chosen when its cpu drops", prop.ForAll(
		func(cpuB, cpuC, heapB, heapC, drop float64, countB, countC int) bool {
			counts := map[string]int{"a": 10, "b": countB, "c": countC}
			before := []model.NodeLoad{load("b", cpuB, heapB, 50), load("c", cpuC, heapC, 50)}
			if got, _ := SelectTarget(before, "a", counts, nil); got != "b" {
				return true
			}
			after := []model.NodeLoad{load("b", cpuB*(1-drop), heapB, 50), load("c", cpuC, heapC, 50)}
			got, _ := SelectTarget(after, "a", counts, nil)
			return got == "b"
		},
		pct, pct, pct, pct, gen.Float64Range(0, 1),
		gen.IntRange(0, 10), gen.IntRange(0, 10),
	))

	properties.Property("ledger assignments steer away from a node", prop.ForAll(
		func(cpu, heap float64, pending int) bool {
			loads := []model.NodeLoad{load("b", cpu, heap, 50), load("c", cpu, heap, 50)}
			counts := map[string]int{"a": 20}
			got, _ := SelectTarget(loads, "a", counts, model.AssignmentLedger{"b": pending})
			return got == "c"
		},
		pct, pct, gen.IntRange(1, 10),
	))

	properties.TestingRun(t)
}
