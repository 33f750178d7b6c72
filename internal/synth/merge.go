package synth

import (
	"sort"

	"github.com/replaygen/replaygen/internal/domain"
)

// Merge combines the interaction and network logs into one sequence ordered
// by timestamp ascending. Interaction timestamps are normalized to epoch
// milliseconds so both streams share a time base. No events are dropped or
// deduplicated here.
//
// The sort is stable over the concatenation interactions-then-network:
// at equal timestamps, events keep their relative input order and an
// interaction event sorts before a network event. This tie-break is part of
// the merger's contract, not an accident of the sort.
func Merge(interactions []domain.InteractionEvent, network []domain.NetworkEvent) []domain.MergedEvent {
	merged := make([]domain.MergedEvent, 0, len(interactions)+len(network))

	for i := range interactions {
		ev := &interactions[i]
		merged = append(merged, domain.MergedEvent{
			Timestamp:   ev.Timestamp.UnixMilli(),
			Interaction: ev,
		})
	}
	for i := range network {
		ev := &network[i]
		merged = append(merged, domain.MergedEvent{
			Timestamp: ev.Timestamp,
			Network:   ev,
		})
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].Timestamp < merged[b].Timestamp
	})

	return merged
}
