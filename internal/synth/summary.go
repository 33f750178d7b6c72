package synth

import (
	"sort"

	"github.com/replaygen/replaygen/internal/domain"
)

// BuildSummary aggregates the two raw input logs: interaction and request
// counts plus the distinct target ids and endpoints seen. It reads the raw
// logs, not the merged or correlated structures, so it reflects everything
// that was recorded even when synthesis later skips an event.
func BuildSummary(interactions []domain.InteractionEvent, network []domain.NetworkEvent) domain.Summary {
	s := domain.Summary{
		TotalInteractionEvents: len(interactions),
		UniqueTargetIDs:        []string{},
		UniqueEndpoints:        []string{},
	}

	targets := make(map[string]struct{})
	for _, ev := range interactions {
		if ev.TargetID != "" {
			targets[ev.TargetID] = struct{}{}
		}
	}

	endpoints := make(map[string]struct{})
	for _, ev := range network {
		if ev.Phase != domain.NetworkRequest {
			continue
		}
		s.TotalNetworkRequests++
		if ev.URL != "" {
			endpoints[ev.URL] = struct{}{}
		}
	}

	for t := range targets {
		s.UniqueTargetIDs = append(s.UniqueTargetIDs, t)
	}
	for e := range endpoints {
		s.UniqueEndpoints = append(s.UniqueEndpoints, e)
	}
	sort.Strings(s.UniqueTargetIDs)
	sort.Strings(s.UniqueEndpoints)

	return s
}
