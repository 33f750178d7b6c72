// Package synth turns a recorded session's interaction and network logs into
// runnable test source and mock-handler source. The engine is a pure
// transformation over in-memory snapshots: no I/O, no shared state, safe for
// concurrent calls on independent inputs, and byte-identical output for
// identical input.
package synth

import "github.com/replaygen/replaygen/internal/domain"

// Generate runs the full synthesis pipeline: merge both logs onto one time
// base, correlate responses with the clicks that precede them, then emit mock
// handlers, test steps and a summary as one artifact.
//
// It returns ErrNoRecordedActivity when both logs are empty. Per-event
// failures (orphaned responses, unparsable URLs) never fail the run; the
// affected events are left out and reported in the artifact's warnings.
func Generate(interactions []domain.InteractionEvent, network []domain.NetworkEvent, opts Options) (*domain.GeneratedArtifact, error) {
	if len(interactions) == 0 && len(network) == 0 {
		return nil, ErrNoRecordedActivity
	}
	opts = opts.withDefaults()

	merged := Merge(interactions, network)
	states := Correlate(merged)

	handlers, handlerWarnings := BuildMockHandlers(network)
	steps, stepWarnings := BuildSteps(merged, states, network)

	artifact := &domain.GeneratedArtifact{
		TestSource:        RenderTest(steps, opts),
		MockHandlerSource: RenderMockHandlers(handlers),
		Summary:           BuildSummary(interactions, network),
		Warnings:          dedupeWarnings(handlerWarnings, stepWarnings),
	}
	return artifact, nil
}

// dedupeWarnings merges warning lists, dropping repeats: the same orphaned
// response is discovered by both the handler and the step pass.
func dedupeWarnings(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, w := range list {
			if seen[w] {
				continue
			}
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}
