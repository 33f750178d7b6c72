package synth

import "github.com/replaygen/replaygen/internal/domain"

// Correlate partitions the merged sequence's network responses into
// NetworkStates: one "initial" state for responses observed before the first
// click (omitted when empty), then exactly one state per click in click
// order, possibly with no responses. Assertion and keyboard events do not
// affect the partition, and error parts are recorded but never bucketed.
//
// A response is attributed to the click it follows in the merged sequence,
// not to the click that was active when its request fired. When clicks are
// issued in quick succession before earlier responses resolve, a response can
// therefore land on a later click's state. This arrival-order attribution is
// a known approximation and is preserved deliberately.
func Correlate(merged []domain.MergedEvent) []domain.NetworkState {
	var initial domain.NetworkState
	var states []domain.NetworkState
	current := -1 // index into states of the open click state

	for _, ev := range merged {
		switch {
		case ev.IsClick():
			states = append(states, domain.NetworkState{
				AssociatedClickID: ev.Interaction.ID,
			})
			current = len(states) - 1
		case ev.IsResponse():
			if current < 0 {
				initial.Responses = append(initial.Responses, *ev.Network)
			} else {
				states[current].Responses = append(states[current].Responses, *ev.Network)
			}
		}
	}

	if len(initial.Responses) == 0 {
		return states
	}
	return append([]domain.NetworkState{initial}, states...)
}
