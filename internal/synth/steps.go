package synth

import "github.com/replaygen/replaygen/internal/domain"

// StepKind enumerates the kinds of test steps the script synthesizer emits.
type StepKind string

const (
	StepRender       StepKind = "render"
	StepInstallMocks StepKind = "install-mocks"
	StepClick        StepKind = "click"
	StepAssertText   StepKind = "assert-text"
	StepKeyboard     StepKind = "keyboard"
)

// Step is one ordered entry of the generated test, independent of how it is
// printed. The renderer serializes steps to source text in a separate pass,
// so the engine can be tested against the descriptor list directly.
type Step struct {
	Kind StepKind

	// Click, assert and keyboard steps.
	TargetID string
	Text     string
	Sequence string

	// Install steps: one-shot overrides registered before the click (or
	// before any interaction for the initial state).
	Mocks []MockHandler
}

// BuildSteps walks the merged sequence and the correlated states and produces
// the ordered step descriptors of the replayable test: a render step, the
// initial mock installation when pre-click responses exist, then per
// interaction the mock installation for the click's state (installed before
// the click, since the replay tool awaits the requests the click triggers),
// the click itself, assertions and keyboard replays. Network events produce
// no direct step; they are consumed by correlation. Per-response failures are
// skipped and reported, never fatal.
func BuildSteps(merged []domain.MergedEvent, states []domain.NetworkState, network []domain.NetworkEvent) ([]Step, []string) {
	requests := indexRequests(network)
	byClick := make(map[string]domain.NetworkState, len(states))
	var initial *domain.NetworkState
	for i := range states {
		if states[i].Initial() {
			initial = &states[i]
			continue
		}
		byClick[states[i].AssociatedClickID] = states[i]
	}

	var steps []Step
	var warnings []string

	steps = append(steps, Step{Kind: StepRender})

	if initial != nil && len(initial.Responses) > 0 {
		if s, ok := installStep(*initial, requests, &warnings); ok {
			steps = append(steps, s)
		}
	}

	for _, ev := range merged {
		if ev.Interaction == nil {
			continue
		}
		ia := ev.Interaction
		switch ia.Kind {
		case domain.InteractionClick:
			if state, ok := byClick[ia.ID]; ok && len(state.Responses) > 0 {
				if s, ok := installStep(state, requests, &warnings); ok {
					steps = append(steps, s)
				}
			}
			steps = append(steps, Step{Kind: StepClick, TargetID: ia.TargetID})
		case domain.InteractionAssertion:
			steps = append(steps, Step{Kind: StepAssertText, TargetID: ia.TargetID, Text: ia.ElementText})
		case domain.InteractionKeyboard:
			steps = append(steps, Step{Kind: StepKeyboard, TargetID: ia.TargetID, Sequence: ia.ReplaySequence})
		}
	}

	return steps, warnings
}

// installStep builds the mock-installation step for one network state. A
// state whose every response fails to pair or parse yields no step at all.
func installStep(state domain.NetworkState, requests map[string]domain.NetworkEvent, warnings *[]string) (Step, bool) {
	var mocks []MockHandler
	for _, resp := range state.Responses {
		h, err := handlerForResponse(resp, requests)
		if err != nil {
			*warnings = append(*warnings, err.Error())
			continue
		}
		mocks = append(mocks, h)
	}
	if len(mocks) == 0 {
		return Step{}, false
	}
	return Step{Kind: StepInstallMocks, Mocks: mocks}, true
}
