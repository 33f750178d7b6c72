package synth

import (
	"errors"
	"strings"
	"testing"

	"github.com/replaygen/replaygen/internal/domain"
)

// One click on submit-button followed by a POST /submit response: the test
// contains, in order, render, a guarded mock install, then the click.
func TestGenerate_ClickWithTriggeredRequest(t *testing.T) {
	interactions := []domain.InteractionEvent{click("c1", "submit-button", 200)}
	network := []domain.NetworkEvent{
		request("n1", "POST", "https://api.example.com/submit", strptr(`{"data":"test"}`), 250),
		response("n1", 201, `{"success":true}`, 300),
	}

	artifact, err := Generate(interactions, network, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	markers := []string{
		"render(<MyComponent />);",
		"server.use(",
		"http.post('/submit'",
		"const submitButton = await screen.findByTestId('submit-button');",
		"await userEvent.click(submitButton);",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(artifact.TestSource, m)
		if idx < 0 {
			t.Fatalf("missing %q in:\n%s", m, artifact.TestSource)
		}
		if idx < last {
			t.Errorf("%q appears out of order", m)
		}
		last = idx
	}

	if !strings.Contains(artifact.MockHandlerSource, `if (body !== '{"data":"test"}') {`) {
		t.Errorf("mock source must guard on the recorded body:\n%s", artifact.MockHandlerSource)
	}
}

func TestGenerate_AssertionStep(t *testing.T) {
	interactions := []domain.InteractionEvent{assertion("a1", "user-name", "John Doe", 100)}

	artifact, err := Generate(interactions, nil, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	want := "expect(await screen.findByTestId('user-name')).toHaveTextContent('John Doe');"
	if !strings.Contains(artifact.TestSource, want) {
		t.Errorf("missing assertion step in:\n%s", artifact.TestSource)
	}
}

func TestGenerate_InitialResponsesMockedFirst(t *testing.T) {
	interactions := []domain.InteractionEvent{click("c1", "load-more", 500)}
	network := []domain.NetworkEvent{
		request("n1", "GET", "https://api.example.com/data?page=1", nil, 100),
		response("n1", 200, `{"items":[]}`, 150),
	}

	artifact, err := Generate(interactions, network, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	install := strings.Index(artifact.TestSource, "http.get('/data?page=1'")
	clickIdx := strings.Index(artifact.TestSource, "userEvent.click")
	if install < 0 || clickIdx < 0 {
		t.Fatalf("missing steps in:\n%s", artifact.TestSource)
	}
	if install > clickIdx {
		t.Error("the initial mock install must precede the first interaction step")
	}
}

func TestGenerate_EmptyLogs(t *testing.T) {
	_, err := Generate(nil, nil, Options{})
	if !errors.Is(err, ErrNoRecordedActivity) {
		t.Fatalf("expected ErrNoRecordedActivity, got %v", err)
	}
}

// Two responses to the same GET path: one default handler, and the second
// click's step still overrides with the second body.
func TestGenerate_DuplicateKeyKeepsOverride(t *testing.T) {
	interactions := []domain.InteractionEvent{
		click("c1", "refresh", 200),
		click("c2", "refresh", 400),
	}
	network := []domain.NetworkEvent{
		request("n1", "GET", "https://api.example.com/data", nil, 210),
		response("n1", 200, `{"v":1}`, 250),
		request("n2", "GET", "https://api.example.com/data", nil, 410),
		response("n2", 200, `{"v":2}`, 450),
	}

	artifact, err := Generate(interactions, network, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if n := strings.Count(artifact.MockHandlerSource, "http.get('/data'"); n != 1 {
		t.Errorf("expected exactly one default handler, got %d:\n%s", n, artifact.MockHandlerSource)
	}
	if !strings.Contains(artifact.MockHandlerSource, `{"v":1}`) {
		t.Errorf("the first body must be the default:\n%s", artifact.MockHandlerSource)
	}
	if !strings.Contains(artifact.TestSource, `{"v":2}`) {
		t.Errorf("the second body must survive as a per-step override:\n%s", artifact.TestSource)
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	interactions := []domain.InteractionEvent{
		click("c1", "submit-button", 200),
		assertion("a1", "user-name", "John Doe", 300),
		keyboard("k1", "{Enter}", 400),
	}
	network := []domain.NetworkEvent{
		request("n1", "POST", "https://api.example.com/submit", strptr(`{"data":"test"}`), 250),
		response("n1", 201, `{"success":true}`, 280),
	}

	first, err := Generate(interactions, network, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, err := Generate(interactions, network, Options{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if first.TestSource != second.TestSource {
		t.Error("test source must be byte-identical across runs")
	}
	if first.MockHandlerSource != second.MockHandlerSource {
		t.Error("mock source must be byte-identical across runs")
	}
}

func TestGenerate_SkipAndReport(t *testing.T) {
	interactions := []domain.InteractionEvent{click("c1", "btn", 100)}
	network := []domain.NetworkEvent{
		response("ghost", 200, `{}`, 200),
	}

	artifact, err := Generate(interactions, network, Options{})
	if err != nil {
		t.Fatalf("per-event failures must not abort synthesis: %v", err)
	}
	if len(artifact.Warnings) != 1 {
		t.Fatalf("expected one deduplicated warning, got %v", artifact.Warnings)
	}
	if !strings.Contains(artifact.TestSource, "userEvent.click") {
		t.Error("the rest of the session must still be emitted")
	}
}

func TestGenerate_Options(t *testing.T) {
	interactions := []domain.InteractionEvent{click("c1", "btn", 100)}

	artifact, err := Generate(interactions, nil, Options{
		TestName:      "replays the checkout flow",
		ComponentName: "CheckoutForm",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, want := range []string{
		"it('replays the checkout flow'",
		"describe('CheckoutForm Integration Tests'",
		"render(<CheckoutForm />);",
		"import CheckoutForm from './CheckoutForm';",
	} {
		if !strings.Contains(artifact.TestSource, want) {
			t.Errorf("missing %q in:\n%s", want, artifact.TestSource)
		}
	}
}

func TestBuildSummary(t *testing.T) {
	interactions := []domain.InteractionEvent{
		click("c1", "submit-button", 100),
		click("c2", "submit-button", 200),
		assertion("a1", "user-name", "John", 300),
	}
	network := []domain.NetworkEvent{
		request("n1", "GET", "https://api.example.com/data", nil, 100),
		response("n1", 200, `{}`, 150),
		request("n2", "GET", "https://api.example.com/data", nil, 200),
		request("n3", "POST", "https://api.example.com/submit", nil, 300),
	}

	s := BuildSummary(interactions, network)

	if s.TotalInteractionEvents != 3 {
		t.Errorf("TotalInteractionEvents = %d", s.TotalInteractionEvents)
	}
	if s.TotalNetworkRequests != 3 {
		t.Errorf("TotalNetworkRequests = %d, responses must not count", s.TotalNetworkRequests)
	}
	if len(s.UniqueTargetIDs) != 2 {
		t.Errorf("UniqueTargetIDs = %v", s.UniqueTargetIDs)
	}
	if len(s.UniqueEndpoints) != 2 {
		t.Errorf("UniqueEndpoints = %v", s.UniqueEndpoints)
	}
}
