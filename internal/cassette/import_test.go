package cassette

import (
	"testing"
	"time"

	vcr "gopkg.in/dnaeon/go-vcr.v2/cassette"

	"github.com/replaygen/replaygen/internal/domain"
)

func TestConvert(t *testing.T) {
	c := &vcr.Cassette{
		Interactions: []*vcr.Interaction{
			{
				Request: vcr.Request{
					Method: "GET",
					URL:    "https://api.example.com/data?page=1",
				},
				Response: vcr.Response{
					Code: 200,
					Body: `{"items":[]}`,
				},
			},
			{
				Request: vcr.Request{
					Method: "POST",
					URL:    "https://api.example.com/submit",
					Body:   `{"data":"test"}`,
				},
				Response: vcr.Response{
					Code: 201,
					Body: `{"success":true}`,
				},
			},
		},
	}

	base := time.UnixMilli(1000)
	events := Convert(c, base)

	if len(events) != 4 {
		t.Fatalf("expected 4 events (2 pairs), got %d", len(events))
	}

	req, resp := events[0], events[1]
	if req.Phase != domain.NetworkRequest || resp.Phase != domain.NetworkResponse {
		t.Fatalf("expected request then response, got %s, %s", req.Phase, resp.Phase)
	}
	if req.ID != resp.ID {
		t.Error("pair must share a transaction id")
	}
	if req.ID == events[2].ID {
		t.Error("distinct interactions must get distinct ids")
	}
	if req.RequestBody != nil {
		t.Error("empty request body must stay nil")
	}
	if events[2].RequestBody == nil || *events[2].RequestBody != `{"data":"test"}` {
		t.Errorf("request body lost: %+v", events[2])
	}

	// Synthetic timestamps preserve recorded order.
	last := int64(-1)
	for _, ev := range events {
		if ev.Timestamp <= last {
			t.Fatalf("timestamps must be strictly increasing, got %v", events)
		}
		last = ev.Timestamp
	}
	if events[0].Timestamp != base.UnixMilli() {
		t.Errorf("first event must start at base")
	}
}

func TestConvert_UnparsableBodyBecomesString(t *testing.T) {
	c := &vcr.Cassette{
		Interactions: []*vcr.Interaction{{
			Request:  vcr.Request{Method: "GET", URL: "https://api.example.com/legacy"},
			Response: vcr.Response{Code: 200, Body: `<html>not json</html>`},
		}},
	}

	events := Convert(c, time.UnixMilli(0))

	if string(events[1].ResponseBody) != `"<html>not json</html>"` {
		t.Errorf("unparsable body must be wrapped as a JSON string, got %s", events[1].ResponseBody)
	}
}

func TestImport_MissingCassette(t *testing.T) {
	if _, err := Import("testdata/does-not-exist", time.Now()); err == nil {
		t.Fatal("expected an error for a missing cassette")
	}
}
