package synth

import "errors"

// ErrNoRecordedActivity is returned when both input logs are empty. A test
// with no recorded steps would be vacuous, so synthesis refuses to produce
// one; callers surface this to the user instead of persisting an artifact.
var ErrNoRecordedActivity = errors.New("no recorded activity: both interaction and network logs are empty")
