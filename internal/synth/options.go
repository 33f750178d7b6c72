package synth

import "fmt"

// Defaults applied by Options.withDefaults.
const (
	DefaultTestName      = "should handle user interactions correctly"
	DefaultComponentName = "MyComponent"
)

// Options configures one synthesis run. Zero values fall back to the
// documented defaults; DescribeLabel defaults to
// "<ComponentName> Integration Tests".
type Options struct {
	TestName      string `json:"testName"`
	ComponentName string `json:"componentName"`
	DescribeLabel string `json:"describeLabel"`
}

func (o Options) withDefaults() Options {
	if o.TestName == "" {
		o.TestName = DefaultTestName
	}
	if o.ComponentName == "" {
		o.ComponentName = DefaultComponentName
	}
	if o.DescribeLabel == "" {
		o.DescribeLabel = fmt.Sprintf("%s Integration Tests", o.ComponentName)
	}
	return o
}
