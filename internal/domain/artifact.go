package domain

// Summary aggregates the raw input logs for reporting alongside the
// generated sources.
type Summary struct {
	TotalInteractionEvents int      `json:"totalInteractionEvents"`
	TotalNetworkRequests   int      `json:"totalNetworkRequests"`
	UniqueTargetIDs        []string `json:"uniqueTargetIds"`
	UniqueEndpoints        []string `json:"uniqueEndpoints"`
}

// GeneratedArtifact is the synthesis output: directly runnable test source,
// the mock-handler module it imports, and a summary of what was recorded.
// Warnings list the individual events that had to be skipped (for example a
// response whose URL did not parse); they never abort synthesis.
type GeneratedArtifact struct {
	TestSource        string   `json:"testSource"`
	MockHandlerSource string   `json:"mockHandlerSource"`
	Summary           Summary  `json:"summary"`
	Warnings          []string `json:"warnings,omitempty"`
}
