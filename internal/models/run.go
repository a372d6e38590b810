package models

// RunState is the typed result of one company's pipeline run. The
// orchestrator owns it for the lifetime of the run and hands each stage
// only the fields it needs; once a field is populated it is never cleared.
type RunState struct {
	// RunID uniquely identifies this run in logs.
	RunID string

	// Company and WebsiteURL are the operator-supplied inputs.
	Company    string
	WebsiteURL string

	// WebsiteText is the boilerplate-stripped text of the company website.
	WebsiteText string

	// Extraction is the structured industry/keyword pair.
	Extraction Extraction

	// References are the gathered news/academic records in acceptance order.
	References []Reference

	// Competitors is the comma-separated competitor list, empty when the
	// identification call failed ("unknown").
	Competitors string

	// BenchmarkingReport is the full multi-section analyst report text.
	BenchmarkingReport string

	// ExecutiveSummary condenses the benchmarking report. Empty when the
	// report or summary call failed.
	ExecutiveSummary string

	// CoreContent anchors all downstream generation: the executive summary
	// when available, otherwise a derived digest of the top references.
	CoreContent string

	// Artifacts are the composed prose/table/graph sub-artifacts.
	Artifacts ComposedArtifacts

	// HTMLPath and PDFPath are the written output files. PDFPath is empty
	// when PDF rendering failed (non-fatal).
	HTMLPath string
	PDFPath  string
}
