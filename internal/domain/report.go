package domain

// Severity classifies a notification report.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityFailure Severity = "failure"
	SeverityDevMode Severity = "devmode"
	SeveritySkipped Severity = "skipped"
)

// Report is the structured notification handed to the outbound sender.
// The sender owns transport; the report's shape is the contract.
type Report struct {
	Title    string
	Severity Severity
	Body     string
	Footer   string
	URL      string
}
