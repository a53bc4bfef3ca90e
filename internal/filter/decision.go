package filter

import (
	"fmt"
)

// Outcome is the result of evaluating the rule list against an event.
type Outcome int

const (
	// SkipNoWorkflow is returned for payloads without a workflow_run.
	SkipNoWorkflow Outcome = iota
	// SkipNotConcluded is returned for runs that have not concluded yet.
	SkipNotConcluded
	// SkipSuccess is returned for successful runs, on any branch.
	SkipSuccess
	// SkipNonDefaultBranch is returned for failed runs outside the default branches.
	SkipNonDefaultBranch
	// SendDefaultBranchFailure is returned for failed runs on a default branch.
	SendDefaultBranchFailure
)

var outcomeNames = map[Outcome]string{
	SkipNoWorkflow:           "skip:no-workflow",
	SkipNotConcluded:         "skip:not-concluded",
	SkipSuccess:              "skip:success",
	SkipNonDefaultBranch:     "skip:non-default-branch-failure",
	SendDefaultBranchFailure: "send:default-branch-failure",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Send reports whether the outcome requires a notification.
func (o Outcome) Send() bool {
	return o == SendDefaultBranchFailure
}

// Decision is the per-request verdict of the filter.
type Decision struct {
	Outcome Outcome
	// Rule is the name of the rule that matched.
	Rule string
	// Acknowledgment is the human-readable text returned to the webhook sender.
	Acknowledgment string
	// Notification is set only when Outcome.Send() is true.
	Notification *Notification
}

// Notification carries the fields of a failed run needed to format the outbound message.
type Notification struct {
	Repository string
	FullName   string
	Event      string
	Path       string
	Status     string
	Conclusion string
	URL        string
}

// Message renders the plain-text failure message.
func (n *Notification) Message() string {
	return fmt.Sprintf(`
Failure building repository %s (%s)
Event: %s
Workflow path: %s
Status: %s (%s)
Job: %s
`,
		n.Repository, n.FullName,
		n.Event,
		n.Path,
		n.Status, n.Conclusion,
		n.URL)
}
