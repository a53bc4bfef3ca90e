package filter

import (
	"fmt"
	"slices"

	"github.com/google/go-github/v84/github"
	"github.com/isometry/gh-workflow-relay/internal/helpers"
)

// DefaultBranches is the set of branches whose failures are notified.
var DefaultBranches = []string{"main", "master"}

// Rule maps a predicate on the event to an outcome.
type Rule struct {
	Name    string
	Outcome Outcome
	Match   func(*github.WorkflowRunEvent) bool
}

// Option configures a Filter.
type Option func(*Filter)

// WithDefaultBranches overrides the default branch set. Full refs are accepted.
// An empty list keeps DefaultBranches.
func WithDefaultBranches(branches ...string) Option {
	return func(f *Filter) {
		if b := helpers.NormaliseRefs(branches); len(b) > 0 {
			f.branches = b
		}
	}
}

// Filter holds the ordered rule list. It is immutable after construction and safe for concurrent use.
type Filter struct {
	branches []string
	rules    []Rule
}

// New returns a Filter with the standard rule chain.
func New(opts ...Option) *Filter {
	_inst := &Filter{branches: slices.Clone(DefaultBranches)}
	for _, opt := range opts {
		opt(_inst)
	}
	_inst.rules = []Rule{
		{
			Name:    "no-workflow",
			Outcome: SkipNoWorkflow,
			Match: func(e *github.WorkflowRunEvent) bool {
				return e.WorkflowRun == nil
			},
		},
		{
			Name:    "not-concluded",
			Outcome: SkipNotConcluded,
			Match: func(e *github.WorkflowRunEvent) bool {
				return e.WorkflowRun.Conclusion == nil
			},
		},
		{
			Name:    "success",
			Outcome: SkipSuccess,
			Match: func(e *github.WorkflowRunEvent) bool {
				return e.WorkflowRun.GetConclusion() == "success"
			},
		},
		{
			Name:    "non-default-branch-failure",
			Outcome: SkipNonDefaultBranch,
			Match: func(e *github.WorkflowRunEvent) bool {
				return !slices.Contains(_inst.branches, e.WorkflowRun.GetHeadBranch())
			},
		},
		{
			Name:    "default-branch-failure",
			Outcome: SendDefaultBranchFailure,
			Match: func(*github.WorkflowRunEvent) bool {
				return true
			},
		},
	}
	return _inst
}

// Branches returns the configured default branches.
func (f *Filter) Branches() []string {
	return slices.Clone(f.branches)
}

// Rules returns the rule list in evaluation order.
func (f *Filter) Rules() []Rule {
	return slices.Clone(f.rules)
}

// Decide evaluates the rules against event; the first matching rule wins.
func (f *Filter) Decide(event *github.WorkflowRunEvent) Decision {
	for _, r := range f.rules {
		if r.Match(event) {
			return decide(r, event)
		}
	}
	// unreachable: the last rule always matches
	return decide(f.rules[len(f.rules)-1], event)
}

func decide(r Rule, event *github.WorkflowRunEvent) Decision {
	d := Decision{Outcome: r.Outcome, Rule: r.Name}

	run := event.WorkflowRun
	switch r.Outcome {
	case SkipNoWorkflow:
		d.Acknowledgment = "Ok (no workflow)\n"
		return d
	case SkipNotConcluded:
		d.Acknowledgment = fmt.Sprintf("Received status '%s' for workflow '%s' (not concluded)\n", run.GetStatus(), run.GetName())
		return d
	}

	d.Acknowledgment = fmt.Sprintf("Received status '%s' for workflow '%s'\n", run.GetStatus(), run.GetName())
	if r.Outcome.Send() {
		repo := event.GetRepo()
		d.Notification = &Notification{
			Repository: repo.GetName(),
			FullName:   repo.GetFullName(),
			Event:      run.GetEvent(),
			Path:       run.GetPath(),
			Status:     run.GetStatus(),
			Conclusion: run.GetConclusion(),
			URL:        run.GetHTMLURL(),
		}
	}
	return d
}
