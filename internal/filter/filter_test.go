package filter_test

import (
	"fmt"
	"testing"

	"github.com/isometry/gh-workflow-relay/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const payloadNoWorkflow = `{
  "action": "opened",
  "repository": {"name": "relay", "full_name": "isometry/relay"},
  "sender": {"login": "octocat", "id": 1}
}`

func workflowPayload(branch string, conclusion *string) string {
	c := "null"
	if conclusion != nil {
		c = fmt.Sprintf("%q", *conclusion)
	}
	return fmt.Sprintf(`{
  "action": "completed",
  "repository": {"name": "relay", "full_name": "isometry/relay", "private": false},
  "workflow_run": {
    "id": 42,
    "name": "CI",
    "head_branch": %q,
    "path": ".github/workflows/ci.yaml",
    "event": "push",
    "status": "completed",
    "conclusion": %s,
    "html_url": "https://github.com/isometry/relay/actions/runs/42"
  },
  "sender": {"login": "octocat", "id": 1, "type": "User"}
}`, branch, c)
}

func ptr(s string) *string { return &s }

func TestFilter_Decide(t *testing.T) {
	testCases := []struct {
		Name           string
		Payload        string
		Expected       filter.Outcome
		Acknowledgment string
	}{
		{
			Name:           "no_workflow",
			Payload:        payloadNoWorkflow,
			Expected:       filter.SkipNoWorkflow,
			Acknowledgment: "Ok (no workflow)\n",
		},
		{
			Name:           "null_workflow",
			Payload:        `{"repository": {"name": "r", "full_name": "o/r"}, "workflow_run": null, "sender": {"login": "l", "id": 2}}`,
			Expected:       filter.SkipNoWorkflow,
			Acknowledgment: "Ok (no workflow)\n",
		},
		{
			Name:           "not_concluded",
			Payload:        workflowPayload("main", nil),
			Expected:       filter.SkipNotConcluded,
			Acknowledgment: "Received status 'completed' for workflow 'CI' (not concluded)\n",
		},
		{
			Name:           "success_on_main",
			Payload:        workflowPayload("main", ptr("success")),
			Expected:       filter.SkipSuccess,
			Acknowledgment: "Received status 'completed' for workflow 'CI'\n",
		},
		{
			Name:           "success_on_feature_branch",
			Payload:        workflowPayload("feature/x", ptr("success")),
			Expected:       filter.SkipSuccess,
			Acknowledgment: "Received status 'completed' for workflow 'CI'\n",
		},
		{
			Name:           "failure_on_feature_branch",
			Payload:        workflowPayload("feature/x", ptr("failure")),
			Expected:       filter.SkipNonDefaultBranch,
			Acknowledgment: "Received status 'completed' for workflow 'CI'\n",
		},
		{
			Name:           "failure_on_main",
			Payload:        workflowPayload("main", ptr("failure")),
			Expected:       filter.SendDefaultBranchFailure,
			Acknowledgment: "Received status 'completed' for workflow 'CI'\n",
		},
		{
			Name:           "cancelled_on_master",
			Payload:        workflowPayload("master", ptr("cancelled")),
			Expected:       filter.SendDefaultBranchFailure,
			Acknowledgment: "Received status 'completed' for workflow 'CI'\n",
		},
		{
			Name:           "empty_conclusion_on_main",
			Payload:        workflowPayload("main", ptr("")),
			Expected:       filter.SendDefaultBranchFailure,
			Acknowledgment: "Received status 'completed' for workflow 'CI'\n",
		},
	}

	f := filter.New()
	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			event, err := filter.Decode([]byte(tc.Payload))
			require.NoError(t, err)

			d := f.Decide(event)
			assert.Equal(t, tc.Expected, d.Outcome)
			assert.Equal(t, tc.Acknowledgment, d.Acknowledgment)
			assert.Equal(t, tc.Expected.Send(), d.Notification != nil)
		})
	}
}

func TestFilter_DecideMatrix(t *testing.T) {
	f := filter.New()
	branches := []string{"main", "master", "develop", "Main", "refs/heads/main", "feature/main"}
	conclusions := []string{"success", "failure", "cancelled", "timed_out", "action_required", "neutral"}

	for _, b := range branches {
		for _, c := range conclusions {
			event, err := filter.Decode([]byte(workflowPayload(b, ptr(c))))
			require.NoError(t, err)

			d := f.Decide(event)
			switch {
			case c == "success":
				assert.Equal(t, filter.SkipSuccess, d.Outcome, "%s/%s", b, c)
			case b == "main" || b == "master":
				assert.Equal(t, filter.SendDefaultBranchFailure, d.Outcome, "%s/%s", b, c)
			default:
				assert.Equal(t, filter.SkipNonDefaultBranch, d.Outcome, "%s/%s", b, c)
				assert.Nil(t, d.Notification, "%s/%s", b, c)
			}
		}
	}
}

func TestFilter_Notification(t *testing.T) {
	event, err := filter.Decode([]byte(workflowPayload("main", ptr("failure"))))
	require.NoError(t, err)

	d := filter.New().Decide(event)
	require.NotNil(t, d.Notification)

	msg := d.Notification.Message()
	assert.Equal(t, `
Failure building repository relay (isometry/relay)
Event: push
Workflow path: .github/workflows/ci.yaml
Status: completed (failure)
Job: https://github.com/isometry/relay/actions/runs/42
`, msg)
}

func TestFilter_WithDefaultBranches(t *testing.T) {
	f := filter.New(filter.WithDefaultBranches("refs/heads/trunk", "release"))
	assert.Equal(t, []string{"trunk", "release"}, f.Branches())

	event, err := filter.Decode([]byte(workflowPayload("trunk", ptr("failure"))))
	require.NoError(t, err)
	assert.Equal(t, filter.SendDefaultBranchFailure, f.Decide(event).Outcome)

	event, err = filter.Decode([]byte(workflowPayload("main", ptr("failure"))))
	require.NoError(t, err)
	assert.Equal(t, filter.SkipNonDefaultBranch, f.Decide(event).Outcome)

	assert.Equal(t, filter.DefaultBranches, filter.New(filter.WithDefaultBranches()).Branches())
}

func TestFilter_RulesOrder(t *testing.T) {
	var names []string
	for _, r := range filter.New().Rules() {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{
		"no-workflow",
		"not-concluded",
		"success",
		"non-default-branch-failure",
		"default-branch-failure",
	}, names)
}

func TestOutcome_String(t *testing.T) {
	assert.Equal(t, "skip:no-workflow", filter.SkipNoWorkflow.String())
	assert.Equal(t, "send:default-branch-failure", filter.SendDefaultBranchFailure.String())
	assert.Equal(t, "outcome(99)", filter.Outcome(99).String())
}
