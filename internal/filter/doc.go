// Package filter decodes workflow_run webhook payloads and decides, through an ordered rule list,
// whether a failure notification must be sent.
//
// Rules are evaluated top-down and the first match wins:
//
//	no-workflow                 workflow_run absent
//	not-concluded               workflow_run.conclusion absent
//	success                     conclusion == "success"
//	non-default-branch-failure  head_branch not a default branch
//	default-branch-failure      everything else (notification sent)
package filter
