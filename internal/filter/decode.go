package filter

import (
	"encoding/json"
	"fmt"

	"github.com/google/go-github/v84/github"
	"github.com/pkg/errors"
)

// DecodeError reports a payload that is not valid JSON or lacks a required field.
type DecodeError struct {
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid webhook payload: %v", e.Cause)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Decode parses body as a workflow_run webhook event. Unknown fields are ignored.
// repository and sender are required; workflow_run and its conclusion are optional,
// but a present workflow_run must carry its identifying fields.
func Decode(body []byte) (*github.WorkflowRunEvent, error) {
	var event github.WorkflowRunEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return nil, &DecodeError{Cause: errors.Wrap(err, "failed to unmarshal payload")}
	}
	if err := validate(&event); err != nil {
		return nil, &DecodeError{Cause: err}
	}
	return &event, nil
}

func validate(event *github.WorkflowRunEvent) error {
	repo := event.Repo
	if repo == nil {
		return missing("repository")
	}
	if repo.Name == nil {
		return missing("repository.name")
	}
	if repo.FullName == nil {
		return missing("repository.full_name")
	}

	sender := event.Sender
	if sender == nil {
		return missing("sender")
	}
	if sender.Login == nil {
		return missing("sender.login")
	}
	if sender.ID == nil {
		return missing("sender.id")
	}

	run := event.WorkflowRun
	if run == nil {
		return nil
	}
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"workflow_run.name", run.Name},
		{"workflow_run.head_branch", run.HeadBranch},
		{"workflow_run.path", run.Path},
		{"workflow_run.event", run.Event},
		{"workflow_run.status", run.Status},
		{"workflow_run.html_url", run.HTMLURL},
	} {
		if f.value == nil {
			return missing(f.name)
		}
	}
	return nil
}

func missing(field string) error {
	return errors.Errorf("missing field %q", field)
}
