package service

import (
	"strings"

	"peopleops/internal/model"
)

// leaveWBSPrefix marks auto-created leave elements.
const leaveWBSPrefix = "LV-"

// LeaveWBSCode derives the code of a project's leave WBS element from the
// project code, falling back to the first eight characters of the project id
// when the project has no code. Pure function so the naming rule is testable
// without storage.
func LeaveWBSCode(project *model.Project) string {
	if project.Code != "" {
		return leaveWBSPrefix + strings.ToUpper(project.Code)
	}
	return leaveWBSPrefix + project.ID.String()[:8]
}
