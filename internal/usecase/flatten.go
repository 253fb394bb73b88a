package usecase

import (
	"strings"

	"telegram-job-applier/internal/domain/model"
)

// FlattenProfile projects the structured profile into the flat field-name ->
// value map the form filler consumes. personal_info merges first, then
// work_authorization (later section wins on key collision). Technical skills
// collapse into a single "skills" key. Education, work experience and
// additional questions are deliberately excluded: no form field is
// auto-populated from multi-entry history sections.
func FlattenProfile(profile *model.UserProfile) map[string]string {
	flat := make(map[string]string)
	if profile == nil {
		return flat
	}
	for k, v := range profile.PersonalInfo {
		flat[k] = v
	}
	for k, v := range profile.WorkAuthorization {
		flat[k] = v
	}
	if profile.Skills != nil {
		flat["skills"] = strings.Join(profile.Skills.TechnicalSkills, ", ")
	}
	return flat
}
