package usecase

import (
	"testing"

	"telegram-job-applier/internal/domain/model"
)

func TestFlattenProfile(t *testing.T) {
	t.Run("merges sections and joins skills", func(t *testing.T) {
		profile := &model.UserProfile{
			PersonalInfo: map[string]string{
				"full_name": "Ada Lovelace",
				"email":     "ada@example.com",
			},
			WorkAuthorization: map[string]string{
				"work_authorization_status": "citizen",
			},
			Skills: &model.Skills{TechnicalSkills: []string{"Go", "SQL"}},
		}

		flat := FlattenProfile(profile)

		if flat["email"] != "ada@example.com" {
			t.Fatalf("email: got %q", flat["email"])
		}
		if flat["work_authorization_status"] != "citizen" {
			t.Fatalf("work_authorization_status: got %q", flat["work_authorization_status"])
		}
		if flat["skills"] != "Go, SQL" {
			t.Fatalf("skills: want %q, got %q", "Go, SQL", flat["skills"])
		}
	})

	t.Run("later section wins on key collision", func(t *testing.T) {
		profile := &model.UserProfile{
			PersonalInfo:      map[string]string{"country": "US"},
			WorkAuthorization: map[string]string{"country": "CA"},
		}
		if got := FlattenProfile(profile)["country"]; got != "CA" {
			t.Fatalf("want work_authorization to win, got %q", got)
		}
	})

	t.Run("empty skills section still yields a skills key", func(t *testing.T) {
		profile := &model.UserProfile{Skills: &model.Skills{}}
		flat := FlattenProfile(profile)
		if v, ok := flat["skills"]; !ok || v != "" {
			t.Fatalf("want empty skills value present, got %q (present=%v)", v, ok)
		}
	})

	t.Run("missing sections are simply absent", func(t *testing.T) {
		flat := FlattenProfile(&model.UserProfile{})
		if len(flat) != 0 {
			t.Fatalf("want empty map, got %v", flat)
		}
		if _, ok := flat["skills"]; ok {
			t.Fatalf("skills key must be absent without a skills section")
		}
	})

	t.Run("nil profile flattens to empty map", func(t *testing.T) {
		if flat := FlattenProfile(nil); len(flat) != 0 {
			t.Fatalf("want empty map, got %v", flat)
		}
	})

	t.Run("multi-entry sections are never flattened", func(t *testing.T) {
		profile := &model.UserProfile{
			Education:      []model.Education{{Institution: "MIT"}},
			WorkExperience: []model.WorkExperience{{Company: "Acme"}},
		}
		if flat := FlattenProfile(profile); len(flat) != 0 {
			t.Fatalf("education/work_experience must not leak into form data: %v", flat)
		}
	})
}
