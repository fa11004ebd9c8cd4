package service

import (
	"strings"
	"time"

	"github.com/devconnector/profile-api/internal/core/ports"
)

// SkillsSplitMode controls how the comma-separated skills input is tokenized.
type SkillsSplitMode string

const (
	// SkillsSplitLenient keeps empty elements produced by stray commas, as
	// the reference implementation does ("a,,b" -> ["a","","b"]).
	SkillsSplitLenient SkillsSplitMode = "lenient"
	// SkillsSplitStrict drops empty elements after trimming.
	SkillsSplitStrict SkillsSplitMode = "strict"
)

// splitSkills tokenizes the raw skills string: split on commas, trim each
// element. Empty elements survive in lenient mode.
func splitSkills(raw string, mode SkillsSplitMode) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" && mode == SkillsSplitStrict {
			continue
		}
		skills = append(skills, p)
	}
	return skills
}

// buildProfileUpdate assembles the sparse update document for an upsert.
// Only supplied fields produce keys; social links use dotted keys so each
// platform merges independently. Pure: no storage involved.
func buildProfileUpdate(input ports.ProfileInput, mode SkillsSplitMode, now time.Time) ports.ProfileUpdate {
	update := ports.ProfileUpdate{"updated_at": now}

	setString := func(key string, v *string) {
		if v != nil {
			update[key] = *v
		}
	}

	setString("company", input.Company)
	setString("website", input.Website)
	setString("location", input.Location)
	setString("status", input.Status)
	setString("bio", input.Bio)
	setString("githubusername", input.GithubUsername)

	if input.Skills != nil {
		update["skills"] = splitSkills(*input.Skills, mode)
	}

	setString("social.youtube", input.Youtube)
	setString("social.twitter", input.Twitter)
	setString("social.facebook", input.Facebook)
	setString("social.linkedin", input.Linkedin)
	setString("social.instagram", input.Instagram)

	return update
}
