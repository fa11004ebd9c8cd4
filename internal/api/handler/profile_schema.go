package handler

import "time"

// --- Request types ---

// upsertProfileRequest mirrors the flat body of the reference API: social
// links arrive as top-level fields, optional scalars as pointers so an
// omitted field is distinguishable from an empty one.
type upsertProfileRequest struct {
	Status string `json:"status" validate:"required"`
	Skills string `json:"skills" validate:"required"`

	Company        *string `json:"company"`
	Website        *string `json:"website"`
	Location       *string `json:"location"`
	Bio            *string `json:"bio"`
	GithubUsername *string `json:"githubusername"`

	Youtube   *string `json:"youtube"`
	Twitter   *string `json:"twitter"`
	Facebook  *string `json:"facebook"`
	Linkedin  *string `json:"linkedin"`
	Instagram *string `json:"instagram"`
}

type addExperienceRequest struct {
	Title       string     `json:"title"   validate:"required"`
	Company     string     `json:"company" validate:"required"`
	Location    string     `json:"location"`
	From        time.Time  `json:"from"    validate:"required"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description"`
}

type addEducationRequest struct {
	School       string     `json:"school"        validate:"required"`
	Degree       string     `json:"degree"        validate:"required"`
	FieldOfStudy string     `json:"fieldofstudy"  validate:"required"`
	From         time.Time  `json:"from"          validate:"required"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description"`
}

// --- Response types ---

type msgResponse struct {
	Msg string `json:"msg"`
}
