package handler

import (
	"github.com/devconnector/profile-api/internal/core/ports"
)

func toProfileInput(req upsertProfileRequest) ports.ProfileInput {
	return ports.ProfileInput{
		Status: &req.Status,
		Skills: &req.Skills,

		Company:        req.Company,
		Website:        req.Website,
		Location:       req.Location,
		Bio:            req.Bio,
		GithubUsername: req.GithubUsername,

		Youtube:   req.Youtube,
		Twitter:   req.Twitter,
		Facebook:  req.Facebook,
		Linkedin:  req.Linkedin,
		Instagram: req.Instagram,
	}
}

func toExperienceInput(req addExperienceRequest) ports.ExperienceInput {
	return ports.ExperienceInput{
		Title:       req.Title,
		Company:     req.Company,
		Location:    req.Location,
		From:        req.From,
		To:          req.To,
		Current:     req.Current,
		Description: req.Description,
	}
}

func toEducationInput(req addEducationRequest) ports.EducationInput {
	return ports.EducationInput{
		School:       req.School,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		From:         req.From,
		To:           req.To,
		Current:      req.Current,
		Description:  req.Description,
	}
}
