package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devconnector/profile-api/internal/api/metrics"
	"github.com/devconnector/profile-api/internal/core/domain"
	"github.com/devconnector/profile-api/internal/core/ports"
)

// ProfileHandler handles all profile routes, public and private.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// Me returns the authenticated caller's profile.
//
// @Summary      Get the current user's profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Profile
// @Failure      400  {object}  msgResponse
// @Failure      401  {object}  msgResponse
// @Router       /api/profile/me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.service.GetCurrent(c.Request().Context(), owner)
	if err != nil {
		if errors.Is(err, domain.ErrProfileNotFound) {
			return c.JSON(http.StatusBadRequest, msgResponse{Msg: "There is no profile for this user"})
		}
		return err
	}

	return c.JSON(http.StatusOK, profile)
}

// ByUser returns a profile by its owning user id. Public.
//
// @Summary      Get a profile by user id
// @Tags         profile
// @Produce      json
// @Param        user_id  path      string  true  "User id"
// @Success      200      {object}  domain.Profile
// @Failure      400      {object}  msgResponse
// @Router       /api/profile/user/{user_id} [get]
func (h *ProfileHandler) ByUser(c echo.Context) error {
	profile, err := h.service.GetByUser(c.Request().Context(), c.Param("user_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}

// List returns all profiles. Public.
//
// @Summary      List all profiles
// @Tags         profile
// @Produce      json
// @Success      200  {array}  domain.Profile
// @Router       /api/profile [get]
func (h *ProfileHandler) List(c echo.Context) error {
	profiles, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profiles)
}

// Upsert creates the caller's profile or merge-updates an existing one.
//
// @Summary      Create or update the current user's profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      upsertProfileRequest  true  "Profile fields"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  msgResponse
// @Router       /api/profile [post]
func (h *ProfileHandler) Upsert(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req upsertProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.service.Upsert(c.Request().Context(), owner, toProfileInput(req))
	if err != nil {
		return err
	}

	metrics.ProfileMutationsTotal.WithLabelValues("upsert").Inc()
	return c.JSON(http.StatusOK, profile)
}

// AddExperience prepends a work-history entry to the caller's profile.
//
// @Summary      Add a work experience entry
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addExperienceRequest  true  "Experience entry"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  msgResponse
// @Router       /api/profile/experience [put]
func (h *ProfileHandler) AddExperience(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req addExperienceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.service.AddExperience(c.Request().Context(), owner, toExperienceInput(req))
	if err != nil {
		return err
	}

	metrics.ProfileMutationsTotal.WithLabelValues("add_experience").Inc()
	return c.JSON(http.StatusOK, profile)
}

// RemoveExperience deletes the entry with the given id from the caller's
// profile. An unknown id leaves the profile unchanged and still returns it.
//
// @Summary      Remove a work experience entry
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        exp_id  path      string  true  "Experience entry id"
// @Success      200     {object}  domain.Profile
// @Failure      400     {object}  msgResponse
// @Failure      401     {object}  msgResponse
// @Router       /api/profile/experience/{exp_id} [delete]
func (h *ProfileHandler) RemoveExperience(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.service.RemoveExperience(c.Request().Context(), owner, c.Param("exp_id"))
	if err != nil {
		return err
	}

	metrics.ProfileMutationsTotal.WithLabelValues("remove_experience").Inc()
	return c.JSON(http.StatusOK, profile)
}

// AddEducation prepends a schooling entry to the caller's profile.
//
// @Summary      Add an education entry
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addEducationRequest  true  "Education entry"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  map[string]any
// @Failure      401   {object}  msgResponse
// @Router       /api/profile/education [put]
func (h *ProfileHandler) AddEducation(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	var req addEducationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	profile, err := h.service.AddEducation(c.Request().Context(), owner, toEducationInput(req))
	if err != nil {
		return err
	}

	metrics.ProfileMutationsTotal.WithLabelValues("add_education").Inc()
	return c.JSON(http.StatusOK, profile)
}

// RemoveEducation deletes the entry with the given id, mirroring
// RemoveExperience.
//
// @Summary      Remove an education entry
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Param        edu_id  path      string  true  "Education entry id"
// @Success      200     {object}  domain.Profile
// @Failure      400     {object}  msgResponse
// @Failure      401     {object}  msgResponse
// @Router       /api/profile/education/{edu_id} [delete]
func (h *ProfileHandler) RemoveEducation(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	profile, err := h.service.RemoveEducation(c.Request().Context(), owner, c.Param("edu_id"))
	if err != nil {
		return err
	}

	metrics.ProfileMutationsTotal.WithLabelValues("remove_education").Inc()
	return c.JSON(http.StatusOK, profile)
}

// DeleteAccount removes the caller's profile and user record.
//
// @Summary      Delete the current user and profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  msgResponse
// @Failure      400  {object}  msgResponse
// @Failure      401  {object}  msgResponse
// @Router       /api/profile [delete]
func (h *ProfileHandler) DeleteAccount(c echo.Context) error {
	owner, err := ctxUserID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteAccount(c.Request().Context(), owner); err != nil {
		return err
	}

	metrics.ProfileMutationsTotal.WithLabelValues("delete_account").Inc()
	return c.JSON(http.StatusOK, msgResponse{Msg: "User deleted"})
}
