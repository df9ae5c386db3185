package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"pollbox/internal/errors"
	"pollbox/internal/model"
	"pollbox/internal/service"
)

// PollHandler handles poll endpoints.
type PollHandler struct {
	pollService service.PollService
	authService service.AuthService
}

// NewPollHandler creates a new poll handler.
func NewPollHandler(pollService service.PollService, authService service.AuthService) *PollHandler {
	return &PollHandler{pollService: pollService, authService: authService}
}

// PollRequest carries poll content for create and update. It binds both JSON
// bodies and the form shape the pages submit: one question value and
// repeated options values.
type PollRequest struct {
	Question string   `json:"question" form:"question"`
	Options  []string `json:"options" form:"options"`
	IsPublic bool     `json:"is_public" form:"is_public"`
}

// VoteRequest carries the chosen option index.
type VoteRequest struct {
	OptionIndex int `json:"option_index" form:"option_index"`
}

// PollListResponse pairs a poll list with an optional error message, the
// shape the listing pages render.
type PollListResponse struct {
	Polls []model.Poll `json:"polls"`
	Error string       `json:"error,omitempty"`
}

func pollError(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func pollID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, pollError(errors.ErrPollNotFound)
	}
	return id, nil
}

// Create godoc
// @Summary Create a poll
// @Tags polls
// @Accept json
// @Produce json
// @Param request body PollRequest true "Poll content"
// @Success 201 {object} model.Poll
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /polls [post]
func (h *PollHandler) Create(c echo.Context) error {
	var req PollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		return pollError(err)
	}

	poll, err := h.pollService.Create(c.Request().Context(), caller, req.Question, req.Options, req.IsPublic)
	if err != nil {
		return pollError(err)
	}
	return c.JSON(http.StatusCreated, poll)
}

// Get godoc
// @Summary Get a poll by ID
// @Tags polls
// @Produce json
// @Param id path string true "Poll ID"
// @Success 200 {object} model.Poll
// @Failure 404 {object} errors.ErrorResponse
// @Router /polls/{id} [get]
func (h *PollHandler) Get(c echo.Context) error {
	id, err := pollID(c)
	if err != nil {
		return err
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		return pollError(err)
	}

	poll, err := h.pollService.Get(c.Request().Context(), caller, id)
	if err != nil {
		return pollError(err)
	}
	return c.JSON(http.StatusOK, poll)
}

// ListPublic godoc
// @Summary List recent public polls
// @Tags polls
// @Produce json
// @Success 200 {object} PollListResponse
// @Router /polls [get]
func (h *PollHandler) ListPublic(c echo.Context) error {
	polls, err := h.pollService.ListPublic(c.Request().Context())
	if err != nil {
		return pollError(err)
	}
	return c.JSON(http.StatusOK, PollListResponse{Polls: polls})
}

// Dashboard godoc
// @Summary List the caller's polls
// @Tags polls
// @Produce json
// @Success 200 {object} PollListResponse
// @Router /dashboard/polls [get]
func (h *PollHandler) Dashboard(c echo.Context) error {
	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		return pollError(err)
	}

	polls, err := h.pollService.ListOwned(c.Request().Context(), caller)
	if err != nil {
		return pollError(err)
	}
	return c.JSON(http.StatusOK, PollListResponse{Polls: polls})
}

// AdminList godoc
// @Summary List all polls, private ones included
// @Tags admin
// @Produce json
// @Success 200 {object} PollListResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/polls [get]
func (h *PollHandler) AdminList(c echo.Context) error {
	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		return pollError(err)
	}

	polls, err := h.pollService.ListAll(c.Request().Context(), caller)
	if err != nil {
		// The admin page renders an empty list alongside the error.
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, PollListResponse{Polls: []model.Poll{}, Error: httpErr.Message})
	}
	return c.JSON(http.StatusOK, PollListResponse{Polls: polls})
}

// Update godoc
// @Summary Update a poll's content
// @Tags polls
// @Accept json
// @Produce json
// @Param id path string true "Poll ID"
// @Param request body PollRequest true "Poll content"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /polls/{id} [put]
func (h *PollHandler) Update(c echo.Context) error {
	id, err := pollID(c)
	if err != nil {
		return err
	}

	var req PollRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		return pollError(err)
	}

	if err := h.pollService.Update(c.Request().Context(), caller, id, req.Question, req.Options); err != nil {
		return pollError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "poll updated"})
}

// Delete godoc
// @Summary Delete a poll
// @Tags polls
// @Produce json
// @Param id path string true "Poll ID"
// @Success 200 {object} map[string]string
// @Failure 401 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /polls/{id} [delete]
func (h *PollHandler) Delete(c echo.Context) error {
	id, err := pollID(c)
	if err != nil {
		return err
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		return pollError(err)
	}

	if err := h.pollService.Delete(c.Request().Context(), caller, id); err != nil {
		return pollError(err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "poll deleted"})
}

// Vote godoc
// @Summary Vote on a poll
// @Tags polls
// @Accept json
// @Produce json
// @Param id path string true "Poll ID"
// @Param request body VoteRequest true "Chosen option"
// @Success 201 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /polls/{id}/vote [post]
func (h *PollHandler) Vote(c echo.Context) error {
	id, err := pollID(c)
	if err != nil {
		return err
	}

	var req VoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		return pollError(err)
	}

	if err := h.pollService.SubmitVote(c.Request().Context(), caller, id, req.OptionIndex); err != nil {
		return pollError(err)
	}
	return c.JSON(http.StatusCreated, map[string]string{"message": "vote recorded"})
}

// Results godoc
// @Summary Get vote tallies for a poll
// @Tags polls
// @Produce json
// @Param id path string true "Poll ID"
// @Success 200 {object} service.PollResults
// @Failure 404 {object} errors.ErrorResponse
// @Router /polls/{id}/results [get]
func (h *PollHandler) Results(c echo.Context) error {
	id, err := pollID(c)
	if err != nil {
		return err
	}

	caller, err := resolveCaller(c, h.authService)
	if err != nil {
		return pollError(err)
	}

	results, err := h.pollService.Results(c.Request().Context(), caller, id)
	if err != nil {
		return pollError(err)
	}
	return c.JSON(http.StatusOK, results)
}
