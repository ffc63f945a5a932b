package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readora/market-service/internal/model"
)

func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	u, err := h.userSvc.Register(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.userSvc.Login(c.Request().Context(), req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Me(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	u, err := h.userSvc.Get(c.Request().Context(), actor.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *Handler) UpdateProfile(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req model.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	u, err := h.userSvc.UpdateProfile(c.Request().Context(), actor.ID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, u)
}
