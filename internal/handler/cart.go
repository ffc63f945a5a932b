package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readora/market-service/internal/model"
)

func (h *Handler) GetCart(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	entries, err := h.cartSvc.ListWithBooks(c.Request().Context(), actor.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *Handler) AddCartItem(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req model.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	item, err := h.cartSvc.Add(c.Request().Context(), actor.ID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, item)
}

// RemoveCartItem is idempotent, deleting an already-removed row still
// answers 204.
func (h *Handler) RemoveCartItem(c echo.Context) error {
	if _, err := actorFromContext(c); err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if _, err := h.cartSvc.Remove(c.Request().Context(), id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ClearCart(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.cartSvc.Clear(c.Request().Context(), actor.ID); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
