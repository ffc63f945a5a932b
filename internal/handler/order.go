package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (h *Handler) GetOrders(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	orders, err := h.orderSvc.ListUserOrders(c.Request().Context(), actor.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	order, err := h.orderSvc.GetOrder(c.Request().Context(), actor.ID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, order)
}

func (h *Handler) Checkout(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	orders, err := h.orderSvc.Checkout(c.Request().Context(), actor.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, orders)
}
