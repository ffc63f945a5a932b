package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/readora/market-service/internal/model"
)

func (h *Handler) Categories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalogSvc.Categories())
}

func (h *Handler) GetBooks(c echo.Context) error {
	ctx := c.Request().Context()

	var filter model.BookFilter
	filter.Category = c.QueryParam("category")
	filter.Search = c.QueryParam("search")

	if authorIDParam := c.QueryParam("authorId"); authorIDParam != "" {
		authorID, err := strconv.Atoi(authorIDParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "authorId is invalid")
		}
		filter.AuthorID = &authorID
	}
	if featuredParam := c.QueryParam("featured"); featuredParam != "" {
		featured, err := strconv.ParseBool(featuredParam)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "featured is invalid")
		}
		filter.IsFeatured = &featured
	}

	books, err := h.catalogSvc.ListBooks(ctx, filter)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	book, err := h.catalogSvc.GetBook(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) CreateBook(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req model.CreateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.catalogSvc.CreateBook(c.Request().Context(), actor, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.UpdateBookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	book, err := h.catalogSvc.UpdateBook(c.Request().Context(), actor, id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.catalogSvc.DeleteBook(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) AuthorBooks(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	books, err := h.catalogSvc.AuthorBooks(c.Request().Context(), actor)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetReviews(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	reviews, err := h.catalogSvc.ListReviews(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *Handler) CreateReview(c echo.Context) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req model.CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	review, err := h.catalogSvc.CreateReview(c.Request().Context(), actor, id, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, review)
}

func pathID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id is invalid")
	}
	return id, nil
}
