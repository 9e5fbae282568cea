package echo

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/farmcare/farmcare/domain"
)

// --- Schemes ---

// ListSchemesHandler lists schemes, optionally filtered by state.
func (fa *FarmCareAPI) ListSchemesHandler(c echo.Context) error {
	schemes, err := fa.schemes.List(c.Request().Context(), c.QueryParam("state"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, schemes)
}

// CreateSchemeHandler adds a new scheme.
func (fa *FarmCareAPI) CreateSchemeHandler(c echo.Context) error {
	var scheme domain.Scheme
	if err := c.Bind(&scheme); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request"})
	}
	created, err := fa.schemes.Create(c.Request().Context(), &scheme)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateSchemeHandler applies a partial update to a scheme.
func (fa *FarmCareAPI) UpdateSchemeHandler(c echo.Context) error {
	fields, err := bindFields(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request"})
	}
	scheme, err := fa.schemes.Update(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, scheme)
}

// DeleteSchemeHandler removes a scheme.
func (fa *FarmCareAPI) DeleteSchemeHandler(c echo.Context) error {
	if err := fa.schemes.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Prices ---

// ListPricesHandler lists prices with trend annotations. Passing lat and lon
// also annotates distance and sorts nearest first.
func (fa *FarmCareAPI) ListPricesHandler(c echo.Context) error {
	filter := domain.PriceFilter{
		State:    c.QueryParam("state"),
		Region:   c.QueryParam("region"),
		CropName: c.QueryParam("crop"),
	}

	lat := parseCoord(c.QueryParam("lat"))
	lon := parseCoord(c.QueryParam("lon"))

	prices, err := fa.prices.List(c.Request().Context(), filter, lat, lon)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, prices)
}

// CreatePriceHandler adds a new price entry.
func (fa *FarmCareAPI) CreatePriceHandler(c echo.Context) error {
	var price domain.Price
	if err := c.Bind(&price); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request"})
	}
	created, err := fa.prices.Create(c.Request().Context(), &price)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdatePriceHandler applies a partial update to a price entry.
func (fa *FarmCareAPI) UpdatePriceHandler(c echo.Context) error {
	fields, err := bindFields(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request"})
	}
	price, err := fa.prices.Update(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, price)
}

// DeletePriceHandler removes a price entry.
func (fa *FarmCareAPI) DeletePriceHandler(c echo.Context) error {
	if err := fa.prices.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- Articles ---

// ListArticlesHandler lists articles, optionally filtered by category.
func (fa *FarmCareAPI) ListArticlesHandler(c echo.Context) error {
	articles, err := fa.articles.List(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, articles)
}

// GetArticleHandler returns a single article.
func (fa *FarmCareAPI) GetArticleHandler(c echo.Context) error {
	article, err := fa.articles.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, article)
}

// CreateArticleHandler adds a new article.
func (fa *FarmCareAPI) CreateArticleHandler(c echo.Context) error {
	var article domain.Article
	if err := c.Bind(&article); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request"})
	}
	created, err := fa.articles.Create(c.Request().Context(), &article)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateArticleHandler applies a partial update to an article.
func (fa *FarmCareAPI) UpdateArticleHandler(c echo.Context) error {
	fields, err := bindFields(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request"})
	}
	article, err := fa.articles.Update(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, article)
}

// DeleteArticleHandler removes an article.
func (fa *FarmCareAPI) DeleteArticleHandler(c echo.Context) error {
	if err := fa.articles.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// --- News ---

// ListNewsHandler lists all news entries.
func (fa *FarmCareAPI) ListNewsHandler(c echo.Context) error {
	items, err := fa.news.List(c.Request().Context())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetNewsHandler returns a single news entry.
func (fa *FarmCareAPI) GetNewsHandler(c echo.Context) error {
	item, err := fa.news.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// CreateNewsHandler adds a news entry.
func (fa *FarmCareAPI) CreateNewsHandler(c echo.Context) error {
	var item domain.News
	if err := c.Bind(&item); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request"})
	}
	created, err := fa.news.Create(c.Request().Context(), &item)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateNewsHandler applies a partial update to a news entry.
func (fa *FarmCareAPI) UpdateNewsHandler(c echo.Context) error {
	fields, err := bindFields(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request"})
	}
	item, err := fa.news.Update(c.Request().Context(), c.Param("id"), fields)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteNewsHandler removes a news entry.
func (fa *FarmCareAPI) DeleteNewsHandler(c echo.Context) error {
	if err := fa.news.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// bindFields binds a partial-update body into a plain field map, dropping
// fields that must not be client-settable.
func bindFields(c echo.Context) (map[string]any, error) {
	fields := map[string]any{}
	if err := c.Bind(&fields); err != nil {
		return nil, err
	}
	delete(fields, "_id")
	delete(fields, "id")
	delete(fields, "created_at")
	delete(fields, "updated_at")
	return fields, nil
}

func parseCoord(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
