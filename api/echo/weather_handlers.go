package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/farmcare/farmcare/api"
)

// WeatherHandler returns the weather report with derived farming guidance
// for the caller's coordinates.
func (fa *FarmCareAPI) WeatherHandler(c echo.Context) error {
	lat := parseCoord(c.QueryParam("lat"))
	lon := parseCoord(c.QueryParam("lon"))
	if lat == nil || lon == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "lat and lon query parameters are required"})
	}

	report, err := fa.weather.Report(c.Request().Context(), *lat, *lon)
	if err != nil {
		log.Error().Err(err).Msg("Weather lookup failed")
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "weather service unavailable"})
	}
	return c.JSON(http.StatusOK, report)
}

// UploadHandler stores a plant image and returns the classifier's analysis.
func (fa *FarmCareAPI) UploadHandler(c echo.Context) error {
	fileName, data, err := readImageForm(c)
	if err != nil {
		return serviceError(c, err)
	}

	upload, err := fa.uploads.Analyze(c.Request().Context(), requestClaims(c).UserID, fileName, data)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, upload)
}

// UploadHistoryHandler lists the caller's recent uploads.
func (fa *FarmCareAPI) UploadHistoryHandler(c echo.Context) error {
	uploads, total, err := fa.uploads.History(c.Request().Context(), requestClaims(c).UserID, 20)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, api.UploadHistoryResponse{Uploads: uploads, Total: total})
}
