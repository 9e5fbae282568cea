package echo

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/farmcare/farmcare/api"
	"github.com/farmcare/farmcare/domain"
	"github.com/farmcare/farmcare/internal/geo"
	"github.com/farmcare/farmcare/services"
)

// RegisterHandler creates a new account.
func (fa *FarmCareAPI) RegisterHandler(c echo.Context) error {
	var req api.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request"})
	}

	user, err := fa.auth.Register(c.Request().Context(), services.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Password: req.Password,
		State:    req.State,
		Region:   req.Region,
		AdminKey: req.AdminKey,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, api.AuthResponse{User: user})
}

// LoginHandler authenticates a regular user by email or mobile.
func (fa *FarmCareAPI) LoginHandler(c echo.Context) error {
	return fa.login(c, fa.auth.Login)
}

// AdminLoginHandler authenticates an admin account.
func (fa *FarmCareAPI) AdminLoginHandler(c echo.Context) error {
	return fa.login(c, fa.auth.AdminLogin)
}

func (fa *FarmCareAPI) login(
	c echo.Context,
	authenticate func(ctx context.Context, loginID, password string) (string, *domain.User, error),
) error {
	var req api.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request"})
	}
	if req.LoginID == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "login_id and password are required"})
	}

	token, user, err := authenticate(c.Request().Context(), req.LoginID, req.Password)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, api.AuthResponse{Token: token, User: user})
}

// LogoutHandler revokes the caller's token. Local client state is cleared
// regardless of this call's outcome.
func (fa *FarmCareAPI) LogoutHandler(c echo.Context) error {
	if err := fa.auth.Logout(c.Request().Context(), requestToken(c)); err != nil {
		log.Warn().Err(err).Msg("Failed to revoke token on logout")
	}
	return c.JSON(http.StatusOK, echo.Map{})
}

// GetProfileHandler returns the caller's profile.
func (fa *FarmCareAPI) GetProfileHandler(c echo.Context) error {
	user, err := fa.auth.GetProfile(c.Request().Context(), requestClaims(c).UserID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, api.AuthResponse{User: user})
}

// UpdateProfileHandler applies a partial profile update.
func (fa *FarmCareAPI) UpdateProfileHandler(c echo.Context) error {
	var req api.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid_request"})
	}

	user, err := fa.auth.UpdateProfile(c.Request().Context(), requestClaims(c).UserID, services.UpdateProfileInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Mobile:          req.Mobile,
		State:           req.State,
		Region:          req.Region,
		NewPassword:     req.NewPassword,
		CurrentPassword: req.CurrentPassword,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, api.AuthResponse{User: user})
}

// ProfileImageHandler replaces the caller's avatar with an uploaded image.
func (fa *FarmCareAPI) ProfileImageHandler(c echo.Context) error {
	fileName, data, err := readImageForm(c)
	if err != nil {
		return serviceError(c, err)
	}

	contentType, err := services.ValidateImage(fileName, len(data))
	if err != nil {
		return serviceError(c, err)
	}

	url, key, err := fa.uploads.StoreProfileImage(c.Request().Context(), fileName, contentType, data)
	if err != nil {
		return serviceError(c, err)
	}

	user, err := fa.auth.SetProfileImage(c.Request().Context(), requestClaims(c).UserID, url, key)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, api.AuthResponse{User: user})
}

// StatesHandler lists the known states and their regions.
func (fa *FarmCareAPI) StatesHandler(c echo.Context) error {
	states := geo.States()
	regions := make(map[string][]string, len(states))
	for _, s := range states {
		r, _ := geo.Regions(s)
		regions[s] = r
	}
	return c.JSON(http.StatusOK, api.StatesResponse{States: states, Regions: regions})
}

// RegionsHandler lists the regions of the state given in the query.
func (fa *FarmCareAPI) RegionsHandler(c echo.Context) error {
	state := c.QueryParam("state")
	if state == "" {
		return jsonError(c, http.StatusBadRequest, errors.New("state parameter is required"))
	}
	regions, ok := geo.Regions(state)
	if !ok {
		return jsonError(c, http.StatusNotFound, errors.New("unknown state"))
	}
	return c.JSON(http.StatusOK, api.RegionsResponse{State: state, Regions: regions})
}

// readImageForm pulls the uploaded image out of a multipart form.
func readImageForm(c echo.Context) (string, []byte, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return "", nil, services.ErrUnsupportedImage
	}
	if fileHeader.Size > services.MaxUploadBytes {
		return "", nil, services.ErrImageTooLarge
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, services.MaxUploadBytes+1))
	if err != nil {
		return "", nil, err
	}
	if len(data) > services.MaxUploadBytes {
		return "", nil, services.ErrImageTooLarge
	}
	return fileHeader.Filename, data, nil
}
