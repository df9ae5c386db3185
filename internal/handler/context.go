package handler

import (
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"pollbox/internal/auth"
	"pollbox/internal/model"
	"pollbox/internal/service"
)

// sessionClaims extracts JWT claims from the request context. Claims arrive
// either as a *jwt.Token with map claims (echo-jwt secured routes, which run
// on golang-jwt v5) or as *auth.Claims (optional-auth routes). Returns nil
// for anonymous requests.
func sessionClaims(c echo.Context) *auth.Claims {
	switch v := c.Get("user").(type) {
	case *jwtv5.Token:
		mapClaims, ok := v.Claims.(jwtv5.MapClaims)
		if !ok {
			return nil
		}
		rawID, _ := mapClaims["user_id"].(string)
		userID, err := uuid.Parse(rawID)
		if err != nil {
			return nil
		}
		email, _ := mapClaims["email"].(string)
		return &auth.Claims{UserID: userID, Email: email}
	case *auth.Claims:
		return v
	}
	return nil
}

// resolveCaller re-derives the caller's user record from the session claims
// on every request. The role comes from the freshly loaded record, never
// from the token.
func resolveCaller(c echo.Context, authService service.AuthService) (*model.User, error) {
	claims := sessionClaims(c)
	if claims == nil {
		return nil, nil
	}
	return authService.CurrentUser(c.Request().Context(), claims.UserID)
}
