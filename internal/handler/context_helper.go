package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/portfolio-api/internal/middleware"
	"github.com/noah-isme/portfolio-api/internal/models"
	"github.com/noah-isme/portfolio-api/internal/service"
	appErrors "github.com/noah-isme/portfolio-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.ClaimsFromContext(c)
}

// actorFromContext describes the caller for services that authorise and audit.
func actorFromContext(c *gin.Context) *service.Actor {
	claims := claimsFromContext(c)
	if claims == nil {
		return nil
	}
	return &service.Actor{Claims: claims, IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}

func kindParam(c *gin.Context) models.SubmissionKind {
	return models.SubmissionKind(c.Param("kind"))
}

func invalidPayload(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}
