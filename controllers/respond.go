package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/ordering-app/services"
	"github.com/yeremiapane/ordering-app/utils"
)

// respondServiceError memetakan taksonomi error service ke HTTP + error_code
// yang bisa dibedakan mesin. Tidak ada error tak terstruktur yang bocor ke
// client.
func respondServiceError(c *gin.Context, err error) {
	var (
		validation *services.ValidationError
		authz      *services.AuthorizationError
		conflict   *services.StateConflictError
		expired    *services.WindowExpiredError
		dependency *services.DependencyError
	)

	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		utils.RespondErrorCode(c, http.StatusNotFound, "not_found", err)
	case errors.As(err, &validation):
		utils.RespondErrorCode(c, http.StatusBadRequest, validation.Code, err)
	case errors.As(err, &authz):
		utils.RespondErrorCode(c, http.StatusForbidden, "forbidden", err)
	case errors.As(err, &conflict):
		utils.RespondErrorCode(c, http.StatusConflict, "invalid_state", err)
	case errors.As(err, &expired):
		utils.RespondErrorCode(c, http.StatusGone, "window_expired", err)
	case errors.As(err, &dependency):
		utils.RespondErrorCode(c, http.StatusServiceUnavailable, "dependency_failed", err)
	default:
		utils.RespondErrorCode(c, http.StatusInternalServerError, "internal", err)
	}
}
