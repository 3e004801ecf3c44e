package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/keyfleet/keyfleet/internal/httputil"
	"github.com/keyfleet/keyfleet/internal/models"
)

// respondError writes the standard {"detail": ...} error envelope.
func respondError(c *gin.Context, status int, detail string) {
	httputil.RespondError(c, status, detail)
}

var notFoundErrs = []error{
	models.ErrTeamNotFound,
	models.ErrUserNotFound,
	models.ErrKeyNotFound,
	models.ErrRegionNotFound,
	models.ErrProductNotFound,
	models.ErrLimitNotFound,
}

var badRequestErrs = []error{
	models.ErrMissingName,
	models.ErrMissingEmail,
	models.ErrMissingRegion,
	models.ErrMissingHost,
	models.ErrMissingProductID,
	models.ErrMissingOwner,
	models.ErrAmbiguousOwner,
	models.ErrInvalidRole,
	models.ErrInvalidUnit,
	models.ErrInvalidDuration,
	models.ErrTeamDeleted,
	models.ErrRegionInactive,
	models.ErrRegionNotAllowed,
	models.ErrMergeSelf,
}

// respondDomainError maps domain sentinel errors onto HTTP statuses. The
// sentinel messages are written for end users, so they pass through as the
// detail string. Anything unmapped is a 500 with a generic detail.
func respondDomainError(c *gin.Context, log *logrus.Logger, err error, operation string) {
	for _, sentinel := range notFoundErrs {
		if errors.Is(err, sentinel) {
			respondError(c, http.StatusNotFound, sentinel.Error())
			return
		}
	}
	for _, sentinel := range badRequestErrs {
		if errors.Is(err, sentinel) {
			respondError(c, http.StatusBadRequest, sentinel.Error())
			return
		}
	}
	if errors.Is(err, models.ErrDuplicateKey) {
		respondError(c, http.StatusConflict, "a record with these values already exists")
		return
	}

	log.WithError(err).Error(operation)
	respondError(c, http.StatusInternalServerError, "internal server error")
}
