package api

import (
	"net/http"
	"strconv"
	"strings"

	"tour-booking/internal/handler/httperr"
	"tour-booking/internal/handler/middleware"
	"tour-booking/internal/pkg/civil"
	"tour-booking/internal/pkg/errs"
	"tour-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errNoCaller = errs.New("caller missing from context")

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errs.Validation(name, "Must be a valid UUID")
	}
	return id, nil
}

func dateQuery(c *gin.Context, name string) (civil.Date, error) {
	raw := c.Query(name)
	if raw == "" {
		return civil.Date{}, errs.Validation(name, "Date is required")
	}
	d, err := civil.ParseDate(raw)
	if err != nil {
		return civil.Date{}, errs.Validation(name, "Date must use the YYYY-MM-DD format")
	}
	return d, nil
}

// intQuery returns def when the parameter is absent.
func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.Validation(name, "Must be an integer")
	}
	return n, nil
}

func uuidListQuery(c *gin.Context, name string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, raw := range c.QueryArray(name) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return nil, errs.Validation(name, "Every id must be a valid UUID")
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// caller aborts with 401 when authentication did not run.
func caller(c *gin.Context) (shared.Caller, bool) {
	cl, ok := middleware.GetCaller(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errNoCaller, "Access token required", nil)
	}
	return cl, ok
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return false
	}
	return true
}
