package handlers

import (
	"errors"
	"net/http"

	"pacemaker_dcm/internal/models"
	"pacemaker_dcm/internal/protocol"
	"pacemaker_dcm/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusProgrammed = "programmed"

	errApplyParams     = "failed to program parameters"
	errReadBackParams  = "failed to read parameters from device"
	errStoredParams    = "failed to load stored parameters"
	errVerifyParams    = "verification exchange failed"
	errInvalidBodyPref = "invalid body: "
)

// @Summary      Program parameters
// @Description  Validates the full set locally, transmits it to the device and persists it on acknowledgement. Validation failures never reach the wire.
// @Tags         parameters
// @Accept       json
// @Produce      json
// @Param        body  body   models.ParameterSet  true  "Full parameter set"
// @Success      200   {object}  map[string]interface{}  "status, mode"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]interface{}  "violations"
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/parameters [post]
// @Security     BearerAuth
func (h *Handler) applyParameters(c *gin.Context) {
	var p models.ParameterSet
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	ctx := c.Request.Context()
	if err := h.services.Programmer.Apply(ctx, owner(c), p); err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"violations": ve.Violations})
			return
		}
		h.logAndJSONError(c, deviceErrorStatus(err), errApplyParams, "parameters_apply_failed", err, "mode", p.Mode)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": statusProgrammed, "mode": p.Mode})
}

// @Summary      Verify parameters
// @Description  Reads the device's copy for the set's mode and returns per-field mismatches against the submitted values. An empty list means the device matches.
// @Tags         parameters
// @Accept       json
// @Produce      json
// @Param        body  body   models.ParameterSet  true  "Expected parameter set"
// @Success      200   {object}  map[string]interface{}  "match, mismatches"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Failure      504   {object}  map[string]string
// @Router       /api/v1/parameters/verify [post]
// @Security     BearerAuth
func (h *Handler) verifyParameters(c *gin.Context) {
	var p models.ParameterSet
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errInvalidBodyPref + err.Error()})
		return
	}

	ctx := c.Request.Context()
	mismatches, err := h.services.Programmer.Verify(ctx, p)
	if err != nil {
		h.logAndJSONError(c, deviceErrorStatus(err), errVerifyParams, "parameters_verify_failed", err, "mode", p.Mode)
		return
	}
	if mismatches == nil {
		mismatches = []protocol.FieldMismatch{}
	}
	c.JSON(http.StatusOK, gin.H{
		"match":      len(mismatches) == 0,
		"mismatches": mismatches,
	})
}

// @Summary      Stored parameters
// @Description  Returns the caller's last-programmed set for a mode, or the documented defaults when none was saved.
// @Tags         parameters
// @Produce      json
// @Param        mode  path   string  true  "Pacing mode"  Enums(AOO,VOO,AAI,VVI,AOOR,VOOR,AAIR,VVIR,DDD,DDDR)
// @Success      200   {object}  models.ParameterSet
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]interface{}
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/parameters/{mode} [get]
// @Security     BearerAuth
func (h *Handler) storedParameters(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.services.Programmer.Stored(ctx, owner(c), c.Param("mode"))
	if err != nil {
		var ve *service.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"violations": ve.Violations})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errStoredParams, "parameters_stored_failed", err, "mode", c.Param("mode"))
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Read device parameters
// @Description  Queries the device for its live copy of the mode's parameter set.
// @Tags         parameters
// @Produce      json
// @Param        mode  path   string  true  "Pacing mode"  Enums(AOO,VOO,AAI,VVI,AOOR,VOOR,AAIR,VVIR,DDD,DDDR)
// @Success      200   {object}  models.ParameterSet
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Failure      504   {object}  map[string]string
// @Router       /api/v1/parameters/{mode}/device [get]
// @Security     BearerAuth
func (h *Handler) deviceParameters(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.services.Programmer.ReadBack(ctx, c.Param("mode"))
	if err != nil {
		h.logAndJSONError(c, deviceErrorStatus(err), errReadBackParams, "parameters_readback_failed", err, "mode", c.Param("mode"))
		return
	}
	c.JSON(http.StatusOK, p)
}
