package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"pacemaker_dcm/internal/device"
	"pacemaker_dcm/internal/transport"

	"github.com/gin-gonic/gin"
)

// Common response/status constants to avoid magic strings and typos.
const (
	statusOK           = "ok"
	statusConnected    = "connected"
	statusDisconnected = "disconnected"

	errConnectDevice    = "failed to connect device"
	errDisconnectDevice = "failed to disconnect device"
	errListPorts        = "failed to list serial ports"
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// deviceErrorStatus maps session errors onto HTTP codes: a busy or closed
// link is a conflict with current state, silence and garbled replies are
// upstream failures.
func deviceErrorStatus(err error) int {
	switch {
	case errors.Is(err, device.ErrBusy), errors.Is(err, device.ErrLinkClosed):
		return http.StatusConflict
	case errors.Is(err, device.ErrNoResponse):
		return http.StatusGatewayTimeout
	case errors.Is(err, device.ErrUnexpected):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// owner returns the authenticated user's identity for persistence keys.
func owner(c *gin.Context) string {
	return strconv.Itoa(c.GetInt("userId"))
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Connect device
// @Tags         device
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/device/connect [post]
// @Security     BearerAuth
func (h *Handler) connectDevice(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.services.Programmer.Connect(ctx); err != nil {
		h.logAndJSONError(c, deviceErrorStatus(err), errConnectDevice, "device_connect_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusConnected})
}

// @Summary      Disconnect device
// @Tags         device
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/device/disconnect [post]
// @Security     BearerAuth
func (h *Handler) disconnectDevice(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.services.Telemetry.Stop(ctx); err != nil && h.log != nil {
		h.log.Infow("telemetry_stop_on_disconnect_failed", "err", err)
	}
	if err := h.services.Programmer.Disconnect(ctx); err != nil {
		h.logAndJSONError(c, deviceErrorStatus(err), errDisconnectDevice, "device_disconnect_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusDisconnected})
}

// @Summary      Device status
// @Tags         device
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "connected, telemetry"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/device/status [get]
// @Security     BearerAuth
func (h *Handler) deviceStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"connected": h.services.Programmer.Connected(),
		"telemetry": h.services.Telemetry.Status(),
	})
}

// @Summary      List serial ports
// @Tags         device
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "ports"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/device/ports [get]
// @Security     BearerAuth
func (h *Handler) listPorts(c *gin.Context) {
	ports := transport.AvailablePorts()
	if ports == nil {
		ports = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"ports": ports})
}
