package sim

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/five82/koi/internal/feeder"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Status  string `json:"status" example:"error"`
	Message string `json:"message" example:"horário inválido"`
}

// FeedRequest is the body of POST /alimentar.
type FeedRequest struct {
	Refill feeder.RefillType `json:"refill" example:"ambos"`
}

// WiFiRequest is the body of POST /config-wifi.
type WiFiRequest struct {
	SSID     string `json:"ssid" example:"CasaAquario"`
	Password string `json:"password" example:"segredo123"`
}

// ScanResponse is the body of GET /scan-wifi.
type ScanResponse struct {
	Networks []feeder.WiFiNetwork `json:"redes"`
}

// Handler serves the feeder HTTP contract from a Device.
type Handler struct {
	dev *Device
}

// NewHandler wraps dev.
func NewHandler(dev *Device) *Handler {
	return &Handler{dev: dev}
}

// GetStatus godoc
// @Summary Device status
// @Description Full snapshot: identity, clock, refills, statistics and schedules.
// @Tags device
// @Produce json
// @Success 200 {object} feeder.DeviceStatus
// @Router /status [get]
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.dev.Status())
}

// GetNetwork godoc
// @Summary Network info
// @Tags network
// @Produce json
// @Success 200 {object} feeder.NetworkInfo
// @Router /ip [get]
func (h *Handler) GetNetwork(c *gin.Context) {
	c.JSON(http.StatusOK, h.dev.Network())
}

// ScanWiFi godoc
// @Summary Scan WiFi networks
// @Description Only meaningful while the feeder is in access point mode.
// @Tags network
// @Produce json
// @Success 200 {object} ScanResponse
// @Router /scan-wifi [get]
func (h *Handler) ScanWiFi(c *gin.Context) {
	c.JSON(http.StatusOK, ScanResponse{Networks: h.dev.Scan()})
}

// ConfigureWiFi godoc
// @Summary Join a WiFi network
// @Description The reply shape depends on the simulated firmware variant.
// @Tags network
// @Accept json
// @Produce json
// @Param request body WiFiRequest true "Credentials"
// @Success 200 {object} map[string]any
// @Failure 400 {object} ErrorResponse
// @Router /config-wifi [post]
func (h *Handler) ConfigureWiFi(c *gin.Context) {
	var req WiFiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "payload inválido: "+err.Error())
		return
	}
	reply, err := h.dev.ConfigureWiFi(req.SSID, req.Password)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, reply)
}

// Feed godoc
// @Summary Trigger a feeding
// @Tags feeding
// @Accept json
// @Produce json
// @Param request body FeedRequest true "Refill selector"
// @Success 200 {object} feeder.FeedResult
// @Failure 400 {object} ErrorResponse
// @Router /alimentar [post]
func (h *Handler) Feed(c *gin.Context) {
	var req FeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "payload inválido: "+err.Error())
		return
	}
	result, err := h.dev.Feed(req.Refill)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateConfig godoc
// @Summary Update device settings
// @Description Only the fields present in the body change.
// @Tags device
// @Accept json
// @Produce json
// @Param request body feeder.ConfigUpdate true "Partial settings"
// @Success 200 {object} feeder.Ack
// @Failure 400 {object} ErrorResponse
// @Router /configuracoes [put]
func (h *Handler) UpdateConfig(c *gin.Context) {
	var req feeder.ConfigUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "payload inválido: "+err.Error())
		return
	}
	h.dev.UpdateConfig(req)
	c.JSON(http.StatusOK, feeder.Ack{Status: "ok"})
}

// GetSchedule godoc
// @Summary Read one schedule
// @Tags schedules
// @Produce json
// @Param id query int true "Schedule ID"
// @Success 200 {object} feeder.Schedule
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /agendamento [get]
func (h *Handler) GetSchedule(c *gin.Context) {
	id, ok := scheduleID(c)
	if !ok {
		return
	}
	s, err := h.dev.Schedule(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// CreateSchedule godoc
// @Summary Create a schedule
// @Tags schedules
// @Accept json
// @Produce json
// @Param request body feeder.ScheduleInput true "Schedule"
// @Success 200 {object} feeder.CreateResult
// @Failure 400 {object} ErrorResponse
// @Router /agendamento [post]
func (h *Handler) CreateSchedule(c *gin.Context) {
	var req feeder.ScheduleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "payload inválido: "+err.Error())
		return
	}
	id, err := h.dev.CreateSchedule(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, feeder.CreateResult{Status: "ok", ID: id})
}

// UpdateSchedule godoc
// @Summary Update a schedule
// @Description Only the fields present in the body change.
// @Tags schedules
// @Accept json
// @Produce json
// @Param id query int true "Schedule ID"
// @Param request body feeder.SchedulePatch true "Partial schedule"
// @Success 200 {object} feeder.Ack
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /agendamento [put]
func (h *Handler) UpdateSchedule(c *gin.Context) {
	id, ok := scheduleID(c)
	if !ok {
		return
	}
	var req feeder.SchedulePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "payload inválido: "+err.Error())
		return
	}
	if err := h.dev.UpdateSchedule(id, req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, feeder.Ack{Status: "ok"})
}

// DeleteSchedule godoc
// @Summary Delete a schedule
// @Tags schedules
// @Produce json
// @Param id query int true "Schedule ID"
// @Success 200 {object} feeder.DeleteResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /agendamento [delete]
func (h *Handler) DeleteSchedule(c *gin.Context) {
	id, ok := scheduleID(c)
	if !ok {
		return
	}
	total, err := h.dev.DeleteSchedule(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, feeder.DeleteResult{Status: "ok", Total: total})
}

// GetHistory godoc
// @Summary Feeding history
// @Description Newest first, capped at the device history limit.
// @Tags feeding
// @Produce json
// @Success 200 {object} feeder.HistoryResponse
// @Router /historico [get]
func (h *Handler) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, h.dev.History())
}

// GetStatistics godoc
// @Summary Feeding statistics
// @Tags feeding
// @Produce json
// @Success 200 {object} feeder.Statistics
// @Router /estatisticas [get]
func (h *Handler) GetStatistics(c *gin.Context) {
	c.JSON(http.StatusOK, h.dev.Statistics())
}

func scheduleID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil || id <= 0 {
		badRequest(c, "id inválido")
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrScheduleMissing):
		c.JSON(http.StatusNotFound, ErrorResponse{Status: "error", Message: err.Error()})
	case errors.Is(err, ErrInvalidTime), errors.Is(err, ErrInvalidRefill),
		errors.Is(err, ErrInvalidInterval), errors.Is(err, ErrScheduleLimit):
		badRequest(c, err.Error())
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Status: "error", Message: "erro interno"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Status: "error", Message: msg})
}
