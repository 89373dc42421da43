package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/aasanchez0794/Angelito-Familiar/internal/metrics"
	"github.com/aasanchez0794/Angelito-Familiar/internal/services"
	"github.com/aasanchez0794/Angelito-Familiar/internal/ws"

	"github.com/gin-gonic/gin"
)

type ParticipantHandler struct {
	exchange *services.ExchangeService
	store    *services.ParticipantService
	hub      *ws.Hub
}

func NewParticipantHandler(exchange *services.ExchangeService, store *services.ParticipantService, hub *ws.Hub) *ParticipantHandler {
	return &ParticipantHandler{exchange: exchange, store: store, hub: hub}
}

type RegisterRequest struct {
	Phone string `json:"phone" binding:"required" example:"8091234567"`
}

type RegisterResponse struct {
	Name   string `json:"name"`
	WasNew bool   `json:"was_new"`
	// PIN is present only on the first-ever registration. It is never
	// returned again; a participant who loses it needs the organizer.
	PIN string `json:"pin,omitempty"`
}

type CredentialsRequest struct {
	Phone string `json:"phone" binding:"required" example:"8091234567"`
	PIN   string `json:"pin" example:"123456"`
}

type ValidateResponse struct {
	Status string `json:"status"`
	Name   string `json:"name,omitempty"`
}

type RevealResponse struct {
	Name          string    `json:"name"`
	RecipientName string    `json:"recipient_name"`
	RevealedAt    time.Time `json:"revealed_at"`
}

// Register godoc
// @Summary      Register a participant
// @Description  Register by phone; the PIN is returned only on first registration
// @Tags         exchange
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration data"
// @Success      200 {object} RegisterResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/register [post]
func (h *ParticipantHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.exchange.Register(req.Phone)
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "that phone is not on the participant list"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := RegisterResponse{Name: result.Name, WasNew: result.WasNew}
	if result.WasNew {
		resp.PIN = result.PIN
		metrics.Registrations.Inc()
		h.hub.Broadcast(ws.Event{
			Type: "participant_registered",
			Data: gin.H{"name": result.Name},
		})
	}

	c.JSON(http.StatusOK, resp)
}

// Validate godoc
// @Summary      Validate phone and PIN
// @Tags         exchange
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Credentials"
// @Success      200 {object} ValidateResponse
// @Failure      401 {object} ValidateResponse
// @Router       /api/v1/validate [post]
func (h *ParticipantHandler) Validate(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	status, name, err := h.exchange.ValidateCredentials(req.Phone, req.PIN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	if status == services.CredentialBadPIN {
		metrics.BadPINAttempts.Inc()
	}
	c.JSON(credentialHTTPStatus(status), ValidateResponse{Status: string(status), Name: name})
}

// Reveal godoc
// @Summary      Reveal the assigned recipient
// @Description  Requires valid phone+PIN; repeat calls return the same result
// @Tags         exchange
// @Accept       json
// @Produce      json
// @Param        request body CredentialsRequest true "Credentials"
// @Success      200 {object} RevealResponse
// @Failure      401 {object} ValidateResponse
// @Router       /api/v1/reveal [post]
func (h *ParticipantHandler) Reveal(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	status, name, result, err := h.exchange.Reveal(req.Phone, req.PIN)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	if status != services.CredentialOK {
		if status == services.CredentialBadPIN {
			metrics.BadPINAttempts.Inc()
		}
		c.JSON(credentialHTTPStatus(status), ValidateResponse{Status: string(status), Name: name})
		return
	}

	if result.First {
		metrics.Reveals.Inc()
		h.hub.Broadcast(ws.Event{
			Type: "assignment_revealed",
			Data: gin.H{"name": name},
		})
	}

	c.JSON(http.StatusOK, RevealResponse{
		Name:          name,
		RecipientName: result.RecipientName,
		RevealedAt:    result.RevealedAt,
	})
}

// GetStats godoc
// @Summary      Exchange progress counts
// @Tags         exchange
// @Produce      json
// @Success      200 {object} services.Stats
// @Router       /api/v1/stats [get]
func (h *ParticipantHandler) GetStats(c *gin.Context) {
	stats, err := h.store.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func credentialHTTPStatus(status services.CredentialStatus) int {
	switch status {
	case services.CredentialOK:
		return http.StatusOK
	case services.CredentialNotFound:
		return http.StatusNotFound
	case services.CredentialNotRegistered:
		return http.StatusConflict
	case services.CredentialBadPIN:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
