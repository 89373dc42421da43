package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/aasanchez0794/Angelito-Familiar/internal/models"
	"github.com/aasanchez0794/Angelito-Familiar/internal/services"

	"github.com/gin-gonic/gin"
	qrcode "github.com/skip2/go-qrcode"
)

type AdminHandler struct {
	auth      *services.AdminAuthService
	store     *services.ParticipantService
	roster    map[string]string // phone -> name
	publicURL string
}

func NewAdminHandler(auth *services.AdminAuthService, store *services.ParticipantService, roster []models.RosterEntry, publicURL string) *AdminHandler {
	phones := make(map[string]string, len(roster))
	for _, entry := range roster {
		phones[entry.Phone] = entry.Name
	}
	return &AdminHandler{auth: auth, store: store, roster: phones, publicURL: publicURL}
}

// A roster phone with no store row means the store and the roster have
// drifted apart (reseeded store, edited roster file). That is an operator
// problem, not a typo, so it is logged before the lookup reports not-found.
func (h *AdminHandler) logIfDesynced(phone string) {
	if name, ok := h.roster[phone]; ok {
		log.Printf("admin lookup: roster phone %s (%s) has no store row, store and roster are out of sync", phone, name)
	}
}

type LoginRequest struct {
	Password string `json:"password" binding:"required" example:"ADMIN2026"`
}

type AuthResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

type ParticipantPINResponse struct {
	Name       string `json:"name"`
	PIN        string `json:"pin,omitempty"`
	Registered bool   `json:"registered"`
}

type OverviewEntry struct {
	Name          string `json:"name"`
	Phone         string `json:"phone"`
	Registered    bool   `json:"registered"`
	Revealed      bool   `json:"revealed"`
	RecipientName string `json:"recipient_name"`
}

// Login godoc
// @Summary      Organizer login
// @Description  Exchange the shared organizer secret for a JWT
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login data"
// @Success      200 {object} AuthResponse
// @Failure      401 {object} ErrorResponse
// @Router       /api/v1/admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Token: token})
}

// GetPIN godoc
// @Summary      Look up a participant's PIN
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        phone path string true "Participant phone"
// @Success      200 {object} ParticipantPINResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/participants/{phone}/pin [get]
func (h *AdminHandler) GetPIN(c *gin.Context) {
	phone := services.NormalizeDigits(c.Param("phone"))
	if phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "phone required"})
		return
	}

	p, err := h.store.Fetch(phone)
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			h.logIfDesynced(phone)
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "phone not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	resp := ParticipantPINResponse{Name: p.Name, Registered: p.Registered()}
	if p.PIN != nil {
		resp.PIN = *p.PIN
	}
	c.JSON(http.StatusOK, resp)
}

// ResetPIN godoc
// @Summary      Generate a new PIN for a participant
// @Description  Overwrites the stored PIN regardless of registration or reveal state
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        phone path string true "Participant phone"
// @Success      200 {object} ParticipantPINResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/admin/participants/{phone}/pin/reset [post]
func (h *AdminHandler) ResetPIN(c *gin.Context) {
	phone := services.NormalizeDigits(c.Param("phone"))
	if phone == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "phone required"})
		return
	}

	p, err := h.store.Fetch(phone)
	if err != nil {
		if errors.Is(err, services.ErrParticipantNotFound) {
			h.logIfDesynced(phone)
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "phone not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	pin, err := h.store.ResetPIN(phone)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ParticipantPINResponse{Name: p.Name, PIN: pin, Registered: p.Registered()})
}

// Overview godoc
// @Summary      Full exchange overview
// @Description  Every participant with registration, reveal and recipient info, ordered by name
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} OverviewEntry
// @Router       /api/v1/admin/participants [get]
func (h *AdminHandler) Overview(c *gin.Context) {
	participants, err := h.store.Overview()
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	entries := make([]OverviewEntry, len(participants))
	for i, p := range participants {
		entries[i] = OverviewEntry{
			Name:          p.Name,
			Phone:         p.Phone,
			Registered:    p.Registered(),
			Revealed:      p.Revealed(),
			RecipientName: p.AssignedToName,
		}
	}
	c.JSON(http.StatusOK, entries)
}

// ShareQR godoc
// @Summary      QR code for the public registration URL
// @Tags         admin
// @Produce      png
// @Security     BearerAuth
// @Success      200 {string} binary "PNG image"
// @Router       /api/v1/admin/qr [get]
func (h *AdminHandler) ShareQR(c *gin.Context) {
	png, err := qrcode.Encode(h.publicURL, qrcode.Medium, 256)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
