package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"reviseai-backend/internal/dto"
	"reviseai-backend/internal/mailer"
	"reviseai-backend/pkg/validator"

	"github.com/gin-gonic/gin"
)

type MessagePublisher interface {
	Publish(ctx context.Context, queueName string, body []byte) error
}

type ContactHandler struct {
	publisher MessagePublisher
}

func NewContactHandler(publisher MessagePublisher) *ContactHandler {
	return &ContactHandler{publisher: publisher}
}

// SendMessage accepts a contact-form submission and hands it to the mail
// worker via the message queue; delivery happens asynchronously.
func (h *ContactHandler) SendMessage(c *gin.Context) {
	var req dto.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.JsonError(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	message := strings.TrimSpace(req.Message)
	email := validator.NormalizeEmail(req.Email)

	if name == "" || message == "" || validator.ValidateEmail(email) != nil {
		dto.JsonError(c, http.StatusBadRequest, "Please provide name, email and message.")
		return
	}

	event := mailer.ContactMessage{
		Name:    name,
		Email:   email,
		Message: message,
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal contact message: %v", err)
		dto.JsonError(c, http.StatusInternalServerError, "Failed to send message. Please try again later.")
		return
	}

	if err := h.publisher.Publish(c.Request.Context(), mailer.ContactQueue, body); err != nil {
		log.Printf("Failed to publish contact message: %v", err)
		dto.JsonError(c, http.StatusInternalServerError, "Failed to send message. Please try again later.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Message sent successfully!",
	})
}
