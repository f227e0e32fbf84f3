package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/retailnet/retail_api/internal/service"
	"github.com/retailnet/retail_api/internal/utils"
)

// ContactHandler handles delivery address endpoints.
type ContactHandler struct {
	contactService *service.ContactService
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// ListContacts handles GET /v1/user/contacts
func (h *ContactHandler) ListContacts(c *gin.Context) {
	contacts, err := h.contactService.List(c.Request.Context(), c.GetInt("account_id"))
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Contacts retrieved", gin.H{
		"contacts": contacts,
		"total":    len(contacts),
	})
}

// CreateContact handles POST /v1/user/contacts
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req service.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	contact, err := h.contactService.Create(c.Request.Context(), c.GetInt("account_id"), &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 201, "Contact created", contact)
}

// UpdateContact handles PATCH /v1/user/contacts/:id
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid contact ID")
		return
	}

	var req service.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	contact, err := h.contactService.Update(c.Request.Context(), c.GetInt("account_id"), id, &req)
	if err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Contact updated", contact)
}

// DeleteContact handles DELETE /v1/user/contacts/:id
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 400, "INVALID_ID", "Invalid contact ID")
		return
	}

	if err := h.contactService.Delete(c.Request.Context(), c.GetInt("account_id"), id); err != nil {
		utils.Fail(c, err)
		return
	}

	utils.Success(c, 200, "Contact deleted", nil)
}
