package handlers

import (
	"errors"
	"strconv"

	"boutique/internal/services"
	"boutique/pkg/response"

	"github.com/gin-gonic/gin"
)

// ClientHandler 客户接口
type ClientHandler struct {
	clientService *services.ClientService
}

func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

type createClientRequest struct {
	Nom       string `json:"nom" binding:"required"`
	Telephone string `json:"telephone" binding:"required"`
}

type updateClientRequest struct {
	Nom       *string `json:"nom"`
	Telephone *string `json:"telephone"`
}

// List 客户列表
// GET /api/clients
func (h *ClientHandler) List(c *gin.Context) {
	clients, err := h.clientService.List()
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithCount(c, clients, len(clients))
}

// Get 客户详情（内嵌最近10笔销售和未结清赊账）
// GET /api/clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	client, err := h.clientService.GetByID(uint(id))
	if err != nil {
		if notFound(err) {
			response.NotFound(c, "Client non trouvé")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Success(c, client)
}

// Stats 客户统计
// GET /api/clients/:id/stats
func (h *ClientHandler) Stats(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	stats, err := h.clientService.Stats(uint(id))
	if err != nil {
		if notFound(err) {
			response.NotFound(c, "Client non trouvé")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Success(c, stats)
}

// Create 创建客户
// POST /api/clients
func (h *ClientHandler) Create(c *gin.Context) {
	var req createClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	client, err := h.clientService.Create(services.CreateClientParams{
		Nom:       req.Nom,
		Telephone: req.Telephone,
	})
	if err != nil {
		if errors.Is(err, services.ErrPhoneTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Created(c, "Client créé", client)
}

// Update 更新客户
// PUT /api/clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	var req updateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	client, err := h.clientService.Update(uint(id), services.UpdateClientParams{
		Nom:       req.Nom,
		Telephone: req.Telephone,
	})
	if err != nil {
		switch {
		case notFound(err):
			response.NotFound(c, "Client non trouvé")
		case errors.Is(err, services.ErrPhoneTaken):
			response.Conflict(c, err.Error())
		default:
			response.ServerError(c, "Erreur interne du serveur")
		}
		return
	}

	response.SuccessWithMessage(c, "Client mis à jour", client)
}

// Delete 删除客户
// DELETE /api/clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	if err := h.clientService.Delete(uint(id)); err != nil {
		if notFound(err) {
			response.NotFound(c, "Client non trouvé")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithMessage(c, "Client supprimé", nil)
}
