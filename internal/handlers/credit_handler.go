package handlers

import (
	"errors"
	"io"
	"strconv"

	"boutique/internal/services"
	"boutique/pkg/response"

	"github.com/gin-gonic/gin"
)

// CreditHandler 赊账接口
type CreditHandler struct {
	creditService *services.CreditService
}

func NewCreditHandler(creditService *services.CreditService) *CreditHandler {
	return &CreditHandler{creditService: creditService}
}

type payCreditRequest struct {
	Montant *float64 `json:"montant" binding:"omitempty,gt=0"`
}

// List 赊账列表（支持状态/客户过滤）
// GET /api/credits
func (h *CreditHandler) List(c *gin.Context) {
	filter := services.CreditFilter{
		Statut:   c.Query("statut"),
		ClientID: parseUintQuery(c.Query("clientId")),
	}

	credits, err := h.creditService.List(filter)
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithCount(c, credits, len(credits))
}

// Get 赊账详情
// GET /api/credits/:id
func (h *CreditHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	credit, err := h.creditService.GetByID(uint(id))
	if err != nil {
		if notFound(err) {
			response.NotFound(c, "Crédit non trouvé")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Success(c, credit)
}

// Pay 偿还赊账（montant缺省为全额）
// PATCH /api/credits/:id/pay
func (h *CreditHandler) Pay(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	// 请求体可省略，缺省为全额还款
	var req payCreditRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	credit, err := h.creditService.Pay(uint(id), req.Montant)
	if err != nil {
		switch {
		case notFound(err):
			response.NotFound(c, "Crédit non trouvé")
		case errors.Is(err, services.ErrCreditAlreadyPaid):
			response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrOverPayment):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, "Erreur interne du serveur")
		}
		return
	}

	response.SuccessWithMessage(c, "Paiement enregistré", credit)
}
