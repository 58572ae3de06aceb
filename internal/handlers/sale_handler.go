package handlers

import (
	"errors"
	"strconv"
	"time"

	"boutique/internal/services"
	"boutique/pkg/response"

	"github.com/gin-gonic/gin"
)

// SaleHandler 销售接口
type SaleHandler struct {
	saleService *services.SaleService
}

func NewSaleHandler(saleService *services.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

type createSaleRequest struct {
	ProductID uint   `json:"productId" binding:"required"`
	ClientID  *uint  `json:"clientId"`
	Quantite  int    `json:"quantite" binding:"required,gt=0"`
	TypeVente string `json:"typeVente" binding:"required,oneof=comptant credit"`
}

// parseDateQuery 解析日期查询参数（RFC3339或YYYY-MM-DD）
func parseDateQuery(value string) *time.Time {
	if value == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t
	}
	return nil
}

// parseUintQuery 解析uint查询参数
func parseUintQuery(value string) *uint {
	if value == "" {
		return nil
	}
	parsed, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return nil
	}
	result := uint(parsed)
	return &result
}

// List 销售列表（支持日期/客户/产品/类型过滤）
// GET /api/sales
func (h *SaleHandler) List(c *gin.Context) {
	filter := services.SaleFilter{
		DateFrom:  parseDateQuery(c.Query("dateFrom")),
		DateTo:    parseDateQuery(c.Query("dateTo")),
		ClientID:  parseUintQuery(c.Query("clientId")),
		ProductID: parseUintQuery(c.Query("productId")),
		TypeVente: c.Query("typeVente"),
	}

	sales, err := h.saleService.List(filter)
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithCount(c, sales, len(sales))
}

// Get 销售详情
// GET /api/sales/:id
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	sale, err := h.saleService.GetByID(uint(id))
	if err != nil {
		if notFound(err) {
			response.NotFound(c, "Vente non trouvée")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Success(c, sale)
}

// Stats 日/周/月销售汇总
// GET /api/sales/stats
func (h *SaleHandler) Stats(c *gin.Context) {
	stats, err := h.saleService.Stats()
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Success(c, stats)
}

// Create 创建销售
// POST /api/sales
func (h *SaleHandler) Create(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	sale, err := h.saleService.Create(services.CreateSaleParams{
		ProductID: req.ProductID,
		ClientID:  req.ClientID,
		Quantite:  req.Quantite,
		TypeVente: req.TypeVente,
	})
	if err != nil {
		switch {
		case notFound(err):
			response.NotFound(c, "Produit ou client non trouvé")
		case errors.Is(err, services.ErrInsufficientStock):
			response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrClientRequired):
			response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrInvalidQuantity):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, "Erreur interne du serveur")
		}
		return
	}

	response.Created(c, "Vente enregistrée", sale)
}

// Cancel 取消销售（整单撤销）
// DELETE /api/sales/:id
func (h *SaleHandler) Cancel(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	if err := h.saleService.Cancel(uint(id)); err != nil {
		if notFound(err) {
			response.NotFound(c, "Vente non trouvée")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithMessage(c, "Vente annulée", nil)
}
