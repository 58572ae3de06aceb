package handlers

import (
	"errors"
	"strconv"

	"boutique/internal/services"
	"boutique/pkg/response"

	"github.com/gin-gonic/gin"
)

// ProductHandler 产品接口
type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// ========== 请求结构 ==========

type createProductRequest struct {
	Nom         string  `json:"nom" binding:"required"`
	Code        string  `json:"code" binding:"required"`
	Categorie   string  `json:"categorie"`
	Fournisseur string  `json:"fournisseur"`
	PrixAchat   float64 `json:"prixAchat" binding:"required,gt=0"`
	PrixVente   float64 `json:"prixVente" binding:"required,gt=0"`
	Stock       int     `json:"stock" binding:"min=0"`
	StockMin    int     `json:"stockMin" binding:"min=0"`
}

type updateProductRequest struct {
	Nom         *string  `json:"nom"`
	Code        *string  `json:"code"`
	Categorie   *string  `json:"categorie"`
	Fournisseur *string  `json:"fournisseur"`
	PrixAchat   *float64 `json:"prixAchat" binding:"omitempty,gt=0"`
	PrixVente   *float64 `json:"prixVente" binding:"omitempty,gt=0"`
	StockMin    *int     `json:"stockMin" binding:"omitempty,min=0"`
}

type restockRequest struct {
	Quantite int `json:"quantite" binding:"required,gt=0"`
}

// ========== 接口 ==========

// List 产品列表
// GET /api/products
func (h *ProductHandler) List(c *gin.Context) {
	products, err := h.productService.List(c.Query("categorie"))
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithCount(c, products, len(products))
}

// Get 产品详情
// GET /api/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	product, err := h.productService.GetByID(uint(id))
	if err != nil {
		if notFound(err) {
			response.NotFound(c, "Produit non trouvé")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Success(c, product)
}

// GetByCode 按条码查产品（收银台扫码）
// GET /api/products/code/:code
func (h *ProductHandler) GetByCode(c *gin.Context) {
	product, err := h.productService.GetByCode(c.Param("code"))
	if err != nil {
		if notFound(err) {
			response.NotFound(c, "Produit non trouvé")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Success(c, product)
}

// LowStock 库存告警产品列表
// GET /api/products/low-stock
func (h *ProductHandler) LowStock(c *gin.Context) {
	products, err := h.productService.GetLowStock()
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithCount(c, products, len(products))
}

// Create 创建产品
// POST /api/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	product, err := h.productService.Create(services.CreateProductParams{
		Nom:         req.Nom,
		Code:        req.Code,
		Categorie:   req.Categorie,
		Fournisseur: req.Fournisseur,
		PrixAchat:   req.PrixAchat,
		PrixVente:   req.PrixVente,
		Stock:       req.Stock,
		StockMin:    req.StockMin,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPriceBelowCost):
			response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrProductCodeTaken):
			response.Conflict(c, err.Error())
		default:
			response.ServerError(c, "Erreur interne du serveur")
		}
		return
	}

	response.Created(c, "Produit créé", product)
}

// Update 更新产品
// PUT /api/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	var req updateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	product, err := h.productService.Update(uint(id), services.UpdateProductParams{
		Nom:         req.Nom,
		Code:        req.Code,
		Categorie:   req.Categorie,
		Fournisseur: req.Fournisseur,
		PrixAchat:   req.PrixAchat,
		PrixVente:   req.PrixVente,
		StockMin:    req.StockMin,
	})
	if err != nil {
		switch {
		case notFound(err):
			response.NotFound(c, "Produit non trouvé")
		case errors.Is(err, services.ErrPriceBelowCost):
			response.BadRequest(c, err.Error())
		case errors.Is(err, services.ErrProductCodeTaken):
			response.Conflict(c, err.Error())
		default:
			response.ServerError(c, "Erreur interne du serveur")
		}
		return
	}

	response.SuccessWithMessage(c, "Produit mis à jour", product)
}

// Delete 删除产品
// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	if err := h.productService.Delete(uint(id)); err != nil {
		if notFound(err) {
			response.NotFound(c, "Produit non trouvé")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithMessage(c, "Produit supprimé", nil)
}

// Restock 补货（同时记一笔"Achat stock"支出）
// PATCH /api/products/:id/restock
func (h *ProductHandler) Restock(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	product, err := h.productService.Restock(uint(id), req.Quantite)
	if err != nil {
		switch {
		case notFound(err):
			response.NotFound(c, "Produit non trouvé")
		case errors.Is(err, services.ErrInvalidQuantity):
			response.BadRequest(c, err.Error())
		default:
			response.ServerError(c, "Erreur interne du serveur")
		}
		return
	}

	response.SuccessWithMessage(c, "Stock réapprovisionné", product)
}
