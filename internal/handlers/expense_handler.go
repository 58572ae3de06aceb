package handlers

import (
	"strconv"
	"time"

	"boutique/internal/services"
	"boutique/pkg/response"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler 支出接口
type ExpenseHandler struct {
	expenseService *services.ExpenseService
}

func NewExpenseHandler(expenseService *services.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

type createExpenseRequest struct {
	Description string     `json:"description" binding:"required"`
	Montant     float64    `json:"montant" binding:"required,gt=0"`
	Categorie   string     `json:"categorie" binding:"required"`
	Date        *time.Time `json:"date"`
}

// List 支出列表（支持日期/分类过滤）
// GET /api/expenses
func (h *ExpenseHandler) List(c *gin.Context) {
	filter := services.ExpenseFilter{
		DateFrom:  parseDateQuery(c.Query("dateFrom")),
		DateTo:    parseDateQuery(c.Query("dateTo")),
		Categorie: c.Query("categorie"),
	}

	expenses, err := h.expenseService.List(filter)
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithCount(c, expenses, len(expenses))
}

// Get 支出详情
// GET /api/expenses/:id
func (h *ExpenseHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	expense, err := h.expenseService.GetByID(uint(id))
	if err != nil {
		if notFound(err) {
			response.NotFound(c, "Dépense non trouvée")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Success(c, expense)
}

// Create 创建支出
// POST /api/expenses
func (h *ExpenseHandler) Create(c *gin.Context) {
	var req createExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, formatBindingError(err))
		return
	}

	expense, err := h.expenseService.Create(services.CreateExpenseParams{
		Description: req.Description,
		Montant:     req.Montant,
		Categorie:   req.Categorie,
		Date:        req.Date,
	})
	if err != nil {
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.Created(c, "Dépense enregistrée", expense)
}

// Delete 删除支出
// DELETE /api/expenses/:id
func (h *ExpenseHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "Identifiant invalide")
		return
	}

	if err := h.expenseService.Delete(uint(id)); err != nil {
		if notFound(err) {
			response.NotFound(c, "Dépense non trouvée")
			return
		}
		response.ServerError(c, "Erreur interne du serveur")
		return
	}

	response.SuccessWithMessage(c, "Dépense supprimée", nil)
}
