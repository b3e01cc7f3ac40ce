package httpapi

import (
	"errors"
	"net/http"
	"time"

	"meal-grocer/internal/app"
	"meal-grocer/internal/inventory"
	"meal-grocer/internal/planner"
	"meal-grocer/internal/units"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type handler struct {
	svc Service
}

func (h *handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "system": h.svc.SysHealth()})
}

func (h *handler) getShoppingList(c *gin.Context) {
	from := h.svc.Today()
	if s := c.Query("from"); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
			return
		}
		from = d
	}
	from, to := h.svc.DefaultRange(from)
	if s := c.Query("to"); s != "" {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
			return
		}
		to = d
	}

	list, err := h.svc.GenerateShoppingList(c.Request.Context(), c.GetString(userIDKey), from, to)
	if errors.Is(err, app.ErrInvalidRange) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		internalError(c, err, "failed to generate shopping list")
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) markItem(c *gin.Context) {
	var req struct {
		Purchased *bool `json:"purchased"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Purchased == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"purchased\": true|false}"})
		return
	}

	if err := h.svc.MarkPurchased(c.Request.Context(), c.GetString(userIDKey), c.Param("id"), *req.Purchased); err != nil {
		internalError(c, err, "failed to save purchase mark")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handler) createPlan(c *gin.Context) {
	var plan planner.MealPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	if err := plan.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.svc.SavePlan(c.Request.Context(), c.GetString(userIDKey), &plan)
	if err != nil {
		internalError(c, err, "failed to save meal plan")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *handler) listPantry(c *gin.Context) {
	items, err := h.svc.ListPantry(c.Request.Context(), c.GetString(userIDKey))
	if err != nil {
		internalError(c, err, "failed to list pantry")
		return
	}
	if items == nil {
		items = []inventory.Item{}
	}
	c.JSON(http.StatusOK, items)
}

type pantryRequest struct {
	Name      string  `json:"name"`
	Amount    float64 `json:"amount"`
	Unit      string  `json:"unit"`
	Category  string  `json:"category"`
	ExpiresAt string  `json:"expires_at"`
}

func (h *handler) addPantryItem(c *gin.Context) {
	var req pantryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID := c.GetString(userIDKey)
	item := &inventory.Item{
		HouseholdID: userID,
		Name:        req.Name,
		Amount:      req.Amount,
		Unit:        units.Parse(req.Unit),
		Category:    req.Category,
	}
	if req.ExpiresAt != "" {
		d, err := time.Parse(time.DateOnly, req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be YYYY-MM-DD"})
			return
		}
		item.ExpiresAt = &d
	}
	if err := item.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.AddPantryItem(c.Request.Context(), userID, item); err != nil {
		internalError(c, err, "failed to add pantry item")
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *handler) deletePantryItem(c *gin.Context) {
	err := h.svc.DeletePantryItem(c.Request.Context(), c.GetString(userIDKey), c.Param("id"))
	if errors.Is(err, inventory.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
		return
	}
	if err != nil {
		internalError(c, err, "failed to delete pantry item")
		return
	}
	c.Status(http.StatusNoContent)
}

func internalError(c *gin.Context, err error, msg string) {
	log.Error().Err(err).Str("user_id", c.GetString(userIDKey)).Msg(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
