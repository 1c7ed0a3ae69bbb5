package handler

import (
	"fmt"
	"net/http"

	model "auction-shop/internal/models"
	"auction-shop/services/shop/helpers"
	"auction-shop/utils"

	"github.com/gin-gonic/gin"
)

type CatalogServiceInterface interface {
	AddProduct(name, description string, price int64, category string, floatValue *float64, link *string) (model.Product, error)
	GetProduct(productID string) (model.Product, error)
	ListProducts(onlyAvailable bool) ([]model.Product, error)
	MarkSold(productID string) error
	DeleteProduct(productID string) error
}

type CatalogHandler struct {
	service    CatalogServiceInterface
	dispatcher EventDispatcher
}

func NewCatalogHandler(service CatalogServiceInterface, dispatcher EventDispatcher) *CatalogHandler {
	return &CatalogHandler{service: service, dispatcher: dispatcher}
}

// ListProductsHandler handles GET /products?available=true
func (h *CatalogHandler) ListProductsHandler(c *gin.Context) {
	onlyAvailable := c.DefaultQuery("available", "true") == "true"

	products, err := h.service.ListProducts(onlyAvailable)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("ListProductsHandler: error listing products", map[string]any{"error": err.Error()})
		return
	}

	if products == nil {
		products = []model.Product{}
	}

	utils.JSONResponse(c, http.StatusOK, products, "products retrieved successfully")
}

// GetProductHandler handles GET /products/:product_id
func (h *CatalogHandler) GetProductHandler(c *gin.Context) {
	productID := c.Param("product_id")

	product, err := h.service.GetProduct(productID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetProductHandler: error retrieving product", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, product, "product retrieved successfully")
}

// BuyProductHandler handles POST /products/:product_id/buy. The shop does not
// process payment: a purchase request is recorded by notifying the admins,
// who settle the deal directly with the buyer.
func (h *CatalogHandler) BuyProductHandler(c *gin.Context) {
	productID := c.Param("product_id")

	var req helpers.BuyProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "BuyProductHandler", err)
		return
	}

	product, err := h.service.GetProduct(productID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("BuyProductHandler: error retrieving product", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	if product.Sold {
		utils.JSONError(c, http.StatusConflict, fmt.Errorf("product %s already sold", productID), "product already sold")
		return
	}

	h.dispatcher.PurchaseRequested(product, req.TgID)

	utils.JSONResponse(c, http.StatusAccepted, product, "purchase request sent to admins")
	helpers.LogSuccess("BuyProductHandler", "purchase request sent", map[string]any{
		"product_id": productID,
		"tg_id":      req.TgID,
	})
}
