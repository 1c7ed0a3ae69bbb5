package handler

import (
	"fmt"
	"net/http"
	"time"

	"auction-shop/services/shop/helpers"
	"auction-shop/utils"

	"github.com/gin-gonic/gin"
)

// AdminHandler covers inventory and auction management. Authorization is
// enforced by the router middleware, not here.
type AdminHandler struct {
	catalog CatalogServiceInterface
	engine  AuctionServiceInterface
}

func NewAdminHandler(catalog CatalogServiceInterface, engine AuctionServiceInterface) *AdminHandler {
	return &AdminHandler{catalog: catalog, engine: engine}
}

// CreateProductHandler handles POST /admin/products
func (h *AdminHandler) CreateProductHandler(c *gin.Context) {
	var req helpers.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateProductHandler", err)
		return
	}

	product, err := h.catalog.AddProduct(req.Name, req.Description, req.Price, req.Category, req.FloatValue, req.Link)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("CreateProductHandler: failed to add product", map[string]any{"name": req.Name, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, product, "product created successfully")
	helpers.LogSuccess("CreateProductHandler", "product created successfully", map[string]any{
		"product_id": product.ProductID,
		"name":       product.Name,
		"price":      product.Price,
	})
}

// CreateAuctionHandler handles POST /admin/auctions
func (h *AdminHandler) CreateAuctionHandler(c *gin.Context) {
	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	duration := time.Duration(req.DurationSeconds) * time.Second
	auction, err := h.engine.CreateAuction(req.Title, req.Description, req.StartPrice, req.Step, duration)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("CreateAuctionHandler: failed to create auction", map[string]any{"title": req.Title, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, auction, "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id":    auction.AuctionID,
		"title":         auction.Title,
		"end_timestamp": auction.EndTimestamp,
	})
}

// MarkSoldHandler handles POST /admin/products/:product_id/sold
func (h *AdminHandler) MarkSoldHandler(c *gin.Context) {
	productID := c.Param("product_id")

	if err := h.catalog.MarkSold(productID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("MarkSoldHandler: failed to mark product sold", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "product marked sold")
	helpers.LogSuccess("MarkSoldHandler", "product marked sold", map[string]any{"product_id": productID})
}

// DeleteProductHandler handles DELETE /admin/products/:product_id
func (h *AdminHandler) DeleteProductHandler(c *gin.Context) {
	productID := c.Param("product_id")

	if err := h.catalog.DeleteProduct(productID); err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("DeleteProductHandler: failed to delete product", map[string]any{"product_id": productID, "error": err.Error()})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "product deleted")
	helpers.LogSuccess("DeleteProductHandler", "product deleted", map[string]any{"product_id": productID})
}
