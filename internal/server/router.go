package server

import (
	"auction-shop/internal/auth"
	handler "auction-shop/services/shop/handler"

	"github.com/gin-gonic/gin"
)

// Deps carries the collaborators the router dispatches to
type Deps struct {
	Auctions   handler.AuctionServiceInterface
	Catalog    handler.CatalogServiceInterface
	Prefs      handler.PrefServiceInterface
	Dispatcher handler.EventDispatcher
	Policy     auth.AuthorizationPolicy
}

// SetupRouter configures all Gin routes for the application
func SetupRouter(deps Deps) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(deps.Auctions, deps.Dispatcher)
	catalogHandler := handler.NewCatalogHandler(deps.Catalog, deps.Dispatcher)
	prefsHandler := handler.NewPrefsHandler(deps.Prefs)
	adminHandler := handler.NewAdminHandler(deps.Catalog, deps.Auctions)

	bids := router.Group("/bids")
	{
		bids.POST("", auctionHandler.PlaceBidHandler)
	}

	auctions := router.Group("/auctions")
	{
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/bids", auctionHandler.GetBidsHandler)
		auctions.GET("/:auction_id/winning", auctionHandler.GetWinningBidHandler)
	}

	products := router.Group("/products")
	{
		products.GET("", catalogHandler.ListProductsHandler)
		products.GET("/:product_id", catalogHandler.GetProductHandler)
		products.POST("/:product_id/buy", catalogHandler.BuyProductHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:tg_id/preferences", prefsHandler.GetPreferencesHandler)
		users.PUT("/:tg_id/preferences", prefsHandler.SetPreferencesHandler)
	}

	admin := router.Group("/admin", AdminOnly(deps.Policy))
	{
		admin.POST("/products", adminHandler.CreateProductHandler)
		admin.POST("/auctions", adminHandler.CreateAuctionHandler)
		admin.POST("/products/:product_id/sold", adminHandler.MarkSoldHandler)
		admin.DELETE("/products/:product_id", adminHandler.DeleteProductHandler)
	}

	return router
}
