package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Mandi prices
	api.HandleFunc("/mandi/prices", handler.GetMandiPrices).Methods("GET")

	// Price alerts
	api.HandleFunc("/price-alerts", handler.ListPriceAlerts).Methods("GET")
	api.HandleFunc("/price-alerts", handler.CreatePriceAlert).Methods("POST")
	api.HandleFunc("/price-alerts/{id}", handler.UpdatePriceAlert).Methods("PUT")
	api.HandleFunc("/price-alerts/{id}", handler.DeletePriceAlert).Methods("DELETE")

	// Disease reports
	api.HandleFunc("/disease-reports", handler.CreateDiseaseReport).Methods("POST")
	api.HandleFunc("/disease-reports/recent", handler.GetRecentDiseaseReports).Methods("GET")

	// Community
	api.HandleFunc("/community/posts", handler.GetCommunityPosts).Methods("GET")
	api.HandleFunc("/community/posts", handler.CreateCommunityPost).Methods("POST")
	api.HandleFunc("/community/posts/{id}/like", handler.LikeCommunityPost).Methods("POST")
	api.HandleFunc("/community/stats", handler.GetCommunityStats).Methods("GET")

	// Marketplace
	api.HandleFunc("/marketplace/items", handler.GetMarketplaceItems).Methods("GET")
	api.HandleFunc("/marketplace/items", handler.CreateMarketplaceItem).Methods("POST")

	// Produce bidding and logistics
	api.HandleFunc("/listings", handler.GetProduceListings).Methods("GET")
	api.HandleFunc("/listings", handler.CreateProduceListing).Methods("POST")
	api.HandleFunc("/listings/{id}/bids", handler.GetBidsForListing).Methods("GET")
	api.HandleFunc("/listings/{id}/bids", handler.CreateBid).Methods("POST")
	api.HandleFunc("/bids/{id}/accept", handler.AcceptBid).Methods("POST")
	api.HandleFunc("/logistics/orders", handler.GetLogisticsOrders).Methods("GET")
	api.HandleFunc("/logistics/orders", handler.CreateLogisticsOrder).Methods("POST")

	return r
}
