package main

import (
	"log"
	"net/http"

	"StoreApp/app/config"
	"StoreApp/app/database"
	"StoreApp/app/handlers"
	"StoreApp/app/services"
	"StoreApp/app/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database error: %v", err)
	}
	defer database.Close(db)

	hub := websocket.NewHub()
	go hub.Run()

	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL)
	supplierService := services.NewSupplierService(db, hub)
	categoryService := services.NewCategoryService(db, hub)
	saleService := services.NewSaleService(db, supplierService, hub, cfg.DeliveryFee)
	orderService := services.NewOrderService(db, supplierService, hub)

	if err := authService.SeedAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Admin seed error: %v", err)
	}

	router := handlers.NewRouter(handlers.Services{
		Auth:       authService,
		Suppliers:  supplierService,
		Categories: categoryService,
		Sales:      saleService,
		Orders:     orderService,
		Hub:        hub,
	})

	addr := ":" + cfg.HTTPPort
	log.Printf("Server listening on %s", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
