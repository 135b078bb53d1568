package main

//go:generate swag init

import (
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"billbook/db"
	_ "billbook/docs"
	"billbook/handlers"
)

//go:embed static/*
var staticFiles embed.FS

// gatedPages require a session before they are served; everything else under
// static/ (the login page, assets) is public.
var gatedPages = []string{"/customers.html", "/customer-invoices.html", "/invoice.html", "/statement.html"}

// @title           Billbook API
// @version         1.0.0
// @description     Invoicing API: customers, invoices with line items, running balances, and printable statements.
// @host            localhost:8080
// @BasePath        /api

func main() {
	godotenv.Load()

	// Configure structured logging
	level := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Open database
	database, err := db.Open()
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	// Run migrations
	if err := db.Migrate(database); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the login user from the environment
	if user := os.Getenv("AUTH_USER"); user != "" {
		if err := db.SeedUser(database, user, os.Getenv("AUTH_PASS")); err != nil {
			slog.Error("failed to seed login user", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("AUTH_USER and AUTH_PASS not set, no login will succeed")
	}

	// Set shared DB for handlers
	handlers.DB = database

	// Router setup
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", handlers.Login)
		r.Post("/logout", handlers.Logout)
		r.Get("/auth/check", handlers.AuthCheck)

		r.Group(func(r chi.Router) {
			r.Use(handlers.RequireSession)

			// Customers
			r.Get("/customers", handlers.ListCustomers)
			r.Post("/customers", handlers.CreateCustomer)
			r.Get("/customers/{id}", handlers.GetCustomer)
			r.Put("/customers/{id}", handlers.UpdateCustomer)
			r.Delete("/customers/{id}", handlers.DeleteCustomer)
			r.Get("/customers/{id}/latest-balance", handlers.GetLatestBalance)
			r.Get("/customers/{id}/invoices", handlers.ListCustomerInvoices)
			r.Get("/customers/{id}/statement", handlers.GetStatement)

			// Invoices
			r.Get("/invoices", handlers.ListInvoices)
			r.Post("/invoices", handlers.CreateInvoice)
			r.Get("/invoices/{id}", handlers.GetInvoice)
			r.Put("/invoices/{id}", handlers.UpdateInvoice)
			r.Delete("/invoices/{id}", handlers.DeleteInvoice)

			// Dashboard
			r.Get("/dashboard", handlers.GetDashboard)
		})
	})

	// Serve static files (UI); app pages sit behind the session gate
	staticFS, _ := fs.Sub(staticFiles, "static")
	fileServer := http.FileServer(http.FS(staticFS))
	for _, page := range gatedPages {
		r.With(handlers.RequirePage).Get(page, fileServer.ServeHTTP)
	}
	r.Handle("/*", fileServer)

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := fmt.Sprintf(":%s", port)
	slog.Info("server starting", "address", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
