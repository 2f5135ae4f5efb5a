package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ikkim/beautycart-backend/config"
	"github.com/ikkim/beautycart-backend/internal/app/repository"
	"github.com/ikkim/beautycart-backend/internal/app/service"
	"github.com/ikkim/beautycart-backend/internal/checkout"
	"github.com/ikkim/beautycart-backend/internal/db"
)

// Writes a session's order history to an xlsx file, for support requests.
func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: go run cmd/export/main.go <session_id> <output.xlsx>")
	}

	sessionID := os.Args[1]
	outPath := os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	orderRepo := repository.NewOrderRepository(db.GetDB())

	rows, err := orderRepo.FindBySessionID(sessionID)
	if err != nil {
		log.Fatal("Failed to load orders:", err)
	}
	if len(rows) == 0 {
		fmt.Printf("No orders found for session %s\n", sessionID)
		return
	}

	orders := make([]checkout.Order, 0, len(rows))
	for i := range rows {
		orders = append(orders, rows[i].ToCheckout())
	}

	buf, err := service.WriteOrdersWorkbook(orders)
	if err != nil {
		log.Fatal("Failed to render workbook:", err)
	}

	if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
		log.Fatal("Failed to write file:", err)
	}

	fmt.Printf("Exported %d orders to %s\n", len(orders), outPath)
}
