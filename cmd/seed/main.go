package main

import (
	"log"

	"github.com/Skotchmaster/sweetshop/internal/config"
	"github.com/Skotchmaster/sweetshop/internal/models"
)

// Seeds the catalog with the base assortment. Safe to run repeatedly:
// existing products are matched by name and left untouched.
func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	products := []models.Product{
		{Name: "Murukku", Description: "Crunchy spiral rice-flour snack", Price: 120, Category: models.CategorySavory, Ingredients: "Rice flour, urad dal, sesame, salt", ShelfLife: "21 days", Weight: "250g", StockQuantity: 100, InStock: true},
		{Name: "Mixture", Description: "Classic South Indian savory mix", Price: 140, Category: models.CategorySavory, Ingredients: "Gram flour, peanuts, curry leaves", ShelfLife: "21 days", Weight: "250g", StockQuantity: 80, InStock: true},
		{Name: "Ribbon Pakoda", Description: "Thin ribbon-shaped fried snack", Price: 130, Category: models.CategorySavory, Ingredients: "Rice flour, gram flour, chilli", ShelfLife: "21 days", Weight: "250g", StockQuantity: 60, InStock: true},
		{Name: "Mysore Pak", Description: "Ghee-rich gram flour sweet", Price: 220, Category: models.CategorySweet, Ingredients: "Gram flour, ghee, sugar", ShelfLife: "10 days", Weight: "250g", StockQuantity: 50, InStock: true, Featured: true},
		{Name: "Laddu", Description: "Soft boondi laddu", Price: 180, Category: models.CategorySweet, Ingredients: "Gram flour, sugar, cardamom, cashew", ShelfLife: "10 days", Weight: "250g", StockQuantity: 70, InStock: true},
		{Name: "Adhirasam", Description: "Traditional jaggery doughnut", Price: 200, Category: models.CategorySweet, Ingredients: "Rice flour, jaggery, sesame", ShelfLife: "15 days", Weight: "250g", StockQuantity: 40, InStock: true},
	}

	created := 0
	for i := range products {
		res := db.Where("name = ?", products[i].Name).FirstOrCreate(&products[i])
		if res.Error != nil {
			log.Fatalf("seed error for %s: %v", products[i].Name, res.Error)
		}
		created += int(res.RowsAffected)
	}

	log.Printf("seed complete: %d new products, %d total", created, len(products))
}
