package main

import (
	"flag"
	"log"

	"github.com/Skotchmaster/sweetshop/internal/config"
	"github.com/Skotchmaster/sweetshop/internal/models"
)

func main() {
	email := flag.String("email", "", "email of the account to promote")
	flag.Parse()

	if *email == "" {
		log.Fatal("usage: promoteadmin -email user@example.com")
	}

	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	res := db.Model(&models.User{}).
		Where("email = ?", *email).
		Update("role", models.RoleAdmin)
	if res.Error != nil {
		log.Fatalf("promote error: %v", res.Error)
	}
	if res.RowsAffected == 0 {
		log.Fatalf("no account found for %s", *email)
	}

	log.Printf("%s is now an admin", *email)
}
