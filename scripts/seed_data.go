//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/smartway/smartway-backend/internal/config"
	"github.com/smartway/smartway-backend/internal/database"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/repository"
)

// Seeds the location registry, the subscription plans and a handful of
// demo users. Safe to re-run: existing codes and phones are skipped.
//
//	go run scripts/seed_data.go

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.DatabaseURL, cfg.DBMaxConnections, cfg.DBMaxIdleConnections)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	locationRepo := repository.NewLocationRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)

	seedLocations(ctx, locationRepo)
	seedPlans(ctx, db)
	seedUsers(ctx, userRepo)

	fmt.Println("Seed complete")
}

func seedLocations(ctx context.Context, repo repository.LocationRepository) {
	locations := []models.Location{
		{Code: "bishkek", NameRu: "Бишкек", NameEn: "Bishkek", NameKy: "Бишкек", SortOrder: 1, Region: "Чуйская область"},
		{Code: "osh", NameRu: "Ош", NameEn: "Osh", NameKy: "Ош", SortOrder: 2, Region: "Ошская область"},
		{Code: "jalal-abad", NameRu: "Джалал-Абад", NameEn: "Jalal-Abad", NameKy: "Жалал-Абад", SortOrder: 3, Region: "Джалал-Абадская область"},
		{Code: "karakol", NameRu: "Каракол", NameEn: "Karakol", NameKy: "Каракол", SortOrder: 4, Region: "Иссык-Кульская область"},
		{Code: "naryn", NameRu: "Нарын", NameEn: "Naryn", NameKy: "Нарын", SortOrder: 5, Region: "Нарынская область"},
		{Code: "talas", NameRu: "Талас", NameEn: "Talas", NameKy: "Талас", SortOrder: 6, Region: "Таласская область"},
		{Code: "batken", NameRu: "Баткен", NameEn: "Batken", NameKy: "Баткен", SortOrder: 7, Region: "Баткенская область"},
		{Code: "cholpon-ata", NameRu: "Чолпон-Ата", NameEn: "Cholpon-Ata", NameKy: "Чолпон-Ата", SortOrder: 8, Region: "Иссык-Кульская область"},
	}

	for i := range locations {
		loc := locations[i]
		loc.IsActive = true
		existing, err := repo.GetByCode(ctx, loc.Code)
		if err != nil {
			log.Fatalf("location lookup failed: %v", err)
		}
		if existing != nil {
			continue
		}
		if err := repo.Create(ctx, &loc); err != nil {
			log.Fatalf("location create failed: %v", err)
		}
		fmt.Printf("Created location %s\n", loc.Code)
	}
}

func seedPlans(ctx context.Context, db *database.PostgresDB) {
	plans := []struct {
		name     string
		price    float64
		days     int
		priority int
		delay    int
	}{
		{"Старт", 200, 7, 1, 60},
		{"Стандарт", 500, 30, 2, 30},
		{"Премиум", 1200, 30, 3, 0},
	}

	for _, p := range plans {
		var exists bool
		if err := db.DB.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM subscription_plans WHERE name = $1)`, p.name); err != nil {
			log.Fatalf("plan lookup failed: %v", err)
		}
		if exists {
			continue
		}
		_, err := db.DB.ExecContext(ctx, `
			INSERT INTO subscription_plans (id, name, price, duration_days,
				priority_level, view_delay_seconds, is_active, created_at, updated_at)
			VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, TRUE, NOW(), NOW())
		`, p.name, p.price, p.days, p.priority, p.delay)
		if err != nil {
			log.Fatalf("plan create failed: %v", err)
		}
		fmt.Printf("Created plan %s\n", p.name)
	}
}

func seedUsers(ctx context.Context, repo repository.UserRepository) {
	users := []models.User{
		{Phone: "+996700000001", FullName: "Азамат Орозбеков", IsDriver: true},
		{Phone: "+996700000002", FullName: "Айгерим Токтосунова", IsDriver: false},
		{Phone: "+996700000003", FullName: "Бакыт Жумабеков", IsDriver: true},
		{Phone: "+996700000004", FullName: "Нургуль Асанова", IsDriver: false},
	}

	for i := range users {
		u := users[i]
		existing, err := repo.GetByPhone(ctx, u.Phone)
		if err != nil {
			log.Fatalf("user lookup failed: %v", err)
		}
		if existing != nil {
			continue
		}
		if err := repo.Create(ctx, &u); err != nil {
			log.Fatalf("user create failed: %v", err)
		}
		fmt.Printf("Created user %s (%s)\n", u.FullName, u.Phone)
	}
}
