package database

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/trainsapp/trains-backend/internal/config"
	"github.com/trainsapp/trains-backend/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedDemoData inserts a demo admin/user pair, the Kyiv → Lviv line with three
// stops and two schedules, and one favorite. Safe to run repeatedly.
func SeedDemoData(db *gorm.DB, cfg *config.Config) error {
	if _, err := seedUser(db, cfg, "admin@example.com", "Admin123!", models.RoleAdmin); err != nil {
		return err
	}
	user, err := seedUser(db, cfg, "user@example.com", "User123!", models.RoleUser)
	if err != nil {
		return err
	}

	kyiv, err := seedStop(db, "Kyiv-Pasazhyrskyi", "Kyiv", 50.441, 30.489)
	if err != nil {
		return err
	}
	fastiv, err := seedStop(db, "Fastiv", "Kyiv Oblast", 50.076, 29.915)
	if err != nil {
		return err
	}
	lviv, err := seedStop(db, "Lviv", "Lviv", 49.839, 24.029)
	if err != nil {
		return err
	}

	var route models.Route
	err = db.Where("name = ?", "Kyiv → Lviv (fast line)").First(&route).Error
	if err == gorm.ErrRecordNotFound {
		route = models.Route{ID: uuid.New(), Name: "Kyiv → Lviv (fast line)", Code: "IC-721"}
		err = db.Create(&route).Error
	}
	if err != nil {
		return fmt.Errorf("seed route: %w", err)
	}

	links := []models.RouteStop{
		{RouteID: route.ID, StopID: kyiv.ID, Position: 1, MinutesFromStart: 0},
		{RouteID: route.ID, StopID: fastiv.ID, Position: 2, MinutesFromStart: 45},
		{RouteID: route.ID, StopID: lviv.ID, Position: 3, MinutesFromStart: 310},
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&links).Error; err != nil {
		return fmt.Errorf("seed route stops: %w", err)
	}

	var count int64
	if err := db.Model(&models.Schedule{}).Where("route_id = ?", route.ID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		now := time.Now()
		d1 := time.Date(now.Year(), now.Month(), now.Day(), 8, 0, 0, 0, time.Local)
		d2 := time.Date(now.Year(), now.Month(), now.Day()+1, 17, 30, 0, 0, time.Local)
		schedules := []models.Schedule{
			{ID: uuid.New(), RouteID: route.ID, TrainType: models.TrainIntercity, DepartAt: d1, ArriveAt: d1.Add(310 * time.Minute), Status: models.StatusOnTime},
			{ID: uuid.New(), RouteID: route.ID, TrainType: models.TrainIntercity, DepartAt: d2, ArriveAt: d2.Add(310 * time.Minute), Status: models.StatusOnTime},
		}
		if err := db.Create(&schedules).Error; err != nil {
			return fmt.Errorf("seed schedules: %w", err)
		}
	}

	fav := models.Favorite{UserID: user.ID, RouteID: route.ID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&fav).Error; err != nil {
		return fmt.Errorf("seed favorite: %w", err)
	}

	slog.Info("demo data seeded", "admin", "admin@example.com", "user", "user@example.com")
	return nil
}

func seedUser(db *gorm.DB, cfg *config.Config, email, password, role string) (*models.User, error) {
	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	user = models.User{ID: uuid.New(), Email: email, Password: string(hash), Role: role}
	if err := db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("seed user %s: %w", email, err)
	}
	return &user, nil
}

func seedStop(db *gorm.DB, name, city string, lat, lng float64) (*models.Stop, error) {
	var stop models.Stop
	err := db.Where("name = ? AND city = ?", name, city).First(&stop).Error
	if err == nil {
		return &stop, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	stop = models.Stop{ID: uuid.New(), Name: name, City: city, Lat: &lat, Lng: &lng}
	if err := db.Create(&stop).Error; err != nil {
		return nil, fmt.Errorf("seed stop %s: %w", name, err)
	}
	return &stop, nil
}
