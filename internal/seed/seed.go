package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/localmarket/hub/internal/hash"
	"github.com/localmarket/hub/internal/models"
)

const seedPassword = "test123"

type productEntry struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Category string  `json:"category"`
}

// Load imports the bundled retailer catalog. It is a no-op once any product
// row exists. Dataset keys are "<LOCATION>_<RetailerName>"; a key without an
// underscore is a fatal error.
func Load(db *gorm.DB, path string, plainPasswords bool) (int, error) {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("seed: count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("seed: read dataset: %w", err)
	}

	var data map[string][]productEntry
	if err := json.Unmarshal(raw, &data); err != nil {
		return 0, fmt.Errorf("seed: decode dataset: %w", err)
	}

	credential, err := hash.Credential(seedPassword, plainPasswords)
	if err != nil {
		return 0, fmt.Errorf("seed: prepare credential: %w", err)
	}

	created := 0
	for key, products := range data {
		location, name, found := strings.Cut(key, "_")
		if !found {
			return created, fmt.Errorf("seed: dataset key %q has no location separator", key)
		}

		user := models.User{
			Username: strings.ToLower(key),
			Email:    strings.ToLower(key) + "@localmarket.example",
			Role:     models.RoleRetailer,
			Password: credential,
			Status:   models.StatusActive,
		}
		if err := db.Create(&user).Error; err != nil {
			return created, fmt.Errorf("seed: create user %q: %w", user.Username, err)
		}

		retailer := models.Retailer{
			UserID:      user.ID,
			Location:    location,
			Name:        name,
			Deliverable: true,
		}
		if err := db.Create(&retailer).Error; err != nil {
			return created, fmt.Errorf("seed: create retailer %q: %w", name, err)
		}

		for _, p := range products {
			prod := models.Product{
				RetailerID: retailer.ID,
				Name:       p.Name,
				Price:      p.Price,
				Quantity:   p.Quantity,
				Category:   p.Category,
			}
			if err := db.Create(&prod).Error; err != nil {
				return created, fmt.Errorf("seed: create product %q: %w", p.Name, err)
			}
			created++
		}
	}

	return created, nil
}
