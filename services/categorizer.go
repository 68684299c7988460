package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/centime-app/centime-api/models"
	"github.com/centime-app/centime-api/utils"
)

type CategorizerService struct {
	db *sql.DB
}

func NewCategorizerService(db *sql.DB) *CategorizerService {
	return &CategorizerService{db: db}
}

// --- STATIC DICTIONARY ---
var staticRules = map[string]string{
	// ENERGY
	"edf": models.CategoryEnergy, "engie": models.CategoryEnergy,
	"totalenergies": models.CategoryEnergy, "veolia": models.CategoryEnergy,
	"suez": models.CategoryEnergy, "octopus energy": models.CategoryEnergy,

	// TELECOM
	"orange": models.CategoryInternet, "sosh": models.CategoryMobile,
	"sfr": models.CategoryInternet, "red by sfr": models.CategoryMobile,
	"bouygues": models.CategoryInternet, "free mobile": models.CategoryMobile,
	"vodafone": models.CategoryMobile, "o2": models.CategoryMobile,

	// INSURANCE
	"axa": models.CategoryInsurance, "allianz": models.CategoryInsurance,
	"macif": models.CategoryInsurance, "maif": models.CategoryInsurance,
	"groupama": models.CategoryInsurance, "alan": models.CategoryInsurance,

	// BANK
	"boursorama": models.CategoryBank, "revolut": models.CategoryBank,
	"n26": models.CategoryBank, "bnp": models.CategoryBank,
	"societe generale": models.CategoryBank, "credit agricole": models.CategoryBank,

	// LEISURE
	"netflix": models.CategoryLeisure, "spotify": models.CategoryLeisure,
	"deezer": models.CategoryLeisure, "disney": models.CategoryLeisure,
	"prime video": models.CategoryLeisure, "basic fit": models.CategoryLeisure,
	"steam": models.CategoryLeisure,

	// FOOD
	"leclerc": models.CategoryFood, "carrefour": models.CategoryFood,
	"auchan": models.CategoryFood, "lidl": models.CategoryFood,
	"aldi": models.CategoryFood, "monoprix": models.CategoryFood,
	"uber eats": models.CategoryFood, "deliveroo": models.CategoryFood,

	// TRANSPORT
	"sncf": models.CategoryTransport, "ratp": models.CategoryTransport,
	"uber": models.CategoryTransport, "bolt": models.CategoryTransport,
	"shell": models.CategoryTransport, "total access": models.CategoryTransport,

	// HEALTH
	"pharmacie": models.CategoryHealth, "pharmacy": models.CategoryHealth,
	"doctolib": models.CategoryHealth,

	// INCOME
	"salaire": models.CategorySalary, "salary": models.CategorySalary,
	"payroll": models.CategorySalary,
}

// MatchStaticRule resolves a label against the static dictionary alone.
// Exact matches win over substring matches ("free mobile" vs "uber eats").
func MatchStaticRule(rawLabel string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(rawLabel))
	if normalized == "" {
		return "", false
	}

	if category, exists := staticRules[normalized]; exists {
		return category, true
	}
	for key, cat := range staticRules {
		if strings.Contains(normalized, key) {
			return cat, true
		}
	}

	return "", false
}

// GetCategory resolves a transaction label to a category: static rules first,
// then the label_mappings cache, then OTHER.
func (s *CategorizerService) GetCategory(ctx context.Context, rawLabel string) (string, error) {
	normalizedLabel := strings.ToLower(strings.TrimSpace(rawLabel))
	if normalizedLabel == "" {
		return models.CategoryOther, nil
	}

	if category, ok := MatchStaticRule(normalizedLabel); ok {
		return category, nil
	}

	var dbCategory string
	err := s.db.QueryRowContext(ctx,
		"SELECT category FROM label_mappings WHERE normalized_label = $1",
		normalizedLabel).Scan(&dbCategory)

	if err == nil {
		return dbCategory, nil
	}
	if err != sql.ErrNoRows {
		utils.Warnf("[Categorizer] Cache lookup failed for '%s': %v", normalizedLabel, err)
	}

	return models.CategoryOther, nil
}

// Learn caches a user-provided correction for future lookups.
func (s *CategorizerService) Learn(ctx context.Context, rawLabel, category string) error {
	normalizedLabel := strings.ToLower(strings.TrimSpace(rawLabel))
	if normalizedLabel == "" || !models.IsKnownCategory(category) {
		return nil
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO label_mappings (normalized_label, category, source)
		VALUES ($1, $2, 'user')
		ON CONFLICT (normalized_label) DO UPDATE SET category = EXCLUDED.category, source = 'user'
	`, normalizedLabel, category)

	return err
}
