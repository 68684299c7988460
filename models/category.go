package models

// Transaction categories. OTHER is the fallback when no rule matches.
const (
	CategoryHousing   = "HOUSING"
	CategoryEnergy    = "ENERGY"
	CategoryInternet  = "INTERNET"
	CategoryMobile    = "MOBILE"
	CategoryInsurance = "INSURANCE"
	CategoryBank      = "BANK"
	CategoryLeisure   = "LEISURE"
	CategoryFood      = "FOOD"
	CategoryTransport = "TRANSPORT"
	CategoryHealth    = "HEALTH"
	CategorySalary    = "SALARY"
	CategorySavings   = "SAVINGS"
	CategoryOther     = "OTHER"
)

// Categories lists every category the API knows about, in display order.
var Categories = []string{
	CategoryHousing, CategoryEnergy, CategoryInternet, CategoryMobile,
	CategoryInsurance, CategoryBank, CategoryLeisure, CategoryFood,
	CategoryTransport, CategoryHealth, CategorySalary, CategorySavings,
	CategoryOther,
}

// IsKnownCategory reports whether c is one of the fixed categories.
func IsKnownCategory(c string) bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}
