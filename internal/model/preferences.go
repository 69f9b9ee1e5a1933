package model

// Language selects both UI strings and the outbound prompt template
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
	LanguageFrench  Language = "fr"
)

// SupportedLanguages in display order
var SupportedLanguages = []Language{LanguageEnglish, LanguageArabic, LanguageFrench}

// IsKnown reports whether l has its own template and string table
func (l Language) IsKnown() bool {
	switch l {
	case LanguageEnglish, LanguageArabic, LanguageFrench:
		return true
	}
	return false
}

// IsRTL reports whether l is written right to left
func (l Language) IsRTL() bool {
	return l == LanguageArabic
}

// PropertyType is one of the form's fixed property kinds
type PropertyType string

const (
	PropertyTypeHouse      PropertyType = "House"
	PropertyTypeApartment  PropertyType = "Apartment"
	PropertyTypeCondo      PropertyType = "Condo"
	PropertyTypeTownhouse  PropertyType = "Townhouse"
	PropertyTypeMobileHome PropertyType = "Mobile Home"
	PropertyTypeLand       PropertyType = "Land"
)

// PropertyTypes lists the selectable property types
var PropertyTypes = []PropertyType{
	PropertyTypeHouse,
	PropertyTypeApartment,
	PropertyTypeCondo,
	PropertyTypeTownhouse,
	PropertyTypeMobileHome,
	PropertyTypeLand,
}

// Timeframe is when the buyer wants to move
type Timeframe string

const (
	TimeframeImmediately  Timeframe = "Immediately"
	TimeframeOneMonth     Timeframe = "Within 1 month"
	TimeframeThreeMonths  Timeframe = "Within 3 months"
	TimeframeSixMonths    Timeframe = "Within 6 months"
	TimeframeNextYear     Timeframe = "Next year"
	TimeframeJustBrowsing Timeframe = "Just browsing"
)

// Timeframes lists the selectable timeframes
var Timeframes = []Timeframe{
	TimeframeImmediately,
	TimeframeOneMonth,
	TimeframeThreeMonths,
	TimeframeSixMonths,
	TimeframeNextYear,
	TimeframeJustBrowsing,
}

// FeatureCatalog is the fixed list offered for must-have and preferred features
var FeatureCatalog = []string{
	"Garage",
	"Garden",
	"Pool",
	"Basement",
	"Balcony",
	"Fireplace",
	"Air Conditioning",
	"Furnished",
	"Elevator",
	"Gym",
	"Security System",
	"Waterfront",
	"Mountain View",
	"Pets Allowed",
	"Wheelchair Access",
}

// AnyLocation replaces an empty location when building a prompt
const AnyLocation = "Any location"

// Budget is a price range. Min <= Max is not enforced.
type Budget struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

// PropertyPreferences is what the buyer submitted through the form
type PropertyPreferences struct {
	Location          string       `json:"location"`
	Budget            Budget       `json:"budget"`
	Bedrooms          float64      `json:"bedrooms"`
	Bathrooms         float64      `json:"bathrooms"`
	PropertyType      PropertyType `json:"propertyType"`
	MustHaveFeatures  []string     `json:"mustHaveFeatures"`
	PreferredFeatures []string     `json:"preferredFeatures"`
	Timeframe         Timeframe    `json:"timeframe"`
	AdditionalInfo    string       `json:"additionalInfo"`
	Language          Language     `json:"language"`
}

// DefaultPreferences mirrors the form's initial state
func DefaultPreferences() PropertyPreferences {
	return PropertyPreferences{
		Budget:            Budget{Min: 100000, Max: 500000},
		Bedrooms:          2,
		Bathrooms:         2,
		PropertyType:      PropertyTypeHouse,
		MustHaveFeatures:  []string{},
		PreferredFeatures: []string{},
		Timeframe:         TimeframeThreeMonths,
		Language:          LanguageEnglish,
	}
}

// Clone returns a deep copy; feature slices are not shared.
func (p PropertyPreferences) Clone() PropertyPreferences {
	out := p
	out.MustHaveFeatures = append([]string(nil), p.MustHaveFeatures...)
	out.PreferredFeatures = append([]string(nil), p.PreferredFeatures...)
	return out
}
