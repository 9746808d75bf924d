package domain

import "time"

// ResourceTier is the coarse compute label picked on the form.
type ResourceTier string

const (
	TierUnselected ResourceTier = "Select"
	TierLowGPU     ResourceTier = "Low GPU"
	TierMediumGPU  ResourceTier = "Medium GPU"
	TierHighGPU    ResourceTier = "High GPU"
)

const ConfidenceHigh = "HIGH"

// Tier is one selectable option of the resource catalog.
type Tier struct {
	Code         string       `db:"code" json:"code"`
	Label        ResourceTier `db:"label" json:"label"`
	EnergyWeight float64      `db:"energy_weight" json:"energy_weight"`
}

type TaskConfig struct {
	Name          string       `json:"name"`
	DurationHours int          `json:"duration_hours"`
	Tier          ResourceTier `json:"tier"`
}

type IntensitySample struct {
	BaseIntensity      int `json:"base_intensity"`
	OptimizedIntensity int `json:"optimized_intensity"`
}

type OptimizationResult struct {
	WindowStart      int     `json:"window_start"`
	WindowEnd        int     `json:"window_end"`
	ReductionPercent float64 `json:"reduction_percent"`
	CO2SavedKg       float64 `json:"co2_saved_kg"`
}

// Analysis is what one triggered submission produces. It lives for one render.
type Analysis struct {
	ID           string             `json:"id"`
	Task         TaskConfig         `json:"task"`
	Sample       IntensitySample    `json:"sample"`
	Result       OptimizationResult `json:"result"`
	StartLabel   string             `json:"start_label"`
	EndLabel     string             `json:"end_label"`
	Confidence   string             `json:"confidence"`
	EnergyWeight float64            `json:"energy_weight"`
	CreatedAt    time.Time          `json:"created_at"`
}
