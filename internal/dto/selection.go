package dto

// ChooseCategoryRequest moves a selection from category to item choice.
type ChooseCategoryRequest struct {
	Category string `json:"category"`
	SchoolID string `json:"schoolId"`
	Quarter  string `json:"quarter"`
}

// SubmitSelectionRequest completes a selection. ItemID is sent as the option
// value string; ResourceName is used for categories without a catalog.
type SubmitSelectionRequest struct {
	ItemID       string `json:"itemId"`
	ResourceName string `json:"resourceName"`
	Quantity     int    `json:"quantity"`
	Notes        string `json:"notes"`
}
