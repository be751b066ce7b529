package dto

// SchoolRequest carries the fields for creating or replacing a school.
type SchoolRequest struct {
	ID                 string `json:"id" validate:"required,max=50"`
	Name               string `json:"name" validate:"required,max=255"`
	Enrollees          int    `json:"enrollees" validate:"gte=0,lte=2147483647"`
	ResourcesAllocated int    `json:"resourcesAllocated" validate:"gte=0,lte=2147483647"`
	District           string `json:"district" validate:"required,max=100"`
	Level              string `json:"level" validate:"required"`
	Principal          string `json:"principal" validate:"max=255"`
	Contact            string `json:"contact" validate:"max=50"`
	Email              string `json:"email" validate:"omitempty,email,max=255"`
}
