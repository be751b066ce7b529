package models

// SchoolLevel is the tier a school serves.
type SchoolLevel string

const (
	SchoolLevelElementary SchoolLevel = "Elementary"
	SchoolLevelHighSchool SchoolLevel = "High School"
	SchoolLevelSeniorHigh SchoolLevel = "Senior High"
)

// Valid reports whether the level is one of the known tiers.
func (l SchoolLevel) Valid() bool {
	switch l {
	case SchoolLevelElementary, SchoolLevelHighSchool, SchoolLevelSeniorHigh:
		return true
	}
	return false
}

// School is a district school receiving resources. ID is the district-unique code.
type School struct {
	ID                 string      `db:"school_id" json:"id"`
	Name               string      `db:"name" json:"name"`
	Enrollees          int         `db:"enrollees" json:"enrollees"`
	ResourcesAllocated int         `db:"resources_allocated" json:"resourcesAllocated"`
	District           string      `db:"district" json:"district"`
	Level              SchoolLevel `db:"level" json:"level"`
	Principal          string      `db:"principal" json:"principal"`
	Contact            string      `db:"contact" json:"contact"`
	Email              string      `db:"email" json:"email"`
}
