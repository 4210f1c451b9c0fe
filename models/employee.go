package models

// Employee represents one staff member's digital business card record.
// It corresponds to the 'employees' table.
//
// JSON field names mirror the published data file consumed by the static
// card page, so a snapshot of this struct can be committed verbatim.
type Employee struct {
	ID                 string `gorm:"primaryKey" json:"id"`
	Name               string `gorm:"not null" json:"name"`
	Designation        string `json:"designation,omitempty"`
	Mobile             string `json:"mobile,omitempty"`
	Email              string `json:"email,omitempty"`
	Website            string `json:"website,omitempty"`
	Address            string `json:"address,omitempty"`
	Whatsapp           string `json:"whatsapp,omitempty"`
	GoogleLocationLink string `json:"googleLocationLink,omitempty"`
	Facebook           string `json:"facebook,omitempty"`
	Linkedin           string `json:"linkedin,omitempty"`
	Instagram          string `json:"instagram,omitempty"`
	CatalogueLink      string `json:"catalogueLink,omitempty"`
	PhotoURL           string `json:"photo,omitempty"` // data URL or hosted-asset URL
	LogoURL            string `json:"logo,omitempty"`  // company logo override
	CreatedAt          int64  `gorm:"not null" json:"createdAt"` // Unix milliseconds, set once
	UpdatedAt          int64  `gorm:"not null" json:"updatedAt"` // Unix milliseconds, advances on every save
}

// TableName explicitly sets the table name for GORM.
func (Employee) TableName() string {
	return "employees"
}
