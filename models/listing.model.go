package models

import "gorm.io/gorm"

// Listing is a rentable property that reviews attach to. Rows are created
// lazily during ingestion with the provider's listing id as primary key.
type Listing struct {
	gorm.Model
	Name      string `gorm:"default:''" json:"name"`
	IsDeleted bool   `gorm:"default:false" json:"-"`
}
