// Package model holds the GORM table structs.
package model

import "time"

// DocumentModel is the GORM-specific struct for the 'kv_documents' table.
// Each row holds one JSON document of the storefront namespace.
type DocumentModel struct {
	Key       string `gorm:"column:key;type:varchar(255);primaryKey"`
	Value     string `gorm:"column:value;type:jsonb;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (DocumentModel) TableName() string {
	return "kv_documents"
}
