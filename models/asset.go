// models/asset.go
package models

import (
	"fmt"
	"time"
)

const AssetTable = "assets"

type AssetStatus string

const (
	AssetAvailable   AssetStatus = "available"
	AssetBorrowed    AssetStatus = "borrowed"
	AssetUnderRepair AssetStatus = "under_repair"
	AssetDamaged     AssetStatus = "damaged"
	AssetDeleted     AssetStatus = "deleted" // soft delete marker
)

func ParseAssetStatus(v string) (AssetStatus, error) {
	s := AssetStatus(v)
	switch s {
	case AssetAvailable, AssetBorrowed, AssetUnderRepair, AssetDamaged, AssetDeleted:
		return s, nil
	}
	return "", fmt.Errorf("invalid asset status: %s", v)
}

// Asset rows are created by the asset registry; this service only moves Status.
// Version increases by one on every status write and guards those writes.
type Asset struct {
	ID           string      `gorm:"type:uuid;primaryKey" json:"id"`
	AssetCode    string      `gorm:"size:50;uniqueIndex;not null" json:"assetCode"`
	Name         string      `gorm:"size:255;not null" json:"name"`
	CategoryID   string      `gorm:"type:uuid;index;not null" json:"categoryId"`
	LocationID   string      `gorm:"type:uuid;index;not null" json:"locationId"`
	SupplierID   *string     `gorm:"type:uuid" json:"supplierId,omitempty"`
	Brand        *string     `gorm:"size:100" json:"brand,omitempty"`
	SerialNumber *string     `gorm:"size:100" json:"serialNumber,omitempty"`
	Status       AssetStatus `gorm:"size:20;not null;default:'available'" json:"status"`
	Version      uint64      `gorm:"not null;default:1" json:"version"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (Asset) TableName() string { return AssetTable }
