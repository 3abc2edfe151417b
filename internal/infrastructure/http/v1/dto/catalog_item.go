package dto

import (
	"airsolutions/internal/core/types"
	"airsolutions/internal/domain/catalogs/catalogitem"
)

// CatalogItemRequest carries the editable fields of a catalog item.
type CatalogItemRequest struct {
	Name        string          `json:"name" validate:"max=200"`
	Description *string         `json:"description" validate:"omitempty,max=1000"`
	ItemType    string          `json:"itemType" validate:"max=20"`
	Nivel       *string         `json:"nivel" validate:"omitempty,max=50"`
	SKU         *string         `json:"sku" validate:"omitempty,max=50"`
	Unit        *string         `json:"unit" validate:"omitempty,max=30"`
	BasePrice   types.NullMoney `json:"basePrice"`
	Cost        types.NullMoney `json:"cost"`
	IsTaxable   bool            `json:"isTaxable"`
	IsActive    *bool           `json:"isActive"`
}

// ToEntity maps the request onto a catalog item. IsActive defaults to true.
func (r *CatalogItemRequest) ToEntity() *catalogitem.CatalogItem {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &catalogitem.CatalogItem{
		Name:        r.Name,
		Description: r.Description,
		ItemType:    catalogitem.ItemType(r.ItemType),
		Nivel:       r.Nivel,
		SKU:         r.SKU,
		Unit:        r.Unit,
		BasePrice:   r.BasePrice,
		Cost:        r.Cost,
		IsTaxable:   r.IsTaxable,
		IsActive:    active,
	}
}
