// Package catalogitem provides the catalog of services, products and
// materials that quote and invoice lines are priced from.
package catalogitem

import (
	"context"
	"strings"

	"airsolutions/internal/core/apperror"
	"airsolutions/internal/core/entity"
	"airsolutions/internal/core/types"
)

// ItemType classifies a catalog item.
type ItemType string

const (
	TypeService  ItemType = "Service"
	TypeProduct  ItemType = "Product"
	TypeMaterial ItemType = "Material"
	TypeOther    ItemType = "Other"
)

// IsValid reports whether t is one of the known item types.
func (t ItemType) IsValid() bool {
	switch t {
	case TypeService, TypeProduct, TypeMaterial, TypeOther:
		return true
	}
	return false
}

// CatalogItem is a sellable service, product or material.
type CatalogItem struct {
	entity.BaseEntity

	Name        string   `db:"name" json:"name"`
	Description *string  `db:"description" json:"description,omitempty"`
	ItemType    ItemType `db:"item_type" json:"itemType"`

	// Nivel is the service level; required for services only
	Nivel *string `db:"nivel" json:"nivel,omitempty"`

	SKU  *string `db:"sku" json:"sku,omitempty"`
	Unit *string `db:"unit" json:"unit,omitempty"`

	BasePrice types.NullMoney `db:"base_price" json:"basePrice"`
	Cost      types.NullMoney `db:"cost" json:"cost"`

	IsTaxable bool `db:"is_taxable" json:"isTaxable"`
	IsActive  bool `db:"is_active" json:"isActive"`
}

// NewCatalogItem creates an active item with a fresh id.
func NewCatalogItem() *CatalogItem {
	return &CatalogItem{
		BaseEntity: entity.NewBaseEntity(),
		IsActive:   true,
	}
}

// Normalize trims text fields; blank optional fields become nil.
func (c *CatalogItem) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.ItemType = ItemType(strings.TrimSpace(string(c.ItemType)))
	c.Description = types.TrimToNil(c.Description)
	c.Nivel = types.TrimToNil(c.Nivel)
	c.SKU = types.TrimToNil(c.SKU)
	c.Unit = types.TrimToNil(c.Unit)
}

// Validate implements entity.Validatable.
func (c *CatalogItem) Validate(_ context.Context) error {
	var v apperror.Collector
	if strings.TrimSpace(c.Name) == "" {
		v.Add("name is required")
	}
	switch {
	case c.ItemType == "":
		v.Add("itemType is required")
	case !c.ItemType.IsValid():
		v.Add("itemType must be 'Service', 'Product', 'Material' or 'Other'")
	}
	if c.ItemType == TypeService && types.IsBlank(c.Nivel) {
		v.Add("nivel is required when itemType is Service")
	}
	return v.Err()
}

// Apply copies the editable fields of src onto c.
func (c *CatalogItem) Apply(src *CatalogItem) {
	c.Name = src.Name
	c.Description = src.Description
	c.ItemType = src.ItemType
	c.Nivel = src.Nivel
	c.SKU = src.SKU
	c.Unit = src.Unit
	c.BasePrice = src.BasePrice
	c.Cost = src.Cost
	c.IsTaxable = src.IsTaxable
	c.IsActive = src.IsActive
}

// SearchText is the lower-cased name and description used for matching.
func (c *CatalogItem) SearchText() string {
	return strings.ToLower(c.Name + " " + types.StringValue(c.Description))
}
