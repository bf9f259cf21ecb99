package models

import "time"

// ProductCategory is the coarse classification used by the catalog and the
// configurator when matching equipment to a welding process.
type ProductCategory string

const (
	CategoryMIGWelder    ProductCategory = "mig_welder"
	CategoryTIGWelder    ProductCategory = "tig_welder"
	CategoryStickWelder  ProductCategory = "stick_welder"
	CategoryMultiProcess ProductCategory = "multi_process"
	CategoryWireFeeder   ProductCategory = "wire_feeder"
	CategoryAccessory    ProductCategory = "accessory"
	CategoryConsumable   ProductCategory = "consumable"
)

// Product is a single catalog entry for a piece of welding equipment.
type Product struct {
	// ID is the catalog identifier.
	ID int64 `json:"id"`

	// SKU is the manufacturer stock keeping unit.
	SKU string `json:"sku"`

	// Name is the display name (e.g. "PowerArc 350 MIG").
	Name string `json:"name"`

	// Category classifies the product for configurator matching.
	Category ProductCategory `json:"category"`

	// Description is the long-form marketing/spec text.
	Description string `json:"description,omitempty"`

	// AmperageMin and AmperageMax bound the output range in amperes.
	// Zero values mean the range is not applicable (accessories,
	// consumables).
	AmperageMin int `json:"amperage_min,omitempty"`
	AmperageMax int `json:"amperage_max,omitempty"`

	// DutyCyclePct is the rated duty cycle at maximum output.
	DutyCyclePct int `json:"duty_cycle_pct,omitempty"`

	// PriceCents is the list price in cents. Quotes may discount it.
	PriceCents int64 `json:"price_cents"`
}

// InventoryStatus reports availability of one product at one location,
// as served by the inventory API.
type InventoryStatus struct {
	ProductID int64     `json:"product_id"`
	SKU       string    `json:"sku"`
	Warehouse string    `json:"warehouse"`
	Available int       `json:"available"`
	LeadDays  int       `json:"lead_days,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}
