package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a stored product record. A product is stocked in
// packets of ItemsPerPacket units; monetary columns are NUMERIC and scanned
// into decimals to avoid binary floating-point drift.
type Product struct {
	ID              uuid.UUID       `db:"id" json:"id"`
	BusinessID      uuid.UUID       `db:"business_id" json:"businessId"`
	Name            string          `db:"name" json:"name"`
	Description     string          `db:"description" json:"description"`
	Images          pq.StringArray  `db:"images" json:"images"`
	PricePerItem    decimal.Decimal `db:"price_per_item" json:"pricePerItem"`
	Packets         int             `db:"packets" json:"packets"`
	ItemsPerPacket  int             `db:"items_per_packet" json:"itemsPerPacket"`
	FulfillmentCost decimal.Decimal `db:"fulfillment_cost" json:"fulfillmentCost"`
	CreatedAt       time.Time       `db:"created_at" json:"-"`
	UpdatedAt       time.Time       `db:"updated_at" json:"-"`
}

// ProductSummary is the outward-facing discovery DTO for a product,
// including the derived packet/pricing breakdown.
type ProductSummary struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	TotalPrice           decimal.Decimal `json:"totalPrice"`
	TotalQuantity        int             `json:"totalQuantity"`
	Images               []string        `json:"images"`
	BusinessID           uuid.UUID       `json:"businessId"`
	BusinessName         string          `json:"businessName"`
	FullPacketsAvailable int             `json:"fullPacketsAvailable"`
	AdditionalUnits      int             `json:"additionalUnits"`
	ItemsPerPacket       int             `json:"itemsPerPacket"`
	UnitPrice            decimal.Decimal `json:"unitPrice"`
	FulfillmentCost      decimal.Decimal `json:"fulfillmentCost"`
	PacketPrice          decimal.Decimal `json:"packetPrice"`
	DistanceKm           *float64        `json:"distanceKm,omitempty"`
	FormattedDistance    *string         `json:"formattedDistance,omitempty"`
}
