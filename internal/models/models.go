package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Company represents a competitor retailer whose prices are observed
type Company struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Location represents an optional store location of a company
type Location struct {
	ID        int64     `db:"id" json:"id"`
	CompanyID int64     `db:"company_id" json:"company_id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SKU represents a sellable package of a product: the product attributes
// (brand, category, ABV) flattened together with the package specification
// (container type/volume) and an optional pack assignment.
type SKU struct {
	ID            int64           `db:"id" json:"id"`
	Code          string          `db:"code" json:"code"`
	Brand         string          `db:"brand" json:"brand"`
	ProductName   string          `db:"product_name" json:"product_name"`
	Category      string          `db:"category" json:"category"`
	ABVPercent    decimal.Decimal `db:"abv_percent" json:"abv_percent"`
	ContainerType string          `db:"container_type" json:"container_type"`
	ContainerML   int             `db:"container_ml" json:"container_ml"`
	UnitsPerPack  sql.NullInt64   `db:"units_per_pack" json:"units_per_pack"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
}

// SKUCarton represents one carton specification for a SKU. CartonUnits is
// the total single-unit count; PackCount is set when the carton is composed
// of packs rather than loose units.
type SKUCarton struct {
	ID          int64         `db:"id" json:"id"`
	SKUID       int64         `db:"sku_id" json:"sku_id"`
	CartonUnits int           `db:"carton_units" json:"carton_units"`
	PackCount   sql.NullInt64 `db:"pack_count" json:"pack_count"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
}

// Cost types
const (
	CostTypeEstimated = "estimated"
	CostTypeKnown     = "known"
)

// CostRecord is one entry in a SKU's cost history. The three level costs
// are independently optional; absent ones may be derived from present ones
// and the SKU's pack size. Archived records stay in the table but are
// excluded from cost resolution.
type CostRecord struct {
	ID          int64               `db:"id" json:"id"`
	SKUID       int64               `db:"sku_id" json:"sku_id"`
	CostType    string              `db:"cost_type" json:"cost_type"`
	Currency    string              `db:"currency" json:"currency"`
	UnitCost    decimal.NullDecimal `db:"unit_cost" json:"unit_cost"`
	PackCost    decimal.NullDecimal `db:"pack_cost" json:"pack_cost"`
	CartonCost  decimal.NullDecimal `db:"carton_cost" json:"carton_cost"`
	EffectiveAt time.Time           `db:"effective_at" json:"effective_at"`
	ArchivedAt  sql.NullTime        `db:"archived_at" json:"archived_at,omitempty"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updated_at"`
}

// Archived reports whether the record has been soft deleted.
func (c *CostRecord) Archived() bool {
	return c.ArchivedAt.Valid
}

// Sales channels
const (
	ChannelInStore = "in_store"
	ChannelOnline  = "online"
	ChannelTrade   = "trade"
)

// Price contexts
const (
	PriceContextShelf  = "shelf"
	PriceContextPromo  = "promo"
	PriceContextMember = "member"
	PriceContextOnline = "online"
	PriceContextQuote  = "quote"
	PriceContextOther  = "other"
)

// Price bases
const (
	PriceBasisUnit   = "unit"
	PriceBasisPack   = "pack"
	PriceBasisCarton = "carton"
)

// PriceObservation is one observed competitor price, fully normalized at
// creation time. Derived fields are fixed then and never recomputed.
type PriceObservation struct {
	ID           int64         `db:"id" json:"id"`
	SKUID        int64         `db:"sku_id" json:"sku_id"`
	CompanyID    int64         `db:"company_id" json:"company_id"`
	LocationID   sql.NullInt64 `db:"location_id" json:"location_id,omitempty"`
	ObservedAt   time.Time     `db:"observed_at" json:"observed_at"`
	Channel      string        `db:"channel" json:"channel"`
	PriceContext string        `db:"price_context" json:"price_context"`

	IsCartonPrice bool          `db:"is_carton_price" json:"is_carton_price"`
	IsPackPrice   bool          `db:"is_pack_price" json:"is_pack_price"`
	CartonUnits   sql.NullInt64 `db:"carton_units" json:"carton_units,omitempty"`

	PriceExGST  decimal.Decimal     `db:"price_ex_gst" json:"price_ex_gst"`
	PriceIncGST decimal.Decimal     `db:"price_inc_gst" json:"price_inc_gst"`
	UnitPrice   decimal.Decimal     `db:"unit_price" json:"unit_price"`
	PackPrice   decimal.NullDecimal `db:"pack_price" json:"pack_price"`
	CartonPrice decimal.NullDecimal `db:"carton_price" json:"carton_price"`
	PriceBasis  string              `db:"price_basis" json:"price_basis"`

	PricePerLitre    decimal.Decimal `db:"price_per_litre" json:"price_per_litre"`
	StandardDrinks   decimal.Decimal `db:"standard_drinks" json:"standard_drinks"`
	PricePerStdDrink decimal.Decimal `db:"price_per_std_drink" json:"price_per_std_drink"`

	UnitGPAbs   decimal.NullDecimal `db:"unit_gp_abs" json:"unit_gp_abs"`
	UnitGPPct   decimal.NullDecimal `db:"unit_gp_pct" json:"unit_gp_pct"`
	PackGPAbs   decimal.NullDecimal `db:"pack_gp_abs" json:"pack_gp_abs"`
	PackGPPct   decimal.NullDecimal `db:"pack_gp_pct" json:"pack_gp_pct"`
	CartonGPAbs decimal.NullDecimal `db:"carton_gp_abs" json:"carton_gp_abs"`
	CartonGPPct decimal.NullDecimal `db:"carton_gp_pct" json:"carton_gp_pct"`

	HashKey    string       `db:"hash_key" json:"hash_key"`
	ArchivedAt sql.NullTime `db:"archived_at" json:"archived_at,omitempty"`
	CreatedAt  time.Time    `db:"created_at" json:"created_at"`
}

// Archived reports whether the observation has been soft deleted.
func (o *PriceObservation) Archived() bool {
	return o.ArchivedAt.Valid
}
