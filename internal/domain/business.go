package domain

import (
	"time"

	"github.com/google/uuid"
)

// MaxProductImages is the most product images a listing can carry
const MaxProductImages = 3

// BusinessOption is one of the selectable service options of a listing
type BusinessOption string

const (
	OptionCashOnDelivery  BusinessOption = "Cash on Delivery"
	OptionPickupInStore   BusinessOption = "Pickup in Store"
	OptionDigitalPayments BusinessOption = "Digital Payments"
	OptionNextDayDelivery BusinessOption = "Next Day Delivery"
)

// BusinessOptions lists every option in display order
var BusinessOptions = []BusinessOption{
	OptionCashOnDelivery,
	OptionPickupInStore,
	OptionDigitalPayments,
	OptionNextDayDelivery,
}

// Valid reports whether o is a known option
func (o BusinessOption) Valid() bool {
	for _, known := range BusinessOptions {
		if o == known {
			return true
		}
	}
	return false
}

// Business represents a persisted business listing
type Business struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	OwnerID            uuid.UUID  `json:"owner_id" db:"owner_id"`
	Name               string     `json:"name" db:"name"`
	Description        *string    `json:"description" db:"description"`
	Category           string     `json:"category" db:"category"`
	Phone              *string    `json:"phone" db:"phone"`
	Address            *string    `json:"address" db:"address"`
	City               *string    `json:"city" db:"city"`
	State              *string    `json:"state" db:"state"`
	ZipCode            *string    `json:"zip_code" db:"zip_code"`
	Website            *string    `json:"website" db:"website"`
	FacebookPage       *string    `json:"facebook_page" db:"facebook_page"`
	TikTokURL          *string    `json:"tiktok_url" db:"tiktok_url"`
	Rating             float64    `json:"rating" db:"rating"`
	ImageURL           *string    `json:"image_url" db:"image_url"`
	ProductImages      []string   `json:"product_images" db:"product_images"`
	ProductsCatalog    *string    `json:"products_catalog" db:"products_catalog"`
	BusinessOptions    []string   `json:"business_options" db:"business_options"`
	StartingPrice      *float64   `json:"starting_price" db:"starting_price"`
	LicenseExpiredDate *time.Time `json:"license_expired_date" db:"license_expired_date"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// BusinessInsert is the row handed to the backend when a listing is created.
// Optional text is nil rather than empty; BusinessOptions and ProductImages
// are nil when nothing was selected. StartingPrice and LicenseExpiredDate
// carry the text as entered and are converted by the database.
type BusinessInsert struct {
	OwnerID            uuid.UUID `json:"owner_id"`
	Name               string    `json:"name"`
	Description        *string   `json:"description"`
	Category           string    `json:"category"`
	Phone              *string   `json:"phone"`
	Address            *string   `json:"address"`
	City               *string   `json:"city"`
	State              *string   `json:"state"`
	ZipCode            *string   `json:"zip_code"`
	Website            *string   `json:"website"`
	ImageURL           *string   `json:"image_url"`
	FacebookPage       *string   `json:"facebook_page"`
	TikTokURL          *string   `json:"tiktok_url"`
	StartingPrice      *string   `json:"starting_price"`
	BusinessOptions    []string  `json:"business_options"`
	ProductsCatalog    *string   `json:"products_catalog"`
	LicenseExpiredDate *string   `json:"license_expired_date"`
	ProductImages      []string  `json:"product_images"`
}
