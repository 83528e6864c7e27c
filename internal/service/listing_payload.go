package service

import (
	"reflect"
	"strings"

	"bizdirectory/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = newValidator()

// newValidator reports fields by their form names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("form")
	})
	return v
}

// listingForm holds the inputs the form marks as required. Everything else
// is checked by the database on insert.
type listingForm struct {
	Name     string `form:"name" validate:"required"`
	Category string `form:"category" validate:"required"`
}

// ValidationError reports draft fields that cannot be submitted
type ValidationError struct {
	Errs validator.ValidationErrors
}

func (e *ValidationError) Error() string {
	return "invalid listing: " + strings.Join(e.Fields(), ", ")
}

func (e *ValidationError) Unwrap() error {
	return e.Errs
}

// Fields lists the offending fields by form name
func (e *ValidationError) Fields() []string {
	fields := make([]string, 0, len(e.Errs))
	for _, fe := range e.Errs {
		fields = append(fields, fe.Field())
	}
	return fields
}

// Validate checks the required fields before any backend call
func (d *ListingDraft) Validate() error {
	form := listingForm{
		Name:     d.Get(FieldName),
		Category: d.Get(FieldCategory),
	}

	if err := validate.Struct(form); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			return &ValidationError{Errs: verrs}
		}
		return err
	}
	return nil
}

// BuildPayload maps a draft plus upload results to the insert row.
// Empty optional text becomes nil, and an empty option or image selection
// becomes a nil list rather than an empty one.
func BuildPayload(d *ListingDraft, ownerID uuid.UUID, logoURL *string, productImageURLs []string) *domain.BusinessInsert {
	row := &domain.BusinessInsert{
		OwnerID:            ownerID,
		Name:               d.Get(FieldName),
		Description:        optional(d.Get(FieldDescription)),
		Category:           d.Get(FieldCategory),
		Phone:              optional(d.Get(FieldPhone)),
		Address:            optional(d.Get(FieldAddress)),
		City:               optional(d.Get(FieldCity)),
		State:              optional(d.Get(FieldState)),
		ZipCode:            optional(d.Get(FieldZipCode)),
		Website:            optional(d.Get(FieldWebsite)),
		ImageURL:           logoURL,
		FacebookPage:       optional(d.Get(FieldFacebookPage)),
		TikTokURL:          optional(d.Get(FieldTikTokURL)),
		StartingPrice:      optional(d.Get(FieldStartingPrice)),
		ProductsCatalog:    optional(d.Get(FieldProductsCatalog)),
		LicenseExpiredDate: optional(d.Get(FieldLicenseExpiredDate)),
	}

	if options := d.Options(); len(options) > 0 {
		row.BusinessOptions = make([]string, len(options))
		for i, o := range options {
			row.BusinessOptions[i] = string(o)
		}
	}

	if len(productImageURLs) > 0 {
		row.ProductImages = append([]string(nil), productImageURLs...)
	}

	return row
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
