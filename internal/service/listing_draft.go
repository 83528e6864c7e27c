package service

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	"bizdirectory/internal/domain"
)

// DraftField names a text field of the listing form
type DraftField string

const (
	FieldName               DraftField = "name"
	FieldDescription        DraftField = "description"
	FieldCategory           DraftField = "category"
	FieldPhone              DraftField = "phone"
	FieldLicenseExpiredDate DraftField = "license_expired_date"
	FieldAddress            DraftField = "address"
	FieldCity               DraftField = "city"
	FieldState              DraftField = "state"
	FieldZipCode            DraftField = "zip_code"
	FieldWebsite            DraftField = "website"
	FieldFacebookPage       DraftField = "facebook_page"
	FieldTikTokURL          DraftField = "tiktok_url"
	FieldStartingPrice      DraftField = "starting_price"
	FieldProductsCatalog    DraftField = "products_catalog"
)

// DraftFields lists every text field in form order
var DraftFields = []DraftField{
	FieldName,
	FieldDescription,
	FieldCategory,
	FieldPhone,
	FieldLicenseExpiredDate,
	FieldAddress,
	FieldCity,
	FieldState,
	FieldZipCode,
	FieldWebsite,
	FieldFacebookPage,
	FieldTikTokURL,
	FieldStartingPrice,
	FieldProductsCatalog,
}

var (
	ErrUnknownField  = errors.New("unknown listing field")
	ErrUnknownOption = errors.New("unknown business option")
)

// ListingDraft is the in-progress listing form. It is owned by a single
// ListingScreen and never persisted. It is safe for concurrent use, so
// edits may arrive while a submission is in flight.
type ListingDraft struct {
	mu            sync.Mutex
	fields        map[DraftField]string
	options       []domain.BusinessOption
	logo          *domain.Upload
	productImages []domain.Upload
}

// NewListingDraft returns a draft with every field empty
func NewListingDraft() *ListingDraft {
	d := &ListingDraft{}
	d.reset()
	return d
}

// Reset discards everything entered so far
func (d *ListingDraft) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reset()
}

func (d *ListingDraft) reset() {
	d.fields = make(map[DraftField]string, len(DraftFields))
	for _, f := range DraftFields {
		d.fields[f] = ""
	}
	d.options = nil
	d.logo = nil
	d.productImages = nil
}

// Set updates a single text field
func (d *ListingDraft) Set(field DraftField, value string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.fields[field]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	d.fields[field] = value
	return nil
}

// Get returns the current value of a text field
func (d *ListingDraft) Get(field DraftField) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fields[field]
}

// ToggleOption checks or unchecks an option. Checked options keep the order
// in which they were checked.
func (d *ListingDraft) ToggleOption(option domain.BusinessOption, checked bool) error {
	if !option.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownOption, option)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	idx := slices.Index(d.options, option)
	switch {
	case checked && idx < 0:
		d.options = append(d.options, option)
	case !checked && idx >= 0:
		d.options = slices.Delete(d.options, idx, idx+1)
	}
	return nil
}

// Options returns the checked options
func (d *ListingDraft) Options() []domain.BusinessOption {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.options)
}

// SetLogo selects the logo file; nil clears it
func (d *ListingDraft) SetLogo(file *domain.Upload) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.logo = file
}

// Logo returns the selected logo, if any
func (d *ListingDraft) Logo() *domain.Upload {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.logo
}

// SetProductImages replaces the product image selection, keeping only the
// first domain.MaxProductImages files
func (d *ListingDraft) SetProductImages(files []domain.Upload) {
	if len(files) > domain.MaxProductImages {
		files = files[:domain.MaxProductImages]
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.productImages = slices.Clone(files)
}

// ProductImages returns the selected product images
func (d *ListingDraft) ProductImages() []domain.Upload {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.productImages)
}

// HasUploads reports whether submitting the draft needs object storage
func (d *ListingDraft) HasUploads() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.logo != nil || len(d.productImages) > 0
}

// clone copies the draft so an in-flight submission is isolated from edits
func (d *ListingDraft) clone() *ListingDraft {
	d.mu.Lock()
	defer d.mu.Unlock()
	c := &ListingDraft{
		fields:        make(map[DraftField]string, len(d.fields)),
		options:       slices.Clone(d.options),
		productImages: slices.Clone(d.productImages),
	}
	for k, v := range d.fields {
		c.fields[k] = v
	}
	if d.logo != nil {
		logo := *d.logo
		c.logo = &logo
	}
	return c
}

// safeFilename keeps only the last path element of a user supplied name
func safeFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "upload"
	}
	return base
}
