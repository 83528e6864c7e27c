package service

import (
	"context"
	"slices"
	"strings"
	"sync"

	"bizdirectory/internal/domain"
	"bizdirectory/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	PlaceholderImage = "/placeholder.svg"
	PlaceholderLogo  = "/placeholder-logo.svg"
	StarCount        = 5
)

// GalleryBadges is the badge row shown on every card. It is the same for
// all businesses and does not reflect a record's own options.
var GalleryBadges = []string{
	string(domain.OptionCashOnDelivery),
	string(domain.OptionPickupInStore),
	string(domain.OptionDigitalPayments),
	string(domain.OptionNextDayDelivery),
}

// Gallery lists public businesses as cards. Each Gallery fetches at most
// once, on its first Mount.
type Gallery struct {
	directory BusinessDirectory
	logger    *zap.Logger
	metrics   *metrics.Metrics

	once       sync.Once
	mu         sync.RWMutex
	loading    bool
	businesses []*domain.Business
}

// NewGallery creates an unmounted gallery
func NewGallery(directory BusinessDirectory, logger *zap.Logger, m *metrics.Metrics) *Gallery {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.NewNop()
	}
	return &Gallery{
		directory:  directory,
		logger:     logger,
		metrics:    m,
		businesses: []*domain.Business{},
	}
}

// Mount fetches the public business list. Only the first call does any
// work; a failed fetch is logged and leaves the previous list in place.
func (g *Gallery) Mount(ctx context.Context) {
	g.once.Do(func() {
		g.setLoading(true)
		defer g.setLoading(false)

		businesses, err := g.directory.ListPublic(ctx)
		if err != nil {
			g.logger.Error("Failed to fetch public businesses", zap.Error(err))
			g.metrics.GalleryFetches.WithLabelValues("error").Inc()
			return
		}
		if businesses == nil {
			businesses = []*domain.Business{}
		}

		g.mu.Lock()
		g.businesses = businesses
		g.mu.Unlock()

		g.metrics.GalleryFetches.WithLabelValues("ok").Inc()
		g.metrics.GalleryListed.Set(float64(len(businesses)))
	})
}

func (g *Gallery) setLoading(loading bool) {
	g.mu.Lock()
	g.loading = loading
	g.mu.Unlock()
}

// Loading reports whether the fetch is in flight
func (g *Gallery) Loading() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loading
}

// Businesses returns the fetched rows in backend order
func (g *Gallery) Businesses() []*domain.Business {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return slices.Clone(g.businesses)
}

// OpenCatalog is the catalog button action. No catalog view exists yet,
// so it only records the click.
func (g *Gallery) OpenCatalog(id uuid.UUID) {
	g.logger.Debug("Catalog view requested", zap.String("business_id", id.String()))
}

// GalleryView is the rendered gallery
type GalleryView struct {
	Loading bool           `json:"loading"`
	Cards   []BusinessCard `json:"cards"`
}

// BusinessCard is the summary card for one business
type BusinessCard struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	DetailPath   string      `json:"detail_path"`
	PrimaryImage string      `json:"primary_image"`
	Logo         CardLogo    `json:"logo"`
	Rating       float64     `json:"rating"`
	Stars        []bool      `json:"stars"`
	Location     string      `json:"location"`
	Description  *string     `json:"description,omitempty"`
	Badges       []string    `json:"badges"`
	Actions      CardActions `json:"actions"`
}

// CardLogo is the logo tile with its verified overlay
type CardLogo struct {
	URL      string `json:"url"`
	Verified bool   `json:"verified"`
}

// CardActions are the two buttons at the bottom of a card
type CardActions struct {
	ViewCatalog  CardAction  `json:"view_catalog"`
	VisitWebsite *CardAction `json:"visit_website,omitempty"`
}

// CardAction describes one button
type CardAction struct {
	Label  string `json:"label"`
	URL    string `json:"url,omitempty"`
	NewTab bool   `json:"new_tab,omitempty"`
}

// Render maps the current list to cards
func (g *Gallery) Render() GalleryView {
	g.mu.RLock()
	defer g.mu.RUnlock()

	view := GalleryView{Loading: g.loading, Cards: make([]BusinessCard, 0, len(g.businesses))}
	for _, b := range g.businesses {
		view.Cards = append(view.Cards, RenderCard(b))
	}
	return view
}

// RenderCard builds the card for a single business
func RenderCard(b *domain.Business) BusinessCard {
	card := BusinessCard{
		ID:           b.ID,
		Name:         b.Name,
		Category:     b.Category,
		DetailPath:   BusinessDetailRoute(b.ID),
		PrimaryImage: PlaceholderImage,
		Logo:         CardLogo{URL: PlaceholderLogo, Verified: true},
		Rating:       b.Rating,
		Stars:        StarRow(b.Rating),
		Location:     Location(b),
		Badges:       append([]string(nil), GalleryBadges...),
		Actions: CardActions{
			ViewCatalog: CardAction{Label: "View Catalog"},
		},
	}

	if len(b.ProductImages) > 0 && b.ProductImages[0] != "" {
		card.PrimaryImage = b.ProductImages[0]
	}
	if b.ImageURL != nil && *b.ImageURL != "" {
		card.Logo.URL = *b.ImageURL
	}
	if b.Description != nil && *b.Description != "" {
		card.Description = b.Description
	}
	if b.Website != nil && *b.Website != "" {
		card.Actions.VisitWebsite = &CardAction{Label: "Visit Website", URL: *b.Website, NewTab: true}
	}

	return card
}

// StarRow compares each of the five star positions against rating;
// position i (1-based) is filled when i <= rating
func StarRow(rating float64) []bool {
	stars := make([]bool, StarCount)
	for i := range stars {
		stars[i] = float64(i+1) <= rating
	}
	return stars
}

// Location is the "City, State" line of a card, skipping missing parts
func Location(b *domain.Business) string {
	var parts []string
	for _, p := range []*string{b.City, b.State} {
		if p != nil && *p != "" {
			parts = append(parts, *p)
		}
	}
	return strings.Join(parts, ", ")
}
