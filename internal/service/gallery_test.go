package service

import (
	"context"
	"errors"
	"math"
	"testing"

	"bizdirectory/internal/domain"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestGallery_MountFetchesOnce(t *testing.T) {
	dir := &mockDirectory{businesses: []*domain.Business{
		{ID: uuid.New(), Name: "Newest", Category: "Retail"},
		{ID: uuid.New(), Name: "Older", Category: "Food"},
	}}
	g := NewGallery(dir, nil, nil)

	g.Mount(context.Background())
	g.Mount(context.Background())

	assert.Equal(t, 1, dir.calls)
	assert.False(t, g.Loading())

	view := g.Render()
	require.Len(t, view.Cards, 2)
	assert.Equal(t, "Newest", view.Cards[0].Name, "backend order is kept")
	assert.Equal(t, "Older", view.Cards[1].Name)
}

func TestGallery_FetchFailureLeavesEmptyList(t *testing.T) {
	dir := &mockDirectory{err: errors.New("permission denied for function get_public_businesses")}
	g := NewGallery(dir, nil, nil)

	assert.NotPanics(t, func() { g.Mount(context.Background()) })

	assert.Equal(t, 1, dir.calls)
	assert.NotNil(t, g.Businesses())
	assert.Empty(t, g.Businesses())
	assert.Empty(t, g.Render().Cards)
	assert.False(t, g.Render().Loading)
}

func TestGallery_NilResultIsEmpty(t *testing.T) {
	g := NewGallery(&mockDirectory{}, nil, nil)
	g.Mount(context.Background())
	assert.NotNil(t, g.Render().Cards)
}

func TestStarRow_PartialRatingRoundsDown(t *testing.T) {
	assert.Equal(t, []bool{true, true, true, false, false}, StarRow(3.7))
	assert.Equal(t, []bool{false, false, false, false, false}, StarRow(0))
	assert.Equal(t, []bool{true, true, true, true, true}, StarRow(5))
}

func TestProperty_StarRowFillsFloorOfRating(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("filled stars equal floor(rating) capped at five", prop.ForAll(
		func(rating float64) bool {
			stars := StarRow(rating)
			if len(stars) != StarCount {
				return false
			}
			filled := 0
			for i, s := range stars {
				if s {
					filled++
					// filled stars are always a prefix
					if i+1 != filled {
						return false
					}
				}
			}
			want := int(math.Min(math.Floor(rating), StarCount))
			return filled == want
		},
		gen.Float64Range(0, 5),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestRenderCard_Placeholders(t *testing.T) {
	id := uuid.New()
	card := RenderCard(&domain.Business{ID: id, Name: "Plain", Category: "Services", Rating: 3.7})

	assert.Equal(t, PlaceholderImage, card.PrimaryImage)
	assert.Equal(t, PlaceholderLogo, card.Logo.URL)
	assert.True(t, card.Logo.Verified)
	assert.Equal(t, "/business/"+id.String(), card.DetailPath)
	assert.Nil(t, card.Description)
	assert.Empty(t, card.Location)
	assert.Nil(t, card.Actions.VisitWebsite)
	assert.Equal(t, "View Catalog", card.Actions.ViewCatalog.Label)
	assert.Equal(t, []bool{true, true, true, false, false}, card.Stars)
}

func TestRenderCard_FullRecord(t *testing.T) {
	b := &domain.Business{
		ID:              uuid.New(),
		Name:            "Joe's Cafe",
		Category:        "Restaurant",
		Description:     strPtr("Coffee shop"),
		City:            strPtr("Austin"),
		State:           strPtr("TX"),
		Website:         strPtr("https://joes.example.com"),
		ImageURL:        strPtr("https://cdn.test/business-logos/logo.png"),
		ProductImages:   []string{"https://cdn.test/product-images/a.png", "https://cdn.test/product-images/b.png"},
		BusinessOptions: []string{string(domain.OptionPickupInStore)},
		Rating:          4.2,
	}

	card := RenderCard(b)

	assert.Equal(t, "https://cdn.test/product-images/a.png", card.PrimaryImage)
	assert.Equal(t, "https://cdn.test/business-logos/logo.png", card.Logo.URL)
	assert.Equal(t, "Austin, TX", card.Location)
	require.NotNil(t, card.Description)
	assert.Equal(t, "Coffee shop", *card.Description)
	require.NotNil(t, card.Actions.VisitWebsite)
	assert.Equal(t, "https://joes.example.com", card.Actions.VisitWebsite.URL)
	assert.True(t, card.Actions.VisitWebsite.NewTab)
	assert.Equal(t, GalleryBadges, card.Badges, "badges do not follow the record's options")
}

func TestLocation_SkipsMissingParts(t *testing.T) {
	assert.Equal(t, "Austin", Location(&domain.Business{City: strPtr("Austin")}))
	assert.Equal(t, "TX", Location(&domain.Business{City: strPtr(""), State: strPtr("TX")}))
}

func TestGallery_OpenCatalogIsNoop(t *testing.T) {
	dir := &mockDirectory{}
	g := NewGallery(dir, nil, nil)
	g.OpenCatalog(uuid.New())
	assert.Equal(t, 0, dir.calls)
}
