package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"picks-site-backend-go/internal/mocks"
	"picks-site-backend-go/internal/models"
)

func newProductService() (ProductService, *mocks.MockProductRepository) {
	repo := mocks.NewMockProductRepository()
	return ProductService{Products: repo, Recommender: Recommender{Products: repo, Log: zerolog.Nop()}}, repo
}

func TestDefaultLink(t *testing.T) {
	links := []models.ProductLink{
		{ID: 1, Priority: 0, Status: models.LinkInactive, AffiliateURL: strPtr("https://a.example")},
		{ID: 2, Priority: 1, Status: models.LinkActive, DestinationURL: strPtr("https://d.example")},
		{ID: 3, Priority: 2, Status: models.LinkActive, AffiliateURL: strPtr("https://b.example")},
	}
	link := DefaultLink(links)
	require.NotNil(t, link)
	assert.Equal(t, int64(2), link.ID)
	assert.Equal(t, "https://d.example", LinkTarget(*link))

	assert.Equal(t, "https://b.example", LinkTarget(links[2]))
	assert.Nil(t, DefaultLink(links[:1]))
	assert.Nil(t, DefaultLink(nil))
}

func TestProductService_ResolveRedirect(t *testing.T) {
	svc, repo := newProductService()
	ctx := context.Background()
	repo.Seed(models.Product{ID: 1, Slug: "booker", Status: models.StatusPublished},
		models.ProductLink{Priority: 5, Status: models.LinkActive, DestinationURL: strPtr("https://late.example")},
		models.ProductLink{Priority: 1, Status: models.LinkActive, AffiliateURL: strPtr("https://aff.example/?ref=1"), DestinationURL: strPtr("https://plain.example")},
	)
	repo.Seed(models.Product{ID: 2, Slug: "hidden", Status: models.StatusDraft},
		models.ProductLink{Priority: 1, Status: models.LinkActive, AffiliateURL: strPtr("https://x.example")})
	repo.Seed(models.Product{ID: 3, Slug: "linkless", Status: models.StatusPublished})

	target, err := svc.ResolveRedirect(ctx, "booker")
	require.NoError(t, err)
	assert.Equal(t, "https://aff.example/?ref=1", target)

	for _, slug := range []string{"hidden", "linkless", "missing"} {
		_, err := svc.ResolveRedirect(ctx, slug)
		assert.Equal(t, 404, statusOf(t, err), slug)
	}
}

func TestProductService_CreateAndLinks(t *testing.T) {
	svc, _ := newProductService()
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{
		Name:     "Spa Booker Pro",
		Category: strPtr(" Booking "),
		Tags:     []string{"AI", "ai", " Spa "},
	})
	require.NoError(t, err)
	assert.Equal(t, "spa-booker-pro", p.Slug)
	assert.Equal(t, models.StatusDraft, p.Status)
	assert.Equal(t, "Booking", *p.Category)
	assert.Equal(t, []string{"AI", "Spa"}, []string(p.Tags))

	_, err = svc.CreateLink(ctx, p.ID, LinkInput{})
	assert.Equal(t, 400, statusOf(t, err))
	_, err = svc.CreateLink(ctx, p.ID, LinkInput{AffiliateURL: strPtr("ftp://x")})
	assert.Equal(t, 400, statusOf(t, err))
	_, err = svc.CreateLink(ctx, p.ID, LinkInput{DestinationURL: strPtr("https://x.example"), CountryCodes: []string{"USA"}})
	assert.Equal(t, 400, statusOf(t, err))

	link, err := svc.CreateLink(ctx, p.ID, LinkInput{
		DestinationURL: strPtr("https://x.example"),
		CountryCodes:   []string{"us", "gb"},
		Priority:       2,
	})
	require.NoError(t, err)
	assert.Equal(t, models.LinkActive, link.Status)
	assert.Equal(t, []string{"US", "GB"}, []string(link.CountryCodes))

	updated, err := svc.UpdateLink(ctx, link.ID, LinkInput{DestinationURL: strPtr("https://y.example"), Status: "inactive"})
	require.NoError(t, err)
	assert.Equal(t, models.LinkInactive, updated.Status)

	_, err = svc.CreateLink(ctx, 999, LinkInput{DestinationURL: strPtr("https://x.example")})
	assert.Equal(t, 404, statusOf(t, err))
}
