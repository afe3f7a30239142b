package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"picks-site-backend-go/internal/models"
	"picks-site-backend-go/internal/repository"
)

const (
	PlaybookRecommendationLimit = 4
	ProductRecommendationLimit  = 6
	playbookCandidatePool       = 20
	categoryMatchScore          = 10
)

// Recommender ranks related playbooks and products. Both algorithms degrade to an empty
// list on store errors so a detail page never fails because of them.
type Recommender struct {
	Playbooks repository.PlaybookRepository
	Products  repository.ProductRepository
	Log       zerolog.Logger
}

// RecommendPlaybooks returns up to four published public playbooks related to the source,
// preferring the same category, then tag overlap, then recency.
func (r Recommender) RecommendPlaybooks(ctx context.Context, sourceID int64, categoryID *int64, tagIDs []int64) []models.Playbook {
	filter := repository.PlaybookFilter{
		Status:    models.StatusPublished,
		Access:    models.AccessPublic,
		ExcludeID: sourceID,
		Limit:     playbookCandidatePool,
	}

	var candidates []models.Playbook
	if categoryID != nil {
		sameCategory := filter
		sameCategory.CategoryID = categoryID
		items, err := r.Playbooks.List(ctx, sameCategory)
		if err != nil {
			r.Log.Warn().Err(err).Int64("playbook_id", sourceID).Msg("related playbooks: category candidates")
			return []models.Playbook{}
		}
		candidates = items
	}
	if len(candidates) == 0 {
		items, err := r.Playbooks.List(ctx, filter)
		if err != nil {
			r.Log.Warn().Err(err).Int64("playbook_id", sourceID).Msg("related playbooks: candidates")
			return []models.Playbook{}
		}
		candidates = items
	}

	if len(tagIDs) == 0 || len(candidates) == 0 {
		return firstPlaybooks(candidates, PlaybookRecommendationLimit)
	}

	ids := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}
	links, err := r.Playbooks.TagLinks(ctx, ids)
	if err != nil {
		r.Log.Warn().Err(err).Int64("playbook_id", sourceID).Msg("related playbooks: tag links")
		return []models.Playbook{}
	}

	sourceTags := make(map[int64]bool, len(tagIDs))
	for _, id := range tagIDs {
		sourceTags[id] = true
	}
	overlap := make(map[int64]int, len(candidates))
	for _, link := range links {
		if sourceTags[link.TagID] {
			overlap[link.PlaybookID]++
		}
	}

	ranked := append([]models.Playbook(nil), candidates...)
	sort.SliceStable(ranked, func(i, j int) bool {
		oi, oj := overlap[ranked[i].ID], overlap[ranked[j].ID]
		if oi != oj {
			return oi > oj
		}
		return newer(ranked[i].PublishedAt, ranked[j].PublishedAt)
	})
	return firstPlaybooks(ranked, PlaybookRecommendationLimit)
}

// RecommendProducts returns up to six published products other than the source, scored
// +10 for a case-insensitive category match and +1 per shared tag.
func (r Recommender) RecommendProducts(ctx context.Context, sourceSlug string, category *string, tags []string) []models.Product {
	candidates, err := r.Products.List(ctx, repository.ProductFilter{
		Status:      models.StatusPublished,
		ExcludeSlug: sourceSlug,
	})
	if err != nil {
		r.Log.Warn().Err(err).Str("slug", sourceSlug).Msg("related products: candidates")
		return []models.Product{}
	}

	scores := make(map[int64]int, len(candidates))
	for _, c := range candidates {
		scores[c.ID] = ScoreProduct(c, category, tags)
	}

	ranked := make([]models.Product, 0, len(candidates))
	for _, c := range candidates {
		if c.Slug == sourceSlug {
			continue
		}
		ranked = append(ranked, c)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := scores[ranked[i].ID], scores[ranked[j].ID]
		if si != sj {
			return si > sj
		}
		return newer(ranked[i].UpdatedAt, ranked[j].UpdatedAt)
	})
	if len(ranked) > ProductRecommendationLimit {
		ranked = ranked[:ProductRecommendationLimit]
	}
	return ranked
}

// ScoreProduct is exported so the scoring rule can be checked on its own.
func ScoreProduct(candidate models.Product, category *string, tags []string) int {
	score := 0
	if category != nil && candidate.Category != nil &&
		strings.EqualFold(strings.TrimSpace(*candidate.Category), strings.TrimSpace(*category)) {
		score += categoryMatchScore
	}
	if len(tags) == 0 {
		return score
	}
	wanted := make(map[string]bool, len(tags))
	for _, tag := range tags {
		wanted[strings.ToLower(strings.TrimSpace(tag))] = true
	}
	counted := make(map[string]bool, len(candidate.Tags))
	for _, tag := range candidate.Tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if wanted[key] && !counted[key] {
			counted[key] = true
			score++
		}
	}
	return score
}

// newer orders timestamps descending with nil last.
func newer(a, b *time.Time) bool {
	switch {
	case a == nil:
		return false
	case b == nil:
		return true
	}
	return a.After(*b)
}

func firstPlaybooks(items []models.Playbook, n int) []models.Playbook {
	if items == nil {
		return []models.Playbook{}
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}
