package article

import "sort"

// DefaultRelatedLimit is the number of related articles shown under a post.
const DefaultRelatedLimit = 3

// Related picks up to limit articles to read after currentSlug. Articles
// sharing more tags with the current one rank first, ties keep the order of
// all; the remaining slots are filled with the most recent other articles.
// An unknown slug yields an empty result.
func Related(currentSlug string, all []Article, limit int) []Article {
	related := []Article{}
	if limit <= 0 {
		return related
	}

	var current *Article
	for i := range all {
		if all[i].Slug == currentSlug {
			current = &all[i]
			break
		}
	}
	if current == nil {
		return related
	}

	tagSet := make(map[string]struct{}, len(current.Tags))
	for _, t := range current.Tags {
		tagSet[t] = struct{}{}
	}

	type scored struct {
		article Article
		score   int
	}
	candidates := make([]scored, 0, len(all))
	for _, a := range all {
		if a.Slug == currentSlug {
			continue
		}
		score := 0
		for _, t := range a.Tags {
			if _, ok := tagSet[t]; ok {
				score++
			}
		}
		candidates = append(candidates, scored{article: a, score: score})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	var rest []Article
	for _, c := range candidates {
		if c.score > 0 && len(related) < limit {
			related = append(related, c.article)
			continue
		}
		rest = append(rest, c.article)
	}
	if len(related) == limit {
		return related
	}

	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Published.After(rest[j].Published)
	})
	for _, a := range rest {
		if len(related) == limit {
			break
		}
		related = append(related, a)
	}
	return related
}
