// Package corpus maintains the deduplicated master corpus of scored articles.
//
// Two identity rules exist and are deliberately kept apart:
// Append deduplicates by link, Consolidate by (title, published).
package corpus

import "github.com/agorla23/aws-ml-portfolio-intelligence/internal/domain"

// Append concatenates existing then incoming and keeps the first article per link.
// Existing articles therefore win over incoming ones sharing a link.
// With no existing corpus the result is the incoming batch, still deduplicated by link,
// so appending a batch twice equals appending it once.
// Inputs are not mutated; the result holds copies.
func Append(existing, incoming []*domain.Article) []*domain.Article {
	out := make([]*domain.Article, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))

	add := func(articles []*domain.Article) {
		for _, a := range articles {
			if a == nil {
				continue
			}
			if _, dup := seen[a.Link]; dup {
				continue
			}
			seen[a.Link] = struct{}{}
			out = append(out, a.Clone())
		}
	}
	add(existing)
	add(incoming)
	return out
}

type titleKey struct {
	title     string
	published string
}

// Consolidate keeps the first article per (title, published).
// Republished items often carry a new link but the same title and timestamp.
func Consolidate(articles []*domain.Article) []*domain.Article {
	out := make([]*domain.Article, 0, len(articles))
	seen := make(map[titleKey]struct{}, len(articles))
	for _, a := range articles {
		if a == nil {
			continue
		}
		k := titleKey{title: a.Title, published: a.Published}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, a.Clone())
	}
	return out
}
