package repository

import (
	"sort"
	"time"

	"reviewdeck/internal/models"
)

// CollectionEntry is one row of the deduplicated browse view: the
// representative review for a title plus how many reviews that title has.
type CollectionEntry struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	Rating      int       `json:"rating"`
	ReviewText  string    `json:"review_text"`
	ReviewDate  time.Time `json:"review_date"`
	Username    string    `json:"username"`
	ReviewCount int       `json:"review_count"`
}

// aggregateCollection groups reviews by title and surfaces exactly one
// representative per group: the review with the latest review_date, ties
// broken by highest id so the result is deterministic regardless of row
// order. Entries are ordered by canonical rank; titles not in the canonical
// list follow all ranked titles, sorted by title string.
func aggregateCollection(reviews []models.Review, canonicalRank map[string]int) []CollectionEntry {
	groups := make(map[string]*CollectionEntry)

	for i := range reviews {
		review := &reviews[i]
		entry, ok := groups[review.Title]
		if !ok {
			groups[review.Title] = newCollectionEntry(review)
			continue
		}
		entry.ReviewCount++
		if review.ReviewDate.After(entry.ReviewDate) ||
			(review.ReviewDate.Equal(entry.ReviewDate) && review.ID > entry.ID) {
			count := entry.ReviewCount
			*entry = *newCollectionEntry(review)
			entry.ReviewCount = count
		}
	}

	entries := make([]CollectionEntry, 0, len(groups))
	for _, entry := range groups {
		entries = append(entries, *entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		ri, iRanked := canonicalRank[entries[i].Title]
		rj, jRanked := canonicalRank[entries[j].Title]
		switch {
		case iRanked && jRanked:
			return ri < rj
		case iRanked:
			return true
		case jRanked:
			return false
		default:
			return entries[i].Title < entries[j].Title
		}
	})

	return entries
}

func newCollectionEntry(review *models.Review) *CollectionEntry {
	return &CollectionEntry{
		ID:          review.ID,
		Title:       review.Title,
		Category:    review.Category,
		Rating:      review.Rating,
		ReviewText:  review.ReviewText,
		ReviewDate:  review.ReviewDate,
		Username:    review.User.Username,
		ReviewCount: 1,
	}
}
