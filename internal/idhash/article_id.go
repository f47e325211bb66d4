package idhash

import (
	"crypto/sha256"
	"encoding/hex"
)

// ComputeArticleID computes a deterministic article_id using SHA256.
// Formula: SHA256(link)
// Returns hex-encoded hash (64 characters). Articles sharing a link share an id.
func ComputeArticleID(link string) string {
	hash := sha256.Sum256([]byte(link))
	return hex.EncodeToString(hash[:])
}

// ComputeContentKey computes the consolidation identity of an article.
// Formula: SHA256(title|published)
func ComputeContentKey(title, published string) string {
	hash := sha256.Sum256([]byte(title + "|" + published))
	return hex.EncodeToString(hash[:])
}
