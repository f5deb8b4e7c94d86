// Package cache keeps recently read folder listings in memory until an
// upload completes.
package cache

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gcstorage/internal/client/api"
)

// FolderListingPrefix starts every folder-listing key.
const FolderListingPrefix = "folders/list/"

const DefaultCapacity = 64

// Lister reads one folder listing from the backend.
type Lister interface {
	ListFolder(ctx context.Context, folderID string) ([]api.FileInfo, error)
}

// Listings is a bounded cache in front of a Lister.
type Listings struct {
	lister Lister
	lru    *lru[[]api.FileInfo]

	// gen is bumped on every invalidation; fetches started before a bump
	// are not stored.
	mu  sync.Mutex
	gen uint64
}

func NewListings(l Lister, capacity int) *Listings {
	return &Listings{lister: l, lru: newLRU[[]api.FileInfo](capacity)}
}

func FolderListingKey(folderID string) string {
	return FolderListingPrefix + folderID
}

// Folder returns the listing of folderID, fetching it on a miss. Failed
// fetches are not cached.
func (c *Listings) Folder(ctx context.Context, folderID string) ([]api.FileInfo, error) {
	key := FolderListingKey(folderID)
	if files, ok := c.lru.get(key); ok {
		return slices.Clone(files), nil
	}

	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()

	files, err := c.lister.ListFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.gen == gen {
		c.lru.put(key, slices.Clone(files))
	}
	c.mu.Unlock()
	return files, nil
}

// InvalidateFolderListings drops every cached folder listing.
func (c *Listings) InvalidateFolderListings() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.lru.deletePrefix(FolderListingPrefix)
}

func (c *Listings) Len() int { return c.lru.len() }
