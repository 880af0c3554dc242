package model

import "time"

// GalleryImage is one marketing image shown on a category landing page.
// Images are ordered by SortOrder and can be toggled off without
// deleting the underlying object.
//
// Fields:
//  ID          – primary key identifier.
//  Category    – service line the image belongs to.
//  URL         – public URL returned by object storage.
//  StoragePath – storage key used for later removal.
//  SortOrder   – ascending display position.
//  Active      – whether the image is currently displayed.
//  CreatedAt   – creation timestamp.
type GalleryImage struct {
	ID          uint64          // gallery_images.id
	Category    ServiceCategory // gallery_images.category
	URL         string          // gallery_images.url
	StoragePath string          // gallery_images.storage_path
	SortOrder   int             // gallery_images.sort_order
	Active      bool            // gallery_images.is_active
	CreatedAt   time.Time       // gallery_images.created_at
}
