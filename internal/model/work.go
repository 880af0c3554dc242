package model

import "time"

// WorkRecord showcases a completed job for marketing purposes.  Records
// carry anonymous view and like counters; both are deduplicated per
// client IP (views once per 24 hours, likes toggleable) through the
// work_record_views and work_record_likes tables.
//
// Fields:
//  ID        – primary key identifier.
//  Category  – service line the job belongs to.
//  Title     – short headline.
//  Body      – free-text description of the work performed.
//  Views     – deduplicated view counter.
//  Likes     – deduplicated like counter.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last modification timestamp.
type WorkRecord struct {
	ID        uint64          // work_records.id
	Category  ServiceCategory // work_records.category
	Title     string          // work_records.title
	Body      string          // work_records.body
	Views     uint64          // work_records.views
	Likes     uint64          // work_records.likes
	CreatedAt time.Time       // work_records.created_at
	UpdatedAt time.Time       // work_records.updated_at
}

// WorkImage is one uploaded photo attached to a work record.  Images are
// ordered by SortOrder and stored through the object storage interface;
// URL is the public location returned by the upload.
type WorkImage struct {
	ID           uint64    // work_images.id
	WorkRecordID uint64    // work_images.work_record_id
	URL          string    // work_images.url
	StoragePath  string    // work_images.storage_path
	SortOrder    int       // work_images.sort_order
	CreatedAt    time.Time // work_images.created_at
}
