package model

import "time"

// Feedback is a standalone customer rating and comment tied to a service
// category.  It has no relationship to a reservation; customers may
// leave feedback without ever booking.
//
// Fields:
//  ID        – primary key identifier.
//  Category  – service line the feedback concerns.
//  Author    – display name supplied by the customer.
//  Rating    – 1..5 stars.
//  Comment   – free-text body.
//  CreatedAt – creation timestamp.
type Feedback struct {
	ID        uint64          // feedbacks.id
	Category  ServiceCategory // feedbacks.category
	Author    string          // feedbacks.author
	Rating    int             // feedbacks.rating
	Comment   string          // feedbacks.comment
	CreatedAt time.Time       // feedbacks.created_at
}
