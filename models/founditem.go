package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Found item statuses. An item starts with its finder and moves to exactly
// one of the two terminal states.
const (
	StatusWithFinder = "With Finder"
	StatusAtSecurity = "At Security"
	StatusReturned   = "Returned"
)

// OverdueAfterDays is how many whole days a finder may hold an item before
// it must be dropped at the guard gate.
const OverdueAfterDays = 7

// FoundItem holds the structure for the items collection in mongo
type FoundItem struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details FoundItemDetails   `json:"item" bson:"item"`
	Version int32              `json:"__v" bson:"__v"`
}

// FoundItemDetails holds the structure for the inner item structure as defined in the items collection in mongo
type FoundItemDetails struct {
	Title        string              `json:"title" bson:"title"`
	Category     string              `json:"category" bson:"category"`
	Color        string              `json:"color" bson:"color"`
	Brand        string              `json:"brand,omitempty" bson:"brand,omitempty"`
	Tags         []string            `json:"tags,omitempty" bson:"tags,omitempty"`
	ImageURL     string              `json:"imageURL" bson:"imageURL"`
	FoundByID    string              `json:"foundByID" bson:"foundByID"`
	FoundByName  string              `json:"foundByName" bson:"foundByName"`
	Email        string              `json:"email" bson:"email"`
	PhoneNumber  string              `json:"phoneNumber" bson:"phoneNumber"`
	Status       string              `json:"status" bson:"status"`
	CreatedAt    primitive.DateTime  `json:"createdAt" bson:"createdAt"`
	HandoverDate *primitive.DateTime `json:"handoverDate,omitempty" bson:"handoverDate,omitempty"`
	ReturnedTo   string              `json:"returnedTo,omitempty" bson:"returnedTo,omitempty"`
	ReturnedDate *primitive.DateTime `json:"returnedDate,omitempty" bson:"returnedDate,omitempty"`
}

// Overdue reports whether the item has sat with its finder for more than
// OverdueAfterDays whole days. Partial days round up, so exactly 7.0 days
// elapsed is not overdue but 7 days and one minute is. Items already at
// security or returned are never overdue.
func (f FoundItem) Overdue(now time.Time) bool {
	if f.Details.Status != StatusWithFinder {
		return false
	}
	elapsed := now.Sub(f.Details.CreatedAt.Time())
	days := int(math.Ceil(elapsed.Hours() / 24))
	return days > OverdueAfterDays
}

// Anonymized returns a copy safe to show to users other than the finder.
// The finder's name and email are withheld; the phone number stays so an
// owner can still reach them.
func (f FoundItem) Anonymized() FoundItem {
	f.Details.FoundByName = "Anonymous"
	f.Details.Email = ""
	return f
}

// MatchCandidate is a found item annotated with a match score for a single
// lost-item query. It is derived per request and never persisted.
type MatchCandidate struct {
	FoundItem
	MatchScore int `json:"matchScore"`
}
