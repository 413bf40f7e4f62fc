package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// KarmaAccount holds the structure for the karma_accounts collection in
// mongo. One account per user, created lazily with zero points. Points only
// ever go up; no decrement path exists.
type KarmaAccount struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id"`
	UserID    string             `json:"userId" bson:"userId"`
	Points    int64              `json:"points" bson:"points"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt primitive.DateTime `json:"updatedAt" bson:"updatedAt"`

	// AppliedEvents lists the credit event IDs whose points landed on this
	// account. Each ID is pushed by the same single-document update as its
	// $inc, which is what makes a replayed credit a no-op. Internal
	// bookkeeping, never serialized to API responses.
	AppliedEvents []string `json:"-" bson:"appliedEvents,omitempty"`
}

// CreditEvent holds the structure for the credit_events collection in mongo.
// The _id is a deterministic event key (for example "handover:<itemID>"), so
// the log holds at most one entry per real-world event. The log records that
// a credit was attempted; whether its points landed is settled by the
// account's AppliedEvents marker.
type CreditEvent struct {
	ID        string             `json:"_id" bson:"_id"`
	UserID    string             `json:"userId" bson:"userId"`
	Points    int64              `json:"points" bson:"points"`
	Kind      string             `json:"kind" bson:"kind"`
	CreatedAt primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
