package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User holds the structure for the users collection in mongo
type User struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details UserDetails        `json:"user" bson:"user"`
	Version int32              `json:"__v" bson:"__v"`
}

// UserDetails holds the structure for the inner user structure as defined in the users collection in mongo
type UserDetails struct {
	Email       string             `json:"email" bson:"email"`
	Name        string             `json:"name" bson:"name"`
	Password    string             `json:"password" bson:"password"`
	PhoneNumber string             `json:"phoneNumber" bson:"phoneNumber"`
	CreatedAt   primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt   primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// ItemAttributes is the set of descriptive fields produced by the image
// analysis service for a found item. The values are stored as-is, without
// further validation.
type ItemAttributes struct {
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Color    string   `json:"color"`
	Brand    string   `json:"brand,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}
