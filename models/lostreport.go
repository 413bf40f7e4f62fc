package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// LostReportActive is the only status a stored lost report ever has; a
// resolved report is deleted, not archived.
const LostReportActive = "active"

// LostReport holds the structure for the lost_reports collection in mongo
type LostReport struct {
	ID      primitive.ObjectID `json:"_id" bson:"_id"`
	Details LostReportDetails  `json:"lostReport" bson:"lostReport"`
	Version int32              `json:"__v" bson:"__v"`
}

// LostReportDetails holds the structure for the inner lost report structure
type LostReportDetails struct {
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description" bson:"description"`
	Location     string             `json:"location" bson:"location"`
	DateLost     string             `json:"dateLost" bson:"dateLost"`
	UserID       string             `json:"userID" bson:"userID"`
	ContactName  string             `json:"contactName" bson:"contactName"`
	ContactEmail string             `json:"contactEmail" bson:"contactEmail"`
	ContactPhone string             `json:"contactPhone" bson:"contactPhone"`
	Status       string             `json:"status" bson:"status"`
	CreatedAt    primitive.DateTime `json:"createdAt" bson:"createdAt"`
}

// Anonymized returns a copy safe to show to users other than the reporter.
// The reporter's name and email are withheld; the phone number stays so a
// finder can still reach them.
func (l LostReport) Anonymized() LostReport {
	l.Details.ContactName = "Anonymous"
	l.Details.ContactEmail = ""
	return l
}
