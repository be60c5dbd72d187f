package models

// Profile is the public part of a user shown next to their listings
type Profile struct {
	Name string `dynamodbav:"name,omitempty" json:"name,omitempty"`
}
