package models

// Listing is a book a user offers for exchange
type Listing struct {
	ID          string   `dynamodbav:"id" json:"id"`                                       // ✅ Partition Key
	UserID      string   `dynamodbav:"user_id" json:"user_id"`                             // Indexed via user_id-index
	Type        string   `dynamodbav:"type" json:"type"`                                   // Indexed via type-index
	DesireType  TypeTags `dynamodbav:"desire_type,omitempty" json:"desire_type,omitempty"` // Types wanted in exchange
	Title       string   `dynamodbav:"title,omitempty" json:"title,omitempty"`             // Book title
	Author      string   `dynamodbav:"author,omitempty" json:"author,omitempty"`           // Book author
	Description string   `dynamodbav:"description,omitempty" json:"description,omitempty"` // Free text
	Date        int64    `dynamodbav:"date" json:"date"`                                   // Unix seconds
	Picture     string   `dynamodbav:"picture,omitempty" json:"picture,omitempty"`         // Public image URL
	User        *Profile `dynamodbav:"-" json:"user,omitempty"`                            // Owner profile (not stored in DB)
}

// ListingInput is the client payload for a new listing
type ListingInput struct {
	Type        string   `json:"type"`
	DesireType  TypeTags `json:"desire_type"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Picture     string   `json:"picture"` // data:<mime>;base64,<payload>
}
