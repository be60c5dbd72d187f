package models

// ✅ Default DynamoDB layout
const (
	ListingsTable     = "coolbooks-marketplace"
	OwnerIndex        = "user_id-index"
	TypeIndex         = "type-index"
	UserProfilesTable = "Users"
)

// ✅ Listing attribute names used in key and filter expressions
const (
	AttrUserID = "user_id"
	AttrType   = "type"
)

// AttrProfileKey is the partition key of the user profiles table
const AttrProfileKey = "userhandle"

// ✅ Notification events
const (
	EventNewListing = "newListing"
	TypeRoomPrefix  = "type:"
)
