package entity

// User is a directory record. IDs are assigned by the database on insert
// and are stable for the lifetime of the row.
type User struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// Hobby associates a free-form label with a user. A user may carry any
// number of hobby rows; labels are deduplicated only on the aggregate
// read path, not at the storage layer.
type Hobby struct {
	UserID int64  `json:"user_id"`
	Hobby  string `json:"hobby"`
}

// UserAggregate is the denormalized projection served to clients: one user
// plus the ordered, deduplicated set of hobby labels known for it.
// Hobbies is never nil so a fresh user serializes as "hobbies": [].
type UserAggregate struct {
	User
	Hobbies []string `json:"hobbies"`
}
