package domain

// User is an application user. The id is caller-assigned (a username-style
// string), unlike the numeric ids of the other aggregates.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Country   string `json:"country"`
}
