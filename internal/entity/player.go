package entity

// PlayerProfile is the persisted slice of a connection: display name
// plus the last room it sat in, used to restore both on rejoin.
type PlayerProfile struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Room string `json:"room,omitempty"`
}
