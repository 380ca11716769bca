package cache

import "fmt"

// Key uniquely identifies one accessible across every application exposed on
// the accessibility bus. Sender is the owning application's stable bus name;
// ID is the object path of the accessible within that application. Both are
// short strings, so a Key is cheap to copy and is used as a map key directly.
type Key struct {
	Sender string `json:"sender"`
	ID     string `json:"id"`
}

// NewKey builds a Key from its two wire components.
func NewKey(sender, id string) Key {
	return Key{Sender: sender, ID: id}
}

// IsZero reports whether k is the zero Key, used as the "no parent" sentinel
// for root accessibles.
func (k Key) IsZero() bool {
	return k.Sender == "" && k.ID == ""
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Sender, k.ID)
}
