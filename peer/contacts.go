package peer

import (
	"regexp"
)

var addressPattern = regexp.MustCompile(`^\d+\.\d+\.\d+\.\d+:\d+$`)

// IsAddress reports whether s looks like a dotted IPv4 host followed by a port.
func IsAddress(s string) bool {
	return addressPattern.MatchString(s)
}

// Contact maps a human-readable name to a host:port address
type Contact struct {
	Name    string
	Address string
}

// Directory is the in-memory contact list.
// It belongs to the command loop and is not safe for concurrent use.
type Directory struct {
	contacts []Contact
}

func NewDirectory() *Directory {
	return &Directory{}
}

// Add appends a contact. Duplicate names are allowed; Lookup returns the first.
func (d *Directory) Add(name, address string) {
	d.contacts = append(d.contacts, Contact{Name: name, Address: address})
}

func (d *Directory) Lookup(name string) (Contact, bool) {
	for _, c := range d.contacts {
		if c.Name == name {
			return c, true
		}
	}
	return Contact{}, false
}

// Resolve turns a recipient into an address: literals pass through, names are looked up.
func (d *Directory) Resolve(recipient string) (string, bool) {
	if IsAddress(recipient) {
		return recipient, true
	}
	if c, ok := d.Lookup(recipient); ok {
		return c.Address, true
	}
	return "", false
}

func (d *Directory) List() []Contact {
	out := make([]Contact, len(d.contacts))
	copy(out, d.contacts)
	return out
}

func (d *Directory) Len() int {
	return len(d.contacts)
}
