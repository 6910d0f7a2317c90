package model

import "encoding/json"

// Resource identifies the bookable unit (a chair, bay, table, staff member)
// that a reservation occupies. The zero value is the shared resource: it
// stands for "any unit" and matches every other resource.
//
// An explicit variant beats a nullable id here: "" would otherwise be
// ambiguous between "unset" and "wildcard".
type Resource struct {
	id        string
	dedicated bool
}

func SharedResource() Resource {
	return Resource{}
}

// ResourceFor returns a dedicated resource. An empty id degrades to the
// shared resource.
func ResourceFor(id string) Resource {
	if id == "" {
		return Resource{}
	}
	return Resource{id: id, dedicated: true}
}

func (r Resource) IsShared() bool {
	return !r.dedicated
}

// ID returns the dedicated resource id, or "" for the shared resource.
func (r Resource) ID() string {
	return r.id
}

// Matches reports whether two resource scopes refer to the same bookable
// unit. The shared resource matches everything; two dedicated resources
// match only on equal ids.
func (r Resource) Matches(other Resource) bool {
	if !r.dedicated || !other.dedicated {
		return true
	}
	return r.id == other.id
}

func (r Resource) String() string {
	if !r.dedicated {
		return "shared"
	}
	return r.id
}

func (r Resource) MarshalJSON() ([]byte, error) {
	if !r.dedicated {
		return []byte("null"), nil
	}
	return json.Marshal(r.id)
}

func (r *Resource) UnmarshalJSON(b []byte) error {
	var id *string
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	if id == nil {
		*r = SharedResource()
		return nil
	}
	*r = ResourceFor(*id)
	return nil
}
