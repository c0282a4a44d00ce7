package api

import "time"

// User is a faculty member account. PasswordHash is the bcrypt hash of
// the signup password; it is computed exactly once at creation and is
// never serialized into any response.
type User struct {
	ID              int64
	Designation     string
	FirstName       string
	LastName        string
	EmailAddress    string
	PasswordHash    string
	Affiliation     string
	AreasOfInterest string
	Homepage        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Profile returns the client-facing projection of the user, with the
// password hash and timestamps stripped.
func (u *User) Profile() *UserProfile {
	if u == nil {
		return nil
	}
	return &UserProfile{
		ID:              u.ID,
		Designation:     u.Designation,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		EmailAddress:    u.EmailAddress,
		Affiliation:     u.Affiliation,
		AreasOfInterest: u.AreasOfInterest,
		Homepage:        u.Homepage,
	}
}

// UserProfile is the only user representation that crosses the wire.
type UserProfile struct {
	ID              int64  `json:"id"`
	Designation     string `json:"designation,omitempty"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	EmailAddress    string `json:"emailAddress"`
	Affiliation     string `json:"affiliation,omitempty"`
	AreasOfInterest string `json:"areasOfInterest,omitempty"`
	Homepage        string `json:"homepage,omitempty"`
}

// Record is one instance of a resource kind (course, event, journal,
// conference, book, patent). Kind-specific fields live in the Fields map,
// keyed by field name as declared in the kind's schema. OwnerID is set at
// creation and never changes. Timestamps are maintained by the store and
// are not client-visible.
type Record struct {
	ID        int64
	Kind      string
	OwnerID   int64
	Fields    map[string]string
	Owner     *UserProfile
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a deep copy of the record. Stores hand out clones so a
// caller can never mutate persisted state through a returned pointer.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	cp := *r
	cp.Fields = make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		cp.Fields[k] = v
	}
	if r.Owner != nil {
		owner := *r.Owner
		cp.Owner = &owner
	}
	return &cp
}

// Principal is the identity established for the current request after
// successful authentication.
type Principal struct {
	ID    int64
	Email string
}
