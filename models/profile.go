package models

import "time"

// Profile is a locally known ring wearer: identity plus the bearer token
// obtained when they completed the vendor's OAuth flow in the browser.
// The token is never serialized into API responses.
type Profile struct {
	ID            string    `bson:"_id" json:"id"`
	Name          string    `bson:"name" json:"name"`
	Email         string    `bson:"email,omitempty" json:"email,omitempty"`
	Token         string    `bson:"token" json:"-"`
	Age           *int      `bson:"age,omitempty" json:"age,omitempty"`
	Weight        *float64  `bson:"weight,omitempty" json:"weight,omitempty"`
	Height        *float64  `bson:"height,omitempty" json:"height,omitempty"`
	BiologicalSex *string   `bson:"biologicalSex,omitempty" json:"biologicalSex,omitempty"`
	LastUpdated   time.Time `bson:"lastUpdated" json:"lastUpdated"`
}

// Authenticated reports whether the profile still holds a usable token.
// A profile whose token was rejected by the vendor keeps its identity but
// needs to re-run the OAuth flow.
func (p Profile) Authenticated() bool {
	return p.Token != ""
}

// PersonalInfo is the vendor's identity record for a token, used to enrich
// a profile when it is first registered.
type PersonalInfo struct {
	ID            string   `json:"id"`
	Age           *int     `json:"age,omitempty"`
	Weight        *float64 `json:"weight,omitempty"`
	Height        *float64 `json:"height,omitempty"`
	BiologicalSex *string  `json:"biological_sex,omitempty"`
	Email         string   `json:"email,omitempty"`
}
