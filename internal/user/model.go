package user

import (
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/docstore"
)

// Collection des profils, indexée par l'ID de l'utilisateur authentifié
const Collection = "users"

type User struct {
	ID               string  `json:"userId"`
	FirstName        string  `json:"firstName"`
	LastName         string  `json:"lastName"`
	Email            string  `json:"email"`
	ProfilePicString *string `json:"profilePicString,omitempty"`
}

// FromSnapshot construit un User; les champs absents prennent une valeur vide
func FromSnapshot(snap docstore.Snapshot) User {
	d := snap.Data
	u := User{ID: snap.ID}
	if id, ok := d.String("userId"); ok && id != "" {
		u.ID = id
	}
	u.FirstName, _ = d.String("firstName")
	u.LastName, _ = d.String("lastName")
	u.Email, _ = d.String("email")
	if pic, ok := d.String("profilePicString"); ok {
		u.ProfilePicString = &pic
	}
	return u
}

func (u User) Record() docstore.Record {
	r := docstore.Record{
		"userId":    u.ID,
		"firstName": u.FirstName,
		"lastName":  u.LastName,
		"email":     u.Email,
	}
	if u.ProfilePicString != nil {
		r["profilePicString"] = *u.ProfilePicString
	}
	return r
}

// ProfileUpdate regroupe les champs modifiables par le propriétaire du profil
type ProfileUpdate struct {
	FirstName  string
	LastName   string
	Email      string
	ProfilePic string // base64, vide si inchangé
}
