package post

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/docstore"
)

// Collection des posts; l'ID est attribué par le store
const Collection = "posts"

// TimestampField est la seule clé de tri du fil
const TimestampField = "timestamp"

const anonymous = "Anonymous"

var ErrMalformed = errors.New("post malformé")

type Post struct {
	ID          string  `json:"id"`
	UserID      string  `json:"userId"`
	Username    string  `json:"username"`
	Timestamp   int64   `json:"timestamp"`
	Text        string  `json:"text"`
	ImageString *string `json:"imageString,omitempty"`
	Likes       int64   `json:"likes"`
	Comments    int64   `json:"comments"`
	Shares      int64   `json:"shares"`
}

// FromSnapshot valide et convertit un document brut.
// userId et timestamp sont obligatoires; les compteurs absents valent 0.
func FromSnapshot(snap docstore.Snapshot) (Post, error) {
	d := snap.Data
	p := Post{ID: snap.ID}

	userID, ok := d.String("userId")
	if !ok || userID == "" {
		return Post{}, fmt.Errorf("%w: %s: userId manquant", ErrMalformed, snap.ID)
	}
	p.UserID = userID

	ts, ok := d.Int64(TimestampField)
	if !ok {
		return Post{}, fmt.Errorf("%w: %s: timestamp manquant", ErrMalformed, snap.ID)
	}
	p.Timestamp = ts

	if username, ok := d.String("username"); ok && username != "" {
		p.Username = username
	} else {
		p.Username = anonymous
	}
	p.Text, _ = d.String("text")
	if img, ok := d.String("imageString"); ok {
		p.ImageString = &img
	}

	for key, dst := range map[string]*int64{"likes": &p.Likes, "comments": &p.Comments, "shares": &p.Shares} {
		if !d.Has(key) {
			continue
		}
		n, ok := d.Int64(key)
		if !ok {
			return Post{}, fmt.Errorf("%w: %s: %s invalide", ErrMalformed, snap.ID, key)
		}
		*dst = n
	}

	return p, nil
}

func (p Post) Record() docstore.Record {
	r := docstore.Record{
		"userId":       p.UserID,
		"username":     p.Username,
		TimestampField: p.Timestamp,
		"text":         p.Text,
		"likes":        p.Likes,
		"comments":     p.Comments,
		"shares":       p.Shares,
	}
	if p.ImageString != nil {
		r["imageString"] = *p.ImageString
	}
	return r
}

// Author identifie l'utilisateur qui publie
type Author struct {
	UserID string
	Email  string
}

// Username dérive le nom affiché de l'email: la partie avant '@'
func (a Author) Username() string {
	name, _, _ := strings.Cut(a.Email, "@")
	if name == "" {
		return anonymous
	}
	return name
}
