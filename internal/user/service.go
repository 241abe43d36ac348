package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/docstore"
)

var ErrNotLoggedIn = errors.New("utilisateur non authentifié")

type Service struct {
	store docstore.Store
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

// Get renvoie le profil, ou nil s'il n'existe pas
func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	snap, err := s.store.Get(ctx, Collection, id)
	if err != nil {
		return nil, err
	}
	if !snap.Exists() {
		return nil, nil
	}
	u := FromSnapshot(snap)
	return &u, nil
}

// Register crée (ou remplace) le profil après l'inscription
func (s *Service) Register(ctx context.Context, u User) error {
	if u.ID == "" {
		return ErrNotLoggedIn
	}
	return s.store.Set(ctx, Collection, u.ID, u.Record())
}

// UpdateProfile met à jour les champs du profil. Si le profil n'a jamais été écrit,
// il est créé avec ces valeurs.
func (s *Service) UpdateProfile(ctx context.Context, id string, in ProfileUpdate) (*User, error) {
	if id == "" {
		return nil, ErrNotLoggedIn
	}

	fields := docstore.Record{
		"firstName": in.FirstName,
		"lastName":  in.LastName,
		"email":     in.Email,
	}
	if in.ProfilePic != "" {
		fields["profilePicString"] = in.ProfilePic
	}

	err := s.store.Update(ctx, Collection, id, fields)
	if errors.Is(err, docstore.ErrNotFound) {
		fields["userId"] = id
		err = s.store.Set(ctx, Collection, id, fields)
	}
	if err != nil {
		return nil, fmt.Errorf("mise à jour du profil %s: %w", id, err)
	}

	return s.Get(ctx, id)
}
