package post

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/docstore"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/media"
)

var (
	ErrNotLoggedIn = errors.New("utilisateur non authentifié")
	ErrEmptyPost   = errors.New("le post doit contenir un texte ou une image")
	ErrNotFound    = errors.New("post introuvable")
)

type Service struct {
	store        docstore.Store
	imageQuality int
	now          func() time.Time
}

func NewService(store docstore.Store, imageQuality int) *Service {
	if imageQuality == 0 {
		imageQuality = media.PostQuality
	}
	return &Service{store: store, imageQuality: imageQuality, now: time.Now}
}

// Create publie un post. Les préconditions sont vérifiées avant tout appel au store.
func (s *Service) Create(ctx context.Context, author Author, text string, image io.Reader) (Post, error) {
	if author.UserID == "" {
		return Post{}, ErrNotLoggedIn
	}
	text = strings.TrimSpace(text)
	if text == "" && image == nil {
		return Post{}, ErrEmptyPost
	}

	p := Post{
		UserID:    author.UserID,
		Username:  author.Username(),
		Timestamp: s.now().UnixMilli(),
		Text:      text,
	}

	if image != nil {
		encoded, err := media.EncodeUpload(image, s.imageQuality)
		if err != nil {
			return Post{}, err
		}
		p.ImageString = &encoded
	}

	id, err := s.store.Add(ctx, Collection, p.Record())
	if err != nil {
		return Post{}, fmt.Errorf("création du post: %w", err)
	}
	p.ID = id
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (Post, error) {
	snap, err := s.store.Get(ctx, Collection, id)
	if err != nil {
		return Post{}, err
	}
	if !snap.Exists() {
		return Post{}, ErrNotFound
	}
	return FromSnapshot(snap)
}
