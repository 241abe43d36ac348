// Package feed assemble le fil d'actualité: les posts du plus récent au plus ancien,
// joints au profil courant de leur auteur.
package feed

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/docstore"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/like"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/post"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

// DefaultConcurrency borne les lectures d'auteurs simultanées
const DefaultConcurrency = 16

// PostWithAuthor est une projection en lecture seule, jamais persistée.
// Author vaut nil si le profil est absent ou n'a pas pu être lu.
type PostWithAuthor struct {
	Post   post.Post  `json:"post"`
	Author *user.User `json:"author"`
	Liked  bool       `json:"liked"`
}

type Assembler struct {
	store       docstore.Store
	concurrency int
}

func NewAssembler(store docstore.Store, concurrency int) *Assembler {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Assembler{store: store, concurrency: concurrency}
}

// Load construit le fil complet. Seul l'échec de la requête initiale est une erreur;
// un post illisible est ignoré et un auteur introuvable donne Author == nil.
// Si viewerID est renseigné, Liked indique si ce lecteur a liké chaque post.
func (a *Assembler) Load(ctx context.Context, viewerID string) ([]PostWithAuthor, error) {
	snaps, err := a.store.Query(ctx, post.Collection, post.TimestampField, docstore.Desc)
	if err != nil {
		return nil, fmt.Errorf("chargement du fil: %w", err)
	}

	posts := make([]post.Post, 0, len(snaps))
	for _, snap := range snaps {
		p, err := post.FromSnapshot(snap)
		if err != nil {
			logs.LogJSON("WARN", "Skipping malformed post", map[string]interface{}{
				"error":  err.Error(),
				"postID": snap.ID,
			})
			continue
		}
		posts = append(posts, p)
	}

	out := make([]PostWithAuthor, len(posts))
	if len(posts) == 0 {
		return out, nil
	}

	// Chaque goroutine écrit dans son propre emplacement: l'ordre de la requête est conservé
	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i := range posts {
		g.Go(func() error {
			out[i] = PostWithAuthor{
				Post:   posts[i],
				Author: a.author(ctx, posts[i]),
				Liked:  a.liked(ctx, posts[i].ID, viewerID),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("chargement des auteurs: %w", err)
	}

	return out, nil
}

func (a *Assembler) author(ctx context.Context, p post.Post) *user.User {
	snap, err := a.store.Get(ctx, user.Collection, p.UserID)
	if err != nil {
		logs.LogJSON("ERROR", "Error fetching post author", map[string]interface{}{
			"error":  err.Error(),
			"postID": p.ID,
			"userID": p.UserID,
		})
		return nil
	}
	if !snap.Exists() {
		return nil
	}
	u := user.FromSnapshot(snap)
	return &u
}

func (a *Assembler) liked(ctx context.Context, postID, viewerID string) bool {
	if viewerID == "" {
		return false
	}
	snap, err := a.store.Get(ctx, like.Collection(postID), viewerID)
	if err != nil {
		logs.LogJSON("WARN", "Error fetching like status", map[string]interface{}{
			"error":  err.Error(),
			"postID": postID,
			"userID": viewerID,
		})
		return false
	}
	return snap.Exists()
}
