package like

import (
	"context"
	"errors"
	"fmt"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/docstore"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/post"
)

var (
	ErrNotLoggedIn  = errors.New("utilisateur non authentifié")
	ErrInvalidPost  = errors.New("identifiant de post manquant")
	ErrPostNotFound = errors.New("post introuvable")
)

type Service struct {
	store docstore.Store
}

func NewService(store docstore.Store) *Service {
	return &Service{store: store}
}

// Toggle inverse le like de userID sur postID.
//
// La lecture du like, la mise à jour du compteur et la création/suppression du like se font
// dans la même transaction: deux bascules concurrentes sont sérialisées par le store et le
// compteur reste égal au nombre de likes.
func (s *Service) Toggle(ctx context.Context, postID, userID string) (LikeResponse, error) {
	if userID == "" {
		return LikeResponse{}, ErrNotLoggedIn
	}
	if postID == "" {
		return LikeResponse{}, ErrInvalidPost
	}

	likes := Collection(postID)
	var resp LikeResponse

	err := s.store.RunTransaction(ctx, func(tx docstore.Tx) error {
		postSnap, err := tx.Get(post.Collection, postID)
		if err != nil {
			return err
		}
		if !postSnap.Exists() {
			return ErrPostNotFound
		}
		likeSnap, err := tx.Get(likes, userID)
		if err != nil {
			return err
		}

		// Un compteur absent ou illisible repart de 0
		count, _ := postSnap.Data.Int64(CounterField)

		if likeSnap.Exists() {
			count = max(count-1, 0)
			if err := tx.Update(post.Collection, postID, docstore.Record{CounterField: count}); err != nil {
				return err
			}
			if err := tx.Delete(likes, userID); err != nil {
				return err
			}
		} else {
			count++
			if err := tx.Update(post.Collection, postID, docstore.Record{CounterField: count}); err != nil {
				return err
			}
			if err := tx.Set(likes, userID, Like{UserID: userID}.Record()); err != nil {
				return err
			}
		}

		resp = LikeResponse{PostID: postID, LikeCount: count, IsLiked: !likeSnap.Exists()}
		return nil
	})
	if err != nil {
		logs.LogJSON("ERROR", "Error toggling like", map[string]interface{}{
			"error":  err.Error(),
			"postID": postID,
			"userID": userID,
		})
		return LikeResponse{}, fmt.Errorf("bascule du like %s/%s: %w", postID, userID, err)
	}

	action := "Post unliked"
	if resp.IsLiked {
		action = "Post liked"
	}
	logs.LogJSON("DEBUG", action, map[string]interface{}{
		"postID":    postID,
		"userID":    userID,
		"likeCount": resp.LikeCount,
	})
	return resp, nil
}

// Status renvoie le compteur du post et, si userID est renseigné, si l'utilisateur l'a liké
func (s *Service) Status(ctx context.Context, postID, userID string) (LikeResponse, error) {
	postSnap, err := s.store.Get(ctx, post.Collection, postID)
	if err != nil {
		return LikeResponse{}, err
	}
	if !postSnap.Exists() {
		return LikeResponse{}, ErrPostNotFound
	}

	count, _ := postSnap.Data.Int64(CounterField)
	resp := LikeResponse{PostID: postID, LikeCount: count}

	if userID != "" {
		liked, err := s.IsLiked(ctx, postID, userID)
		if err != nil {
			return LikeResponse{}, err
		}
		resp.IsLiked = liked
	}
	return resp, nil
}

// IsLiked indique si la relation (post, utilisateur) existe
func (s *Service) IsLiked(ctx context.Context, postID, userID string) (bool, error) {
	snap, err := s.store.Get(ctx, Collection(postID), userID)
	if err != nil {
		return false, err
	}
	return snap.Exists(), nil
}
