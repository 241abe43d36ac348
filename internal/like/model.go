package like

import (
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/docstore"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/post"
)

// CounterField est le compteur dénormalisé porté par le post
const CounterField = "likes"

// Collection renvoie la sous-collection des likes d'un post, indexée par ID utilisateur
func Collection(postID string) string {
	return docstore.SubCollection(post.Collection, postID, "likes")
}

// Like est l'enregistrement de relation (post, utilisateur); son existence fait foi
type Like struct {
	UserID string `json:"userId"`
}

func (l Like) Record() docstore.Record {
	return docstore.Record{"userId": l.UserID}
}

type LikeResponse struct {
	PostID    string `json:"post_id"`
	LikeCount int64  `json:"like_count"`
	IsLiked   bool   `json:"is_liked"`
}
