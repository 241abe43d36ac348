// Package docstore implémente un document store (collections nommées d'enregistrements JSON,
// sous-collections, transactions atomiques) au-dessus de gorm.
//
// Une sous-collection est simplement une collection dont le nom est un chemin, par exemple
// "posts/{postID}/likes".
package docstore

import (
	"context"
	"errors"
	"path"
)

var (
	ErrNotFound      = errors.New("document introuvable")
	ErrInvalidField  = errors.New("nom de champ invalide")
	ErrInvalidRecord = errors.New("document invalide")
)

// Direction de tri d'une requête
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Store est le contrat consommé par les services (posts, likes, users, feed)
type Store interface {
	// Query renvoie toute la collection triée sur un champ numérique de premier niveau.
	// Les documents sans ce champ arrivent en dernier.
	Query(ctx context.Context, collection, orderBy string, dir Direction) ([]Snapshot, error)
	Get(ctx context.Context, collection, id string) (Snapshot, error)
	Add(ctx context.Context, collection string, data Record) (string, error)
	Set(ctx context.Context, collection, id string, data Record) error
	// Update fusionne les champs donnés; ErrNotFound si le document n'existe pas
	Update(ctx context.Context, collection, id string, fields Record) error
	RunTransaction(ctx context.Context, fn func(tx Tx) error) error
}

// Tx est la vue transactionnelle du store. Les lectures verrouillent le document lu.
type Tx interface {
	Get(collection, id string) (Snapshot, error)
	Set(collection, id string, data Record) error
	Update(collection, id string, fields Record) error
	Delete(collection, id string) error
}

// Snapshot est le résultat d'une lecture; Data est nil si le document n'existe pas
type Snapshot struct {
	Collection string
	ID         string
	Data       Record
	exists     bool
}

func (s Snapshot) Exists() bool {
	return s.exists
}

func missing(collection, id string) Snapshot {
	return Snapshot{Collection: collection, ID: id}
}

// SubCollection construit le chemin d'une sous-collection: posts/p1/likes
func SubCollection(parent, id, name string) string {
	return path.Join(parent, id, name)
}
