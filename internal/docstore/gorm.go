package docstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultMaxAttempts borne les reprises d'une transaction en conflit de sérialisation
const DefaultMaxAttempts = 5

// GormStore implémente Store sur la table documents
type GormStore struct {
	db          *gorm.DB
	dialect     dialect
	maxAttempts int
	backoff     time.Duration
}

type Option func(*GormStore)

// WithMaxAttempts fixe le nombre maximal de tentatives d'une transaction
func WithMaxAttempts(n int) Option {
	return func(s *GormStore) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithBackoff fixe l'attente de base entre deux tentatives (multipliée par le numéro de tentative)
func WithBackoff(d time.Duration) Option {
	return func(s *GormStore) {
		s.backoff = d
	}
}

func New(db *gorm.DB, opts ...Option) *GormStore {
	s := &GormStore{
		db:          db,
		dialect:     dialectFor(db),
		maxAttempts: DefaultMaxAttempts,
		backoff:     10 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *GormStore) Query(ctx context.Context, collection, orderBy string, dir Direction) ([]Snapshot, error) {
	if !fieldName.MatchString(orderBy) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidField, orderBy)
	}

	var docs []Document
	if err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order(s.dialect.orderBy(orderBy, dir)).
		Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}

	snaps := make([]Snapshot, 0, len(docs))
	for _, doc := range docs {
		snap, err := toSnapshot(doc)
		if err != nil {
			// Le document reste visible mais sans contenu exploitable; l'appelant le filtrera
			snap = Snapshot{Collection: doc.Collection, ID: doc.ID, Data: Record{}, exists: true}
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil
}

func (s *GormStore) Get(ctx context.Context, collection, id string) (Snapshot, error) {
	return get(s.db.WithContext(ctx), collection, id)
}

func (s *GormStore) Add(ctx context.Context, collection string, data Record) (string, error) {
	id := uuid.New().String()
	if err := set(s.db.WithContext(ctx), collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *GormStore) Set(ctx context.Context, collection, id string, data Record) error {
	return set(s.db.WithContext(ctx), collection, id, data)
}

func (s *GormStore) Update(ctx context.Context, collection, id string, fields Record) error {
	return update(s.db.WithContext(ctx), s.dialect, collection, id, fields)
}

// RunTransaction exécute fn dans une transaction et la rejoue tant que le moteur signale un
// conflit de sérialisation, dans la limite de maxAttempts.
func (s *GormStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = s.runOnce(ctx, fn)
		if err == nil || !IsRetryable(err) {
			return err
		}
		if attempt == s.maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * s.backoff):
		}
	}
	return fmt.Errorf("transaction abandonnée après %d tentatives: %w", s.maxAttempts, err)
}

func (s *GormStore) runOnce(ctx context.Context, fn func(tx Tx) error) error {
	var opts []*sql.TxOptions
	if _, ok := s.dialect.(postgresDialect); ok {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelSerializable})
	}
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormTx{db: db, dialect: s.dialect})
	}, opts...)
}

type gormTx struct {
	db      *gorm.DB
	dialect dialect
}

func (t *gormTx) Get(collection, id string) (Snapshot, error) {
	return get(t.dialect.lockForUpdate(t.db), collection, id)
}

func (t *gormTx) Set(collection, id string, data Record) error {
	return set(t.db, collection, id, data)
}

func (t *gormTx) Update(collection, id string, fields Record) error {
	return update(t.db, t.dialect, collection, id, fields)
}

func (t *gormTx) Delete(collection, id string) error {
	if err := t.db.Where("collection = ? AND id = ?", collection, id).Delete(&Document{}).Error; err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func get(db *gorm.DB, collection, id string) (Snapshot, error) {
	var doc Document
	err := db.Where("collection = ? AND id = ?", collection, id).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return missing(collection, id), nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return toSnapshot(doc)
}

func set(db *gorm.DB, collection, id string, data Record) error {
	raw, err := encodeRecord(data)
	if err != nil {
		return err
	}
	doc := Document{Collection: collection, ID: id, Data: raw}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func update(db *gorm.DB, d dialect, collection, id string, fields Record) error {
	patch, err := encodeRecord(fields)
	if err != nil {
		return err
	}
	res := db.Model(&Document{}).
		Where("collection = ? AND id = ?", collection, id).
		Updates(map[string]interface{}{
			"data":       d.merge(patch),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}
	return nil
}

func toSnapshot(doc Document) (Snapshot, error) {
	data, err := decodeRecord(doc.Data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s/%s: %w", doc.Collection, doc.ID, err)
	}
	return Snapshot{Collection: doc.Collection, ID: doc.ID, Data: data, exists: true}, nil
}
