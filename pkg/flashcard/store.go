package flashcard

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/japaniel/verbcards/pkg/db"
)

// Handle identifies a stored record.
type Handle int64

// Container identifies a deck records are filed under.
type Container int64

// Store is the record store the Synchronizer writes to.
type Store interface {
	// FindByKey returns every record whose Source equals key exactly, in no
	// particular order.
	FindByKey(ctx context.Context, key string) ([]Handle, error)
	Get(ctx context.Context, h Handle) (Record, error)
	Insert(ctx context.Context, r Record, c Container) (Handle, error)
	Update(ctx context.Context, h Handle, r Record) error
	GetOrCreateContainer(ctx context.Context, name string) (Container, error)
}

// CollectionStore is a Store backed by the sqlite collection in pkg/db.
type CollectionStore struct {
	conn       *sql.DB
	notetypeID int64
}

// NewCollectionStore ensures the Conjugator note type exists in conn and
// returns a store for it. conn must already be migrated.
func NewCollectionStore(ctx context.Context, conn *sql.DB) (*CollectionStore, error) {
	id, err := db.CreateOrGetNotetype(ctx, conn, Notetype())
	if err != nil {
		return nil, fmt.Errorf("prepare notetype: %w", err)
	}
	return &CollectionStore{conn: conn, notetypeID: id}, nil
}

func (s *CollectionStore) FindByKey(ctx context.Context, key string) ([]Handle, error) {
	ids, err := db.FindNotesBySource(ctx, s.conn, s.notetypeID, key)
	if err != nil {
		return nil, err
	}
	handles := make([]Handle, len(ids))
	for i, id := range ids {
		handles[i] = Handle(id)
	}
	return handles, nil
}

func (s *CollectionStore) Get(ctx context.Context, h Handle) (Record, error) {
	n, err := db.GetNote(ctx, s.conn, int64(h))
	if err != nil {
		return Record{}, err
	}
	return RecordFromFields(n.Fields), nil
}

// Insert writes the note and its card in one transaction.
func (s *CollectionStore) Insert(ctx context.Context, r Record, c Container) (Handle, error) {
	var id int64
	err := db.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		var err error
		id, err = db.InsertNote(ctx, tx, s.notetypeID, int64(c), r.Fields())
		return err
	})
	if err != nil {
		return 0, err
	}
	return Handle(id), nil
}

func (s *CollectionStore) Update(ctx context.Context, h Handle, r Record) error {
	return db.UpdateNoteFields(ctx, s.conn, int64(h), r.Fields())
}

func (s *CollectionStore) GetOrCreateContainer(ctx context.Context, name string) (Container, error) {
	id, err := db.CreateOrGetDeck(ctx, s.conn, name)
	if err != nil {
		return 0, err
	}
	return Container(id), nil
}
