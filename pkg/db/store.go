package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// ErrFieldSeparator is returned for a field value containing FieldSeparator,
// which would shift every later field when the note is read back.
var ErrFieldSeparator = errors.New("field contains the field separator")

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// WithTx runs fn inside a transaction, committing if fn returns nil.
func WithTx(ctx context.Context, conn *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // ignored if committed
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// CreateOrGetDeck returns the id of the deck called name, creating it if needed.
func CreateOrGetDeck(ctx context.Context, db DBExecutor, name string) (int64, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return 0, fmt.Errorf("deck name must be non-empty")
	}

	var id int64
	err := db.QueryRowContext(ctx, `INSERT INTO decks (name) VALUES (?)
		ON CONFLICT(name) DO UPDATE SET name = excluded.name
		RETURNING id`, trimmed).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert deck: %w", err)
	}
	return id, nil
}

// CreateOrGetNotetype returns the id of the note type with nt.Name, creating
// it from nt if needed. An existing note type is left as it is.
func CreateOrGetNotetype(ctx context.Context, db DBExecutor, nt Notetype) (int64, error) {
	if strings.TrimSpace(nt.Name) == "" {
		return 0, fmt.Errorf("notetype name must be non-empty")
	}
	if len(nt.Fields) == 0 {
		return 0, fmt.Errorf("notetype %q has no fields", nt.Name)
	}

	var id int64
	err := db.QueryRowContext(ctx, `INSERT INTO notetypes (name, fields, qfmt, afmt, css) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET name = excluded.name
		RETURNING id`,
		nt.Name, JoinFields(nt.Fields), nt.QuestionFormat, nt.AnswerFormat, nt.CSS,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("upsert notetype: %w", err)
	}
	return id, nil
}

// GetNotetypeByName loads a note type. It returns ErrNotFound if none exists.
func GetNotetypeByName(ctx context.Context, db DBExecutor, name string) (*Notetype, error) {
	nt := Notetype{Name: name}
	var fields string
	err := db.QueryRowContext(ctx, `SELECT id, fields, qfmt, afmt, css FROM notetypes WHERE name = ?`, name).
		Scan(&nt.ID, &fields, &nt.QuestionFormat, &nt.AnswerFormat, &nt.CSS)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notetype %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	nt.Fields = SplitFields(fields)
	return &nt, nil
}

// FindNotesBySource returns the ids of notes of the given type whose first
// field equals key exactly. Order is unspecified.
func FindNotesBySource(ctx context.Context, db DBExecutor, notetypeID int64, key string) ([]int64, error) {
	query, args, err := squirrel.Select("id").
		From("notes").
		Where(squirrel.Eq{"mid": notetypeID, "sfld": key}).
		ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// InsertNote stores a new note and its card in deckID and returns the note id.
// Callers that need the two rows to land together pass a *sql.Tx.
func InsertNote(ctx context.Context, db DBExecutor, notetypeID, deckID int64, fields []string) (int64, error) {
	if err := checkFields(fields); err != nil {
		return 0, err
	}
	if notetypeID <= 0 {
		return 0, fmt.Errorf("notetypeID must be positive")
	}
	if deckID <= 0 {
		return 0, fmt.Errorf("deckID must be positive")
	}

	mod := time.Now().Unix()
	res, err := db.ExecContext(ctx,
		`INSERT INTO notes (guid, mid, mod, flds, sfld) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), notetypeID, mod, JoinFields(fields), fields[0],
	)
	if err != nil {
		return 0, fmt.Errorf("insert note: %w", err)
	}
	noteID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if _, err := db.ExecContext(ctx,
		`INSERT INTO cards (nid, did, ord, mod) VALUES (?, ?, 0, ?)`,
		noteID, deckID, mod,
	); err != nil {
		return 0, fmt.Errorf("insert card: %w", err)
	}
	return noteID, nil
}

// GetNote loads a note by id. It returns ErrNotFound if none exists.
func GetNote(ctx context.Context, db DBExecutor, id int64) (*Note, error) {
	n := Note{ID: id}
	var flds string
	var mod int64
	err := db.QueryRowContext(ctx, `SELECT guid, mid, mod, flds FROM notes WHERE id = ?`, id).
		Scan(&n.GUID, &n.NotetypeID, &mod, &flds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	n.Modified = time.Unix(mod, 0)
	n.Fields = SplitFields(flds)
	return &n, nil
}

// UpdateNoteFields overwrites the fields of an existing note, keeping its id
// and guid.
func UpdateNoteFields(ctx context.Context, db DBExecutor, id int64, fields []string) error {
	if err := checkFields(fields); err != nil {
		return err
	}
	res, err := db.ExecContext(ctx,
		`UPDATE notes SET flds = ?, sfld = ?, mod = ? WHERE id = ?`,
		JoinFields(fields), fields[0], time.Now().Unix(), id,
	)
	if err != nil {
		return fmt.Errorf("update note %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("note %d: %w", id, ErrNotFound)
	}
	return nil
}

// CountCardsInDeck returns how many cards are filed under deckID.
func CountCardsInDeck(ctx context.Context, db DBExecutor, deckID int64) (int, error) {
	query, args, err := squirrel.Select("COUNT(*)").
		From("cards").
		Where(squirrel.Eq{"did": deckID}).
		ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	err = db.QueryRowContext(ctx, query, args...).Scan(&n)
	return n, err
}

func checkFields(fields []string) error {
	if len(fields) == 0 || strings.TrimSpace(fields[0]) == "" {
		return fmt.Errorf("note key field must be non-empty")
	}
	for i, f := range fields {
		if strings.Contains(f, FieldSeparator) {
			return fmt.Errorf("field %d: %w", i, ErrFieldSeparator)
		}
	}
	return nil
}
