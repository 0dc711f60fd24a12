package db

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

var testNotetype = Notetype{
	Name:           "Conjugator",
	Fields:         []string{"Source", "Target", "Comment", "AudioA", "AudioB"},
	QuestionFormat: "{{Source}}",
	AnswerFormat:   "{{Target}}",
	CSS:            ".card {}",
}

func TestCreateOrGetDeck(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	id1, err := CreateOrGetDeck(ctx, db, "Portuguese")
	if err != nil {
		t.Fatalf("create deck: %v", err)
	}
	id2, err := CreateOrGetDeck(ctx, db, " Portuguese ")
	if err != nil {
		t.Fatalf("get deck: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same deck id, got %d and %d", id1, id2)
	}
	if _, err := CreateOrGetDeck(ctx, db, "  "); err == nil {
		t.Fatalf("expected error for empty deck name")
	}
}

func TestCreateOrGetNotetype(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	id1, err := CreateOrGetNotetype(ctx, db, testNotetype)
	if err != nil {
		t.Fatalf("create notetype: %v", err)
	}

	changed := testNotetype
	changed.CSS = ".card { color: red; }"
	id2, err := CreateOrGetNotetype(ctx, db, changed)
	if err != nil {
		t.Fatalf("get notetype: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("expected same notetype id, got %d and %d", id1, id2)
	}

	nt, err := GetNotetypeByName(ctx, db, "Conjugator")
	if err != nil {
		t.Fatalf("load notetype: %v", err)
	}
	if len(nt.Fields) != 5 || nt.Fields[0] != "Source" || nt.Fields[4] != "AudioB" {
		t.Fatalf("unexpected fields %v", nt.Fields)
	}
	if nt.CSS != testNotetype.CSS {
		t.Fatalf("existing notetype should not be overwritten, css=%q", nt.CSS)
	}

	if _, err := GetNotetypeByName(ctx, db, "Missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInsertFindUpdateNote(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	mid, err := CreateOrGetNotetype(ctx, db, testNotetype)
	if err != nil {
		t.Fatal(err)
	}
	did, err := CreateOrGetDeck(ctx, db, "Portuguese")
	if err != nil {
		t.Fatal(err)
	}

	nid, err := InsertNote(ctx, db, mid, did, []string{"ser", "to be", "", "", ""})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	ids, err := FindNotesBySource(ctx, db, mid, "ser")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(ids) != 1 || ids[0] != nid {
		t.Fatalf("expected [%d], got %v", nid, ids)
	}
	if ids, _ := FindNotesBySource(ctx, db, mid, "Ser"); len(ids) != 0 {
		t.Fatalf("lookup must be exact-match, got %v", ids)
	}

	before, err := GetNote(ctx, db, nid)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if err := UpdateNoteFields(ctx, db, nid, []string{"ser", "to be (permanent)", "c", "", ""}); err != nil {
		t.Fatalf("update: %v", err)
	}
	after, err := GetNote(ctx, db, nid)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.GUID != before.GUID {
		t.Fatalf("update must keep the guid")
	}
	if after.Fields[1] != "to be (permanent)" || after.Fields[2] != "c" {
		t.Fatalf("unexpected fields %v", after.Fields)
	}

	n, err := CountCardsInDeck(ctx, db, did)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("expected 1 card, got %d", n)
	}
}

func TestDuplicateKeysCanBeSeeded(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	mid, _ := CreateOrGetNotetype(ctx, db, testNotetype)
	did, _ := CreateOrGetDeck(ctx, db, "Portuguese")

	a, err := InsertNote(ctx, db, mid, did, []string{"ir", "to go", "", "", ""})
	if err != nil {
		t.Fatal(err)
	}
	b, err := InsertNote(ctx, db, mid, did, []string{"ir", "to go", "", "", ""})
	if err != nil {
		t.Fatal(err)
	}

	ids, err := FindNotesBySource(ctx, db, mid, "ir")
	if err != nil {
		t.Fatal(err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Fatalf("expected both seeded notes, got %v", ids)
	}
}

func TestNoteValidation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	if _, err := InsertNote(ctx, db, 1, 1, []string{""}); err == nil {
		t.Fatal("expected error for empty key")
	}
	if _, err := InsertNote(ctx, db, 0, 1, []string{"x"}); err == nil {
		t.Fatal("expected error for notetype id 0")
	}
	if err := UpdateNoteFields(ctx, db, 999, []string{"x"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := GetNote(ctx, db, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFieldSeparatorRejected(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	mid, _ := CreateOrGetNotetype(ctx, db, testNotetype)
	did, _ := CreateOrGetDeck(ctx, db, "Portuguese")

	if _, err := InsertNote(ctx, db, mid, did, []string{"ser", "to be", "a" + FieldSeparator + "b", "", ""}); !errors.Is(err, ErrFieldSeparator) {
		t.Fatalf("expected ErrFieldSeparator on insert, got %v", err)
	}
	if ids, _ := FindNotesBySource(ctx, db, mid, "ser"); len(ids) != 0 {
		t.Fatalf("rejected note must not be stored, got %v", ids)
	}

	nid, err := InsertNote(ctx, db, mid, did, []string{"ser", "to be", "", "", ""})
	if err != nil {
		t.Fatal(err)
	}
	if err := UpdateNoteFields(ctx, db, nid, []string{"ser", "to be", "c" + FieldSeparator, "", ""}); !errors.Is(err, ErrFieldSeparator) {
		t.Fatalf("expected ErrFieldSeparator on update, got %v", err)
	}
	n, err := GetNote(ctx, db, nid)
	if err != nil {
		t.Fatal(err)
	}
	if len(n.Fields) != 5 || n.Fields[2] != "" {
		t.Fatalf("rejected update must leave the note alone, got %q", n.Fields)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	boom := errors.New("boom")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO notes").WillReturnError(boom)
	mock.ExpectRollback()

	err = WithTx(context.Background(), conn, func(tx *sql.Tx) error {
		_, err := InsertNote(context.Background(), tx, 1, 1, []string{"ser"})
		return err
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestWithTxCommits(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE notes SET flds").
		WithArgs("ser"+FieldSeparator+"to be", "ser", sqlmock.AnyArg(), int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = WithTx(context.Background(), conn, func(tx *sql.Tx) error {
		return UpdateNoteFields(context.Background(), tx, 7, []string{"ser", "to be"})
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFindNotesBySourceQueryError(t *testing.T) {
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer conn.Close()

	mock.ExpectQuery("SELECT id FROM notes WHERE mid = \\? AND sfld = \\?").
		WithArgs(int64(1), "ser").
		WillReturnError(sql.ErrConnDone)

	if _, err := FindNotesBySource(context.Background(), conn, 1, "ser"); !errors.Is(err, sql.ErrConnDone) {
		t.Fatalf("expected ErrConnDone, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
