package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/core/usecase"
)

func openTestDB(t *testing.T, ddl string, inserts ...string) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	if err != nil {
		t.Fatalf("OpenDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range append([]string{ddl}, inserts...) {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("exec %q: %v", stmt, err)
		}
	}
	return db
}

const richSchema = `CREATE TABLE hadiths (
	id TEXT PRIMARY KEY,
	turkish_text TEXT, english_text TEXT, arabic_text TEXT, text TEXT,
	source TEXT, reference TEXT, kitap TEXT, bab TEXT,
	category TEXT, language TEXT,
	embedding TEXT, embedding_model TEXT
)`

func TestSearchTextRichSchema(t *testing.T) {
	db := openTestDB(t, richSchema,
		`INSERT INTO hadiths (id, turkish_text, source, reference, kitap) VALUES ('h-27', 'Peygamber oruçlu iken misvak kullanırdı.', 'Buhari', 'Savm 27', 'Savm')`,
		`INSERT INTO hadiths (id, english_text, source, reference) VALUES ('h-30', 'Prayer at night.', 'Muslim', 'Salat 30')`,
	)
	repo, err := NewRecordRepository(db, "hadiths")
	if err != nil {
		t.Fatalf("NewRecordRepository() error = %v", err)
	}

	got, err := repo.SearchText(context.Background(), []string{"misvak"}, domain.FieldSetRich, 10)
	if err != nil {
		t.Fatalf("SearchText() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "h-27" || got[0].Book != "Savm" {
		t.Fatalf("unexpected records %+v", got)
	}

	got, err = repo.SearchText(context.Background(), []string{"prayer"}, domain.FieldSetRich, 10)
	if err != nil || len(got) != 1 || got[0].PrimaryText != "Prayer at night." {
		t.Fatalf("expected english match, got %+v err=%v", got, err)
	}
}

func TestSearchTextHonoursLimit(t *testing.T) {
	db := openTestDB(t, richSchema,
		`INSERT INTO hadiths (id, text, source, reference) VALUES ('a', 'oruç', 'Buhari', 'Savm 1')`,
		`INSERT INTO hadiths (id, text, source, reference) VALUES ('b', 'oruç', 'Buhari', 'Savm 2')`,
		`INSERT INTO hadiths (id, text, source, reference) VALUES ('c', 'oruç', 'Buhari', 'Savm 3')`,
	)
	repo, _ := NewRecordRepository(db, "hadiths")

	got, err := repo.SearchText(context.Background(), []string{"buhari"}, domain.FieldSetMinimal, 2)
	if err != nil {
		t.Fatalf("SearchText() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected limit 2, got %d", len(got))
	}
}

func TestListWithEmbeddingSkipsBlankEmbeddings(t *testing.T) {
	db := openTestDB(t, richSchema,
		`INSERT INTO hadiths (id, text, source, reference, embedding, embedding_model) VALUES ('a', 'x', 'Buhari', 'Savm 1', '1,0', 'ollama:nomic')`,
		`INSERT INTO hadiths (id, text, source, reference, embedding) VALUES ('b', 'y', 'Buhari', 'Savm 2', '')`,
		`INSERT INTO hadiths (id, text, source, reference) VALUES ('c', 'z', 'Buhari', 'Savm 3')`,
	)
	repo, _ := NewRecordRepository(db, "hadiths")

	got, err := repo.ListWithEmbedding(context.Background())
	if err != nil {
		t.Fatalf("ListWithEmbedding() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" || got[0].Embedding.Model != "ollama:nomic" {
		t.Fatalf("unexpected records %+v", got)
	}
}

// A legacy table has no language-split or embedding columns: the vector tier
// fails at the store and the generic text column serves the lexical tiers.
func TestRetrievalFallsBackOnLegacySchema(t *testing.T) {
	db := openTestDB(t, `CREATE TABLE hadiths (id TEXT, text TEXT, source TEXT, reference TEXT)`,
		`INSERT INTO hadiths VALUES ('h-27', 'Oruçlu iken misvak kullanmak', 'Buhari', 'Savm 27')`,
	)
	repo, _ := NewRecordRepository(db, "hadiths")

	if _, err := repo.ListWithEmbedding(context.Background()); err == nil {
		t.Fatalf("expected missing embedding column error")
	}

	retriever := usecase.NewRetrieveUseCase(repo, usecase.NewEmbeddingChain(), usecase.RetrieveOptions{})
	got := retriever.Retrieve(context.Background(), "Oruçluyken misvak kullanılır mı?", 3)
	if len(got) != 1 || got[0].Tier != domain.TierLexicalRich || got[0].Record.ID != "h-27" {
		t.Fatalf("expected lexical hit on the text column, got %+v", got)
	}
}

// Schema of the hadiths table written by the Python backend: Turkish column
// names, integer id, no english_text or text column.
const turkishSchema = `CREATE TABLE hadiths (
	id INTEGER PRIMARY KEY,
	hadis_id TEXT, kitap TEXT, bab TEXT, hadis_no TEXT,
	arabic_text TEXT, turkish_text TEXT,
	tags TEXT, topic TEXT, authenticity TEXT, narrator_chain TEXT,
	related_ayah TEXT, context TEXT,
	source TEXT NOT NULL, reference TEXT,
	category TEXT, language TEXT DEFAULT 'tr',
	embedding TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

func TestRetrievalSearchesTurkishSchemaBodies(t *testing.T) {
	db := openTestDB(t, turkishSchema,
		`INSERT INTO hadiths (id, kitap, turkish_text, source, reference) VALUES (1, 'Savm', 'Peygamber oruçlu iken misvak kullanırdı.', 'Buhari', 'Savm 27')`,
		`INSERT INTO hadiths (id, kitap, turkish_text, source, reference) VALUES (2, 'Salat', 'Gece namazı iki rekat iki rekattır.', 'Muslim', 'Salat 30')`,
	)
	repo, _ := NewRecordRepository(db, "hadiths")

	if _, err := repo.SearchText(context.Background(), []string{"misvak"}, domain.FieldSetMinimal, 10); err == nil {
		t.Fatalf("minimal tier must fail without a text column")
	}

	retriever := usecase.NewRetrieveUseCase(repo, usecase.NewEmbeddingChain(), usecase.RetrieveOptions{})
	got := retriever.Retrieve(context.Background(), "Oruçluyken misvak kullanılır mı?", 3)
	if len(got) == 0 || got[0].Tier != domain.TierLexicalRich || got[0].Record.ID != "1" {
		t.Fatalf("expected turkish_text hit on the rich tier, got %+v", got)
	}
	if got[0].Record.Book != "Savm" {
		t.Fatalf("expected kitap mapped to book, got %+v", got[0].Record)
	}
}

func TestRetrievalMetadataOnlySchema(t *testing.T) {
	db := openTestDB(t, `CREATE TABLE hadiths (id TEXT, source TEXT, reference TEXT)`,
		`INSERT INTO hadiths VALUES ('h-1', 'Buhari', 'Savm 27')`,
	)
	repo, _ := NewRecordRepository(db, "hadiths")

	retriever := usecase.NewRetrieveUseCase(repo, usecase.NewEmbeddingChain(), usecase.RetrieveOptions{})
	got := retriever.Retrieve(context.Background(), "Buhari savm rivayetleri", 3)
	if len(got) != 1 || got[0].Tier != domain.TierMetadataOnly {
		t.Fatalf("expected metadata-only hit, got %+v", got)
	}
}
