// Package recordsql reads hadith records from a SQL table whose shape may
// differ between deployments. Columns are matched by name, so an older table
// without the language-split or model columns still scans. Lexical searches
// only touch the columns the table has; a tier fails when none of its body
// columns exist.
package recordsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/kirillkom/hadith-assistant/internal/core/domain"
	"github.com/kirillkom/hadith-assistant/internal/core/vector"
)

// Dialect captures the two things that differ between the supported drivers.
type Dialect struct {
	Name string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder func(n int) string
	// Like is the case-insensitive substring operator.
	Like string
}

var (
	Postgres = Dialect{
		Name:        "postgres",
		Placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
		Like:        "ILIKE",
	}
	// SQLite LIKE folds ASCII only; query terms arrive lowercased already.
	SQLite = Dialect{
		Name:        "sqlite",
		Placeholder: func(int) string { return "?" },
		Like:        "LIKE",
	}
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var (
	errNoBodyColumn   = errors.New("table has no body text column")
	errNoSearchColumn = errors.New("table has none of the searched columns")
)

// Store implements ports.RecordStore over database/sql.
type Store struct {
	db      *sql.DB
	dialect Dialect
	table   string

	mu      sync.Mutex
	columns map[string]struct{}
}

func New(db *sql.DB, dialect Dialect, table string) (*Store, error) {
	table = strings.TrimSpace(table)
	if !identPattern.MatchString(table) {
		return nil, domain.WrapError(domain.ErrInvalidInput, "record table", fmt.Errorf("bad identifier %q", table))
	}
	return &Store{db: db, dialect: dialect, table: table}, nil
}

func (s *Store) ListWithEmbedding(ctx context.Context) ([]domain.TextRecord, error) {
	query := fmt.Sprintf(
		`SELECT * FROM %s WHERE %s IS NOT NULL AND %s <> ''`,
		s.table, columnEmbedding, columnEmbedding,
	)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list embedded records: %w", err)
	}
	return scanRecords(rows)
}

func (s *Store) SearchText(ctx context.Context, terms []string, fields domain.FieldSet, limit int) ([]domain.TextRecord, error) {
	if len(terms) == 0 {
		return []domain.TextRecord{}, nil
	}
	available, err := s.tableColumns(ctx)
	if err != nil {
		return nil, err
	}
	columns, err := searchColumns(fields, available)
	if err != nil {
		return nil, err
	}

	query, args := s.searchQuery(terms, columns, limit)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search records (%s): %w", fields.Name, err)
	}
	return scanRecords(rows)
}

// tableColumns reads the column names once. Failures are not cached so a
// table created after startup is picked up on the next search.
func (s *Store) tableColumns(ctx context.Context) (map[string]struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.columns != nil {
		return s.columns, nil
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT 0", s.table))
	if err != nil {
		return nil, fmt.Errorf("read record columns: %w", err)
	}
	defer rows.Close()
	names, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read record columns: %w", err)
	}

	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[strings.ToLower(name)] = struct{}{}
	}
	s.columns = set
	return set, nil
}

// searchColumns keeps the fields of a tier that the table can serve.
func searchColumns(fields domain.FieldSet, available map[string]struct{}) ([]string, error) {
	out := make([]string, 0, len(fields.Fields))
	wantsBody, hasBody := false, false
	for _, f := range fields.Fields {
		if f.IsBody() {
			wantsBody = true
		}
		column, ok := columnFor(f, available)
		if !ok {
			continue
		}
		if f.IsBody() {
			hasBody = true
		}
		out = append(out, column)
	}
	if wantsBody && !hasBody {
		return nil, fmt.Errorf("search records (%s): %w", fields.Name, errNoBodyColumn)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("search records (%s): %w", fields.Name, errNoSearchColumn)
	}
	return out, nil
}

func (s *Store) searchQuery(terms []string, columns []string, limit int) (string, []any) {
	if len(terms) == 0 || len(columns) == 0 {
		return "", nil
	}

	clauses := make([]string, 0, len(terms)*len(columns))
	args := make([]any, 0, len(terms)*len(columns)+1)
	for _, term := range terms {
		pattern := "%" + term + "%"
		for _, column := range columns {
			args = append(args, pattern)
			clauses = append(clauses, fmt.Sprintf("%s %s %s", column, s.dialect.Like, s.dialect.Placeholder(len(args))))
		}
	}

	query := fmt.Sprintf("SELECT * FROM %s WHERE %s", s.table, strings.Join(clauses, " OR "))
	if limit > 0 {
		args = append(args, limit)
		query += " LIMIT " + s.dialect.Placeholder(len(args))
	}
	return query, args
}

func scanRecords(rows *sql.Rows) ([]domain.TextRecord, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("record columns: %w", err)
	}

	out := make([]domain.TextRecord, 0)
	values := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		row := make(map[string]string, len(columns))
		for i, name := range columns {
			row[strings.ToLower(name)] = asString(values[i])
		}
		out = append(out, recordFromRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

func recordFromRow(row map[string]string) domain.TextRecord {
	id := firstOf(row, aliasesID)
	variants := domain.TextVariants{
		Turkish: row[string(domain.FieldTurkishText)],
		English: row[string(domain.FieldEnglishText)],
		Arabic:  row[string(domain.FieldArabicText)],
		Generic: row[string(domain.FieldText)],
	}
	meta := domain.RecordMeta{
		Source:    row[string(domain.FieldSource)],
		Reference: row[string(domain.FieldReference)],
		Book:      firstOf(row, aliasesBook),
		Chapter:   firstOf(row, aliasesChapter),
		Category:  row["category"],
		Language:  row["language"],
	}

	var embedding domain.Embedding
	if raw := row[columnEmbedding]; raw != "" {
		vec, err := vector.Parse(raw)
		if err != nil {
			slog.Debug("record_embedding_malformed", "record_id", id, "error", err)
		} else {
			embedding = domain.Embedding{Vector: vec, Model: row[columnEmbeddingModel]}
		}
	}
	return domain.NewTextRecord(id, variants, meta, embedding)
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func firstOf(row map[string]string, names []string) string {
	for _, name := range names {
		if v := row[name]; v != "" {
			return v
		}
	}
	return ""
}
