package domain

import "strings"

// TextVariants holds the language renderings of one record body.
type TextVariants struct {
	Turkish string `json:"turkish,omitempty"`
	English string `json:"english,omitempty"`
	Arabic  string `json:"arabic,omitempty"`
	Generic string `json:"generic,omitempty"`
}

// Primary returns the first non-blank variant in Turkish, English, Arabic,
// generic order.
func (v TextVariants) Primary() string {
	for _, candidate := range []string{v.Turkish, v.English, v.Arabic, v.Generic} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return ""
}

// Embedding is a stored or query vector tagged with the model that produced
// it. Model is empty for legacy rows written before tagging.
type Embedding struct {
	Vector []float32 `json:"-"`
	Model  string    `json:"model,omitempty"`
}

func (e Embedding) Present() bool {
	return len(e.Vector) > 0
}

// Comparable reports whether a stored embedding may be scored against a query
// embedding. Tagged vectors must come from the same model; untagged vectors
// are accepted only when their length matches.
func (e Embedding) Comparable(query Embedding) bool {
	if !e.Present() || !query.Present() {
		return false
	}
	if e.Model != "" && query.Model != "" {
		return e.Model == query.Model
	}
	return len(e.Vector) == len(query.Vector)
}

type RecordMeta struct {
	Source    string
	Reference string
	Book      string
	Chapter   string
	Category  string
	Language  string
}

type TextRecord struct {
	ID          string       `json:"id"`
	Variants    TextVariants `json:"variants"`
	PrimaryText string       `json:"text"`
	Source      string       `json:"source,omitempty"`
	Reference   string       `json:"reference,omitempty"`
	Book        string       `json:"book,omitempty"`
	Chapter     string       `json:"chapter,omitempty"`
	Category    string       `json:"category,omitempty"`
	Language    string       `json:"language,omitempty"`
	Embedding   Embedding    `json:"embedding"`
}

func NewTextRecord(id string, variants TextVariants, meta RecordMeta, embedding Embedding) TextRecord {
	return TextRecord{
		ID:          id,
		Variants:    variants,
		PrimaryText: variants.Primary(),
		Source:      meta.Source,
		Reference:   meta.Reference,
		Book:        meta.Book,
		Chapter:     meta.Chapter,
		Category:    meta.Category,
		Language:    meta.Language,
		Embedding:   embedding,
	}
}

// FullReference joins source and reference for display, e.g. "Buhari - Savm 27".
func (r TextRecord) FullReference() string {
	source := strings.TrimSpace(r.Source)
	reference := strings.TrimSpace(r.Reference)
	switch {
	case source != "" && reference != "":
		return source + " - " + reference
	case source != "":
		return source
	default:
		return reference
	}
}

// Field is a logical record column. Stores map it to their physical schema.
type Field string

const (
	FieldTurkishText Field = "turkish_text"
	FieldEnglishText Field = "english_text"
	FieldArabicText  Field = "arabic_text"
	FieldText        Field = "text"
	FieldSource      Field = "source"
	FieldReference   Field = "reference"
	FieldBook        Field = "book"
	FieldChapter     Field = "chapter"
)

func (f Field) IsBody() bool {
	switch f {
	case FieldTurkishText, FieldEnglishText, FieldArabicText, FieldText:
		return true
	default:
		return false
	}
}

// FieldSet names the columns one lexical search tier may touch.
type FieldSet struct {
	Name   string
	Fields []Field
}

var (
	FieldSetRich = FieldSet{
		Name: "rich",
		Fields: []Field{
			FieldTurkishText, FieldEnglishText, FieldArabicText, FieldText,
			FieldSource, FieldReference, FieldBook, FieldChapter,
		},
	}
	FieldSetMinimal = FieldSet{
		Name:   "minimal",
		Fields: []Field{FieldText, FieldSource, FieldReference},
	}
	FieldSetMetadata = FieldSet{
		Name:   "metadata",
		Fields: []Field{FieldSource, FieldReference},
	}
)

// Value returns the record content behind a logical field.
func (r TextRecord) Value(f Field) string {
	switch f {
	case FieldTurkishText:
		return r.Variants.Turkish
	case FieldEnglishText:
		return r.Variants.English
	case FieldArabicText:
		return r.Variants.Arabic
	case FieldText:
		return r.Variants.Generic
	case FieldSource:
		return r.Source
	case FieldReference:
		return r.Reference
	case FieldBook:
		return r.Book
	case FieldChapter:
		return r.Chapter
	default:
		return ""
	}
}
