package md2epub

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/alnah/go-md2epub/internal/dateutil"
	"github.com/alnah/go-md2epub/internal/yamlutil"
)

// Manifest defaults.
const (
	DefaultTitle    = "Untitled"
	DefaultLanguage = "en"
	DefaultRole     = "aut"
	DefaultTOCDepth = 6
	MinTOCDepth     = 1
	MaxTOCDepth     = 6
	roleLength      = 3
)

// RawManifest is a manifest as written by the user. Fields accepting more
// than one shape use the list and date types of this package.
type RawManifest struct {
	Title       string     `json:"title,omitempty" yaml:"title,omitempty"`
	Subtitle    string     `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	OnlyTitle   bool       `json:"onlyTitle,omitempty" yaml:"onlyTitle,omitempty"`
	SortTitle   string     `json:"sortTitle,omitempty" yaml:"sortTitle,omitempty"`
	Language    string     `json:"language,omitempty" yaml:"language,omitempty"`
	Contents    StringList `json:"contents,omitempty" yaml:"contents,omitempty"`
	CSS         StringList `json:"css,omitempty" yaml:"css,omitempty"`
	Author      AuthorList `json:"author,omitempty" yaml:"author,omitempty"`
	Authors     AuthorList `json:"authors,omitempty" yaml:"authors,omitempty"`
	Publisher   string     `json:"publisher,omitempty" yaml:"publisher,omitempty"`
	Rights      string     `json:"rights,omitempty" yaml:"rights,omitempty"`
	TOCDepth    int        `json:"tocDepth,omitempty" yaml:"tocDepth,omitempty"`
	TOC         *bool      `json:"toc,omitempty" yaml:"toc,omitempty"`
	Date        DateValue  `json:"date,omitempty" yaml:"date,omitempty"`
	Created     DateValue  `json:"created,omitempty" yaml:"created,omitempty"`
	Copyrighted DateValue  `json:"copyrighted,omitempty" yaml:"copyrighted,omitempty"`
	UUID        string     `json:"uuid,omitempty" yaml:"uuid,omitempty"`
	Cover       string     `json:"cover,omitempty" yaml:"cover,omitempty"`
	ISBN        string     `json:"isbn,omitempty" yaml:"isbn,omitempty"`
	DOI         string     `json:"doi,omitempty" yaml:"doi,omitempty"`
}

// ParseManifest decodes a JSON or YAML manifest.
func ParseManifest(data []byte) (*RawManifest, error) {
	var raw RawManifest
	if err := yamlutil.Unmarshal(data, &raw); err != nil {
		return nil, &ValidationError{Reason: err.Error()}
	}
	return &raw, nil
}

// StringList is a string or a list of strings.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return l.fromAny(v)
}

func (l *StringList) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	return l.fromAny(v)
}

func (l *StringList) fromAny(v any) error {
	switch v := v.(type) {
	case nil:
		*l = nil
	case string:
		*l = StringList{v}
	case []any:
		list := make(StringList, len(v))
		for i, item := range v {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("item %d: expected a string, got %T", i, item)
			}
			list[i] = s
		}
		*l = list
	default:
		return fmt.Errorf("expected a string or a list of strings, got %T", v)
	}
	return nil
}

// AuthorEntry is one author as written in a manifest.
type AuthorEntry struct {
	Name string `json:"name" yaml:"name"`
	Sort string `json:"sort,omitempty" yaml:"sort,omitempty"`
	Role string `json:"role,omitempty" yaml:"role,omitempty"`
}

// AuthorList is a name, an author object, or a list of either.
type AuthorList []AuthorEntry

func (l *AuthorList) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return l.fromAny(v)
}

func (l *AuthorList) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	return l.fromAny(v)
}

func (l *AuthorList) fromAny(v any) error {
	if v == nil {
		*l = nil
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		items = []any{v}
	}

	list := make(AuthorList, len(items))
	for i, item := range items {
		entry, err := authorFromAny(item)
		if err != nil {
			return fmt.Errorf("author %d: %w", i, err)
		}
		list[i] = entry
	}
	*l = list
	return nil
}

func authorFromAny(v any) (AuthorEntry, error) {
	switch v := v.(type) {
	case string:
		return AuthorEntry{Name: v}, nil
	case map[string]any:
		return authorFromMap(func(k string) any { return v[k] })
	case map[any]any:
		return authorFromMap(func(k string) any { return v[k] })
	default:
		return AuthorEntry{}, fmt.Errorf("expected a name or an object, got %T", v)
	}
}

func authorFromMap(get func(string) any) (AuthorEntry, error) {
	var entry AuthorEntry
	for key, dst := range map[string]*string{"name": &entry.Name, "sort": &entry.Sort, "role": &entry.Role} {
		switch value := get(key).(type) {
		case nil:
		case string:
			*dst = value
		default:
			return AuthorEntry{}, fmt.Errorf("%s: expected a string, got %T", key, value)
		}
	}
	return entry, nil
}

// DateValue is a date string or a bare year number.
type DateValue string

func (d *DateValue) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return d.fromAny(v)
}

func (d *DateValue) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	return d.fromAny(v)
}

func (d *DateValue) fromAny(v any) error {
	switch v := v.(type) {
	case nil:
		*d = ""
	case string:
		*d = DateValue(v)
	case time.Time:
		*d = DateValue(v.UTC().Format(time.RFC3339Nano))
	case float64:
		if v != math.Trunc(v) {
			return fmt.Errorf("expected a date or a year, got %v", v)
		}
		*d = DateValue(strconv.FormatInt(int64(v), 10))
	case int:
		*d = DateValue(strconv.Itoa(v))
	case int64:
		*d = DateValue(strconv.FormatInt(v, 10))
	case uint64:
		*d = DateValue(strconv.FormatUint(v, 10))
	default:
		return fmt.Errorf("expected a date or a year, got %T", v)
	}
	return nil
}

// Author is a normalized book creator.
type Author struct {
	Name string `json:"name"`
	Sort string `json:"sort"`
	Role string `json:"role"`
}

// Manifest is a validated manifest with every default applied.
type Manifest struct {
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	FullTitle   string    `json:"fullTitle"`
	SortTitle   string    `json:"sortTitle"`
	OnlyTitle   bool      `json:"onlyTitle,omitempty"`
	Language    string    `json:"language"`
	Contents    []string  `json:"contents"`
	CSS         []string  `json:"css,omitempty"`
	Authors     []Author  `json:"authors,omitempty"`
	Publisher   string    `json:"publisher,omitempty"`
	Rights      string    `json:"rights,omitempty"`
	TOCDepth    int       `json:"tocDepth"`
	TOC         bool      `json:"toc"`
	Date        time.Time `json:"date"`
	Created     time.Time `json:"created"`
	Copyrighted time.Time `json:"copyrighted"`
	UUID        string    `json:"uuid,omitempty"`
	Cover       string    `json:"cover,omitempty"`
	ISBN        string    `json:"isbn,omitempty"`
	DOI         string    `json:"doi,omitempty"`
}

// AuthorNames returns the display names of the authors, in order.
func (m *Manifest) AuthorNames() []string {
	names := make([]string, len(m.Authors))
	for i, a := range m.Authors {
		names[i] = a.Name
	}
	return names
}

// Raw returns a raw manifest with every field explicit. Normalizing it
// yields a manifest equal to m.
func (m *Manifest) Raw() *RawManifest {
	toc := m.TOC
	raw := &RawManifest{
		Title:       m.Title,
		Subtitle:    m.Subtitle,
		OnlyTitle:   m.OnlyTitle,
		SortTitle:   m.SortTitle,
		Language:    m.Language,
		Contents:    append(StringList(nil), m.Contents...),
		CSS:         append(StringList(nil), m.CSS...),
		Publisher:   m.Publisher,
		Rights:      m.Rights,
		TOCDepth:    m.TOCDepth,
		TOC:         &toc,
		Date:        DateValue(m.Date.Format(time.RFC3339Nano)),
		Created:     DateValue(m.Created.Format(time.RFC3339Nano)),
		Copyrighted: DateValue(m.Copyrighted.Format(time.RFC3339Nano)),
		UUID:        m.UUID,
		Cover:       m.Cover,
		ISBN:        m.ISBN,
		DOI:         m.DOI,
	}
	for _, a := range m.Authors {
		raw.Authors = append(raw.Authors, AuthorEntry(a))
	}
	return raw
}

// Normalize validates raw and applies defaults. Missing dates default to
// now; the identifier is left empty when raw has none (see
// EnsureIdentifier).
func Normalize(raw *RawManifest, now time.Time) (*Manifest, error) {
	if raw == nil {
		return nil, ErrNilManifest
	}

	m := &Manifest{
		Title:     strings.TrimSpace(raw.Title),
		Subtitle:  strings.TrimSpace(raw.Subtitle),
		OnlyTitle: raw.OnlyTitle,
		Language:  strings.TrimSpace(raw.Language),
		Publisher: strings.TrimSpace(raw.Publisher),
		Rights:    strings.TrimSpace(raw.Rights),
		Cover:     strings.TrimSpace(raw.Cover),
		ISBN:      strings.TrimSpace(raw.ISBN),
		DOI:       strings.TrimSpace(raw.DOI),
		TOC:       raw.TOC == nil || *raw.TOC,
	}
	if m.Title == "" {
		m.Title = DefaultTitle
	}
	if m.Language == "" {
		m.Language = DefaultLanguage
	}

	m.FullTitle = m.Title
	if m.Subtitle != "" && !m.OnlyTitle {
		m.FullTitle = m.Title + ": " + m.Subtitle
	}
	m.SortTitle = strings.TrimSpace(raw.SortTitle)
	if m.SortTitle == "" {
		m.SortTitle = SortTitle(m.Title)
	}

	if len(raw.Contents) == 0 {
		return nil, &ValidationError{Field: "contents", Reason: "must name at least one file"}
	}
	for i, c := range raw.Contents {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("contents[%d]", i), Reason: "empty file name"}
		}
		m.Contents = append(m.Contents, c)
	}
	for i, c := range raw.CSS {
		c = strings.TrimSpace(c)
		if c == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("css[%d]", i), Reason: "empty file name"}
		}
		m.CSS = append(m.CSS, c)
	}

	authors, err := normalizeAuthors(append(append(AuthorList(nil), raw.Authors...), raw.Author...))
	if err != nil {
		return nil, err
	}
	m.Authors = authors

	switch {
	case raw.TOCDepth == 0:
		m.TOCDepth = DefaultTOCDepth
	case raw.TOCDepth < MinTOCDepth || raw.TOCDepth > MaxTOCDepth:
		return nil, &ValidationError{
			Field:  "tocDepth",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", MinTOCDepth, MaxTOCDepth, raw.TOCDepth),
		}
	default:
		m.TOCDepth = raw.TOCDepth
	}

	now = now.UTC()
	if m.Date, err = parseDateField("date", raw.Date, now); err != nil {
		return nil, err
	}
	if m.Created, err = parseDateField("created", raw.Created, m.Date); err != nil {
		return nil, err
	}
	if m.Copyrighted, err = parseDateField("copyrighted", raw.Copyrighted, m.Date); err != nil {
		return nil, err
	}

	if m.Rights == "" && len(m.Authors) > 0 {
		m.Rights = fmt.Sprintf("Copyright \u00a9%d %s", dateutil.Year(m.Copyrighted), FormatList(m.AuthorNames()))
	}

	if id := strings.TrimSpace(raw.UUID); id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, &ValidationError{Field: "uuid", Reason: err.Error()}
		}
		m.UUID = parsed.String()
	}

	return m, nil
}

func normalizeAuthors(entries AuthorList) ([]Author, error) {
	var authors []Author
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("authors[%d].name", i), Reason: "required"}
		}
		role := strings.TrimSpace(e.Role)
		if role == "" {
			role = DefaultRole
		}
		if utf8.RuneCountInString(role) != roleLength {
			return nil, &ValidationError{
				Field:  fmt.Sprintf("authors[%d].role", i),
				Reason: fmt.Sprintf("must be %d characters, got %q", roleLength, role),
			}
		}
		sortKey := strings.TrimSpace(e.Sort)
		if sortKey == "" {
			sortKey = SortAuthor(name)
		}
		authors = append(authors, Author{Name: name, Sort: sortKey, Role: role})
	}
	return authors, nil
}

func parseDateField(field string, value DateValue, fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(string(value)) == "" {
		return fallback, nil
	}
	t, err := dateutil.ParseDate(string(value))
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Reason: err.Error()}
	}
	return t, nil
}
