package pgtest

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Rows is an in-memory pgx.Rows. Columns name the fields so pgxscan can map
// them onto struct tags; Data holds one slice of values per row.
type Rows struct {
	Columns []string
	Data    [][]any
	Error   error

	pos    int
	closed bool
}

var _ pgx.Rows = (*Rows)(nil)

// NewRows builds Rows with the given column names.
func NewRows(columns ...string) *Rows {
	return &Rows{Columns: columns}
}

// Add appends a row.
func (r *Rows) Add(values ...any) *Rows {
	r.Data = append(r.Data, values)
	return r
}

func (r *Rows) Close() { r.closed = true }

func (r *Rows) Err() error { return r.Error }

func (r *Rows) CommandTag() pgconn.CommandTag {
	return pgconn.NewCommandTag("SELECT")
}

func (r *Rows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.Columns))
	for i, c := range r.Columns {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}

func (r *Rows) Next() bool {
	if r.closed || r.Error != nil || r.pos >= len(r.Data) {
		r.closed = true
		return false
	}
	r.pos++
	return true
}

func (r *Rows) current() ([]any, error) {
	if r.pos == 0 || r.pos > len(r.Data) {
		return nil, errors.New("pgtest: no current row")
	}
	return r.Data[r.pos-1], nil
}

func (r *Rows) Scan(dest ...any) error {
	row, err := r.current()
	if err != nil {
		return err
	}
	if len(dest) != len(row) {
		return errors.New("pgtest: column count mismatch")
	}
	for i := range dest {
		if err := assign(dest[i], row[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Rows) Values() ([]any, error) {
	return r.current()
}

func (r *Rows) RawValues() [][]byte { return nil }

func (r *Rows) Conn() *pgx.Conn { return nil }
