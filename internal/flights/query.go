package flights

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/chrissnell/routedelay/internal/horizon"
)

// TableName is the table every backend stores flight records in
const TableName = "flights"

// Query identifies one route over one horizon. Codes are expected to be normalized.
type Query struct {
	Origin      string          `json:"origin"`
	Destination string          `json:"destination"`
	Horizon     horizon.Horizon `json:"-"`
}

// Validate checks the shape of the query. Reference-list membership is the caller's concern.
func (q Query) Validate() error {
	if len(q.Origin) != 3 || len(q.Destination) != 3 {
		return fmt.Errorf("airport codes must be three characters: %q, %q", q.Origin, q.Destination)
	}
	if !q.Horizon.Valid() {
		return fmt.Errorf("%w: %d", horizon.ErrUnknownHorizon, int(q.Horizon))
	}
	return nil
}

func (q Query) String() string {
	return fmt.Sprintf("%s->%s/%s", q.Origin, q.Destination, q.Horizon)
}

// dialect holds the few SQL fragments that differ between backends
type dialect struct {
	window string
}

var (
	sqliteDialect = dialect{
		// flight_date is stored as ISO text, which orders the same as the date
		window: "flight_date BETWEEN ? AND ?",
	}
	postgresDialect = dialect{
		window: "flight_date BETWEEN CAST(? AS DATE) AND CAST(? AS DATE)",
	}
)

func (d dialect) routeWindow(b sq.SelectBuilder, q Query) (sq.SelectBuilder, error) {
	if err := q.Validate(); err != nil {
		return b, err
	}
	w, err := q.Horizon.Window()
	if err != nil {
		return b, err
	}
	return b.From(TableName).
		Where(sq.Expr(d.window, w.StartDate(), w.EndDate())).
		Where(sq.Eq{"ORIGIN": q.Origin, "DEST": q.Destination}), nil
}

// countSQL builds the aggregate for one outcome
func (d dialect) countSQL(q Query, o Outcome) (string, []interface{}, error) {
	pred, err := o.predicate()
	if err != nil {
		return "", nil, err
	}

	b, err := d.routeWindow(sq.Select("count(*)"), q)
	if err != nil {
		return "", nil, err
	}
	if pred != nil {
		b = b.Where(pred)
	}
	return b.ToSql()
}

// delaysSQL selects the arrival delay of every flight that landed at its destination
func (d dialect) delaysSQL(q Query) (string, []interface{}, error) {
	b, err := d.routeWindow(sq.Select("ARR_DELAY"), q)
	if err != nil {
		return "", nil, err
	}
	return b.Where(sq.And{
		sq.Eq{"CANCELLED": 0},
		sq.Eq{"DIVERTED": 0},
		sq.NotEq{"ARR_DELAY": nil},
	}).ToSql()
}
