package telemetry

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

type queryStartKey struct{}

type gormRegister interface {
	Register(name string, fn func(*gorm.DB)) error
}

// otelAfter prefixes the otelgorm callbacks that end the span and restore
// the parent context. After hooks run ahead of them so the span is still
// open and the start time still in the context.
const otelAfter = "otel:after:"

// gormHooks receives the statement and its SQL verb once the query ran.
type gormHooks struct {
	prefix string
	after  func(db *gorm.DB, verb string, elapsed time.Duration)
}

// register installs a start-time callback before every gorm:<op> anchor and
// the after hook behind it. An empty verb is read off the SQL.
func (h gormHooks) register(db *gorm.DB) error {
	cb := db.Callback()
	hooks := []struct {
		op, verb      string
		before, after gormRegister
	}{
		{"create", "INSERT", cb.Create().Before("gorm:create"), cb.Create().After("gorm:create").Before(otelAfter + "create")},
		{"query", "SELECT", cb.Query().Before("gorm:query"), cb.Query().After("gorm:query").Before(otelAfter + "select")},
		{"update", "UPDATE", cb.Update().Before("gorm:update"), cb.Update().After("gorm:update").Before(otelAfter + "update")},
		{"delete", "DELETE", cb.Delete().Before("gorm:delete"), cb.Delete().After("gorm:delete").Before(otelAfter + "delete")},
		{"row", "", cb.Row().Before("gorm:row"), cb.Row().After("gorm:row").Before(otelAfter + "row")},
		{"raw", "", cb.Raw().Before("gorm:raw"), cb.Raw().After("gorm:raw").Before(otelAfter + "raw")},
	}
	for _, hk := range hooks {
		if err := hk.before.Register(h.prefix+":before_"+hk.op, markQueryStart); err != nil {
			return err
		}
		verb := hk.verb
		if err := hk.after.Register(h.prefix+":after_"+hk.op, func(db *gorm.DB) {
			v := verb
			if v == "" {
				v = sqlVerb(db.Statement.SQL.String())
			}
			h.after(db, v, queryElapsed(db))
		}); err != nil {
			return err
		}
	}
	return nil
}

func markQueryStart(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		ctx = context.Background()
	}
	db.Statement.Context = context.WithValue(ctx, queryStartKey{}, time.Now())
}

func queryElapsed(db *gorm.DB) time.Duration {
	if db.Statement.Context == nil {
		return 0
	}
	if start, ok := db.Statement.Context.Value(queryStartKey{}).(time.Time); ok {
		return time.Since(start)
	}
	return 0
}

func sqlVerb(sql string) string {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return "OTHER"
	}
	switch v := strings.ToUpper(fields[0]); v {
	case "WITH":
		return "SELECT"
	case "SELECT", "INSERT", "UPDATE", "DELETE":
		return v
	}
	return "OTHER"
}
