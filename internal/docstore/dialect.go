package docstore

import (
	"fmt"
	"regexp"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// dialect isole le SQL JSON propre à chaque moteur
type dialect interface {
	orderBy(field string, dir Direction) string
	merge(patch string) clause.Expr
	lockForUpdate(db *gorm.DB) *gorm.DB
}

func dialectFor(db *gorm.DB) dialect {
	if db.Dialector.Name() == "postgres" {
		return postgresDialect{}
	}
	return sqliteDialect{}
}

type postgresDialect struct{}

func (postgresDialect) orderBy(field string, dir Direction) string {
	return fmt.Sprintf("data->'%s' %s NULLS LAST, id", field, keyword(dir))
}

func (postgresDialect) merge(patch string) clause.Expr {
	return gorm.Expr("data || ?::jsonb", patch)
}

func (postgresDialect) lockForUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

type sqliteDialect struct{}

func (sqliteDialect) orderBy(field string, dir Direction) string {
	return fmt.Sprintf("json_extract(data, '$.%s') IS NULL, json_extract(data, '$.%s') %s, id", field, field, keyword(dir))
}

func (sqliteDialect) merge(patch string) clause.Expr {
	return gorm.Expr("json_patch(data, ?)", patch)
}

// SQLite sérialise déjà les transactions (un seul écrivain)
func (sqliteDialect) lockForUpdate(db *gorm.DB) *gorm.DB {
	return db
}

func keyword(dir Direction) string {
	if dir == Desc {
		return "DESC"
	}
	return "ASC"
}
