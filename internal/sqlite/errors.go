package sqlite

import (
	"errors"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// constraint identifies which SQLite constraint an error violated.
type constraint int

const (
	constraintNone constraint = iota
	constraintUnique
	constraintPrimaryKey
	constraintForeignKey
	constraintOther
)

// classifyConstraint inspects err for a SQLite constraint violation. The
// driver reports extended result codes; the message check covers builds
// where only the primary SQLITE_CONSTRAINT code comes through.
func classifyConstraint(err error) constraint {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return constraintNone
	}

	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return constraintUnique
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return constraintPrimaryKey
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return constraintForeignKey
	}

	if serr.Code()&0xff != sqlite3.SQLITE_CONSTRAINT {
		return constraintNone
	}
	msg := serr.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return constraintUnique
	case strings.Contains(msg, "PRIMARY KEY"):
		return constraintPrimaryKey
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return constraintForeignKey
	default:
		return constraintOther
	}
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// violation.
func isUniqueViolation(err error) bool {
	c := classifyConstraint(err)
	return c == constraintUnique || c == constraintPrimaryKey
}

// isForeignKeyViolation reports whether err is a FOREIGN KEY violation.
func isForeignKeyViolation(err error) bool {
	return classifyConstraint(err) == constraintForeignKey
}
