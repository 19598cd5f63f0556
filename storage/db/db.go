// Copyright 2016 The Go Authors.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package db exports figure tables to a SQL database.
package db

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/xhc-coll/xhcplot/benchseries"
)

// DB is a database of exported figures. It's safe for concurrent use
// by multiple goroutines.
type DB struct {
	sql *sql.DB // underlying database connection
	// prepared statements
	insertFigure *sql.Stmt
	countFigures *sql.Stmt
}

// OpenSQL creates a DB backed by a SQL database. The parameters are
// the same as the parameters for sql.Open. Only mysql and sqlite3 are
// explicitly supported; other database engines will receive MySQL
// query syntax which may or may not be compatible.
func OpenSQL(driverName, dataSourceName string) (*DB, error) {
	db, err := sql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, err
	}
	if hook := openHooks[driverName]; hook != nil {
		if err := hook(db); err != nil {
			db.Close()
			return nil, err
		}
	}
	d := &DB{sql: db}
	if err := d.createTables(driverName); err != nil {
		db.Close()
		return nil, err
	}
	if err := d.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

var openHooks = make(map[string]func(*sql.DB) error)

// RegisterOpenHook registers a hook to be called after opening a connection to driverName.
// This is used by the sqlite3 package to limit the connection pool.
// It must be called from an init function.
func RegisterOpenHook(driverName string, hook func(*sql.DB) error) {
	openHooks[driverName] = hook
}

// createTmpl is the template used to prepare the CREATE statements
// for the database. It is evaluated with . as a map containing one
// entry whose key is the driver name.
var createTmpl = template.Must(template.New("create").Parse(`
CREATE TABLE IF NOT EXISTS Figures (
	FigureID {{if .sqlite3}}INTEGER PRIMARY KEY AUTOINCREMENT{{else}}SERIAL PRIMARY KEY AUTO_INCREMENT{{end}},
	Name VARCHAR(255) NOT NULL,
	Title VARCHAR(1024),
	XLabel VARCHAR(255),
	YLabel VARCHAR(255),
	YScale VARCHAR(16),
	Created VARCHAR(32)
);
CREATE TABLE IF NOT EXISTS Points (
	FigureID BIGINT UNSIGNED,
	PointID BIGINT UNSIGNED,
	Series VARCHAR(255),
	X VARCHAR(255),
	Y DOUBLE,
	Err DOUBLE,
	PRIMARY KEY (FigureID, PointID),
{{if not .sqlite3}}
	Index (FigureID, Series(100)),
{{end}}
	FOREIGN KEY (FigureID) REFERENCES Figures(FigureID) ON UPDATE CASCADE ON DELETE CASCADE
);
{{if .sqlite3}}
CREATE INDEX IF NOT EXISTS PointsSeries ON Points(FigureID, Series);
{{end}}
`))

// createTables creates any missing tables on the connection in
// db.sql. driverName is the same driver name passed to sql.Open and
// is used to select the correct syntax.
func (db *DB) createTables(driverName string) error {
	var buf bytes.Buffer
	if err := createTmpl.Execute(&buf, map[string]bool{driverName: true}); err != nil {
		return err
	}
	for _, q := range strings.Split(buf.String(), ";") {
		if strings.TrimSpace(q) == "" {
			continue
		}
		if _, err := db.sql.Exec(q); err != nil {
			return fmt.Errorf("create table: %v", err)
		}
	}
	return nil
}

// prepareStatements calls db.sql.Prepare on reusable SQL statements.
func (db *DB) prepareStatements() error {
	var err error
	db.insertFigure, err = db.sql.Prepare("INSERT INTO Figures(Name, Title, XLabel, YLabel, YScale, Created) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	db.countFigures, err = db.sql.Prepare("SELECT COUNT(*) FROM Figures")
	if err != nil {
		return err
	}
	return nil
}

// now is a hook for testing
var now = time.Now

// pointsPerInsert bounds the rows of one INSERT INTO Points, to stay
// below the engines' limits on statement parameters.
const pointsPerInsert = 100

// InsertFigure stores fig and its points in one transaction and
// returns the new figure's ID.
func (db *DB) InsertFigure(ctx context.Context, fig *benchseries.Figure) (id int64, err error) {
	tx, err := db.sql.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	created := now().UTC().Format(time.RFC3339)
	res, err := tx.StmtContext(ctx, db.insertFigure).ExecContext(ctx,
		fig.Name, fig.Title, fig.XLabel, fig.YLabel, string(fig.YScale), created)
	if err != nil {
		return 0, err
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, err
	}

	var args []interface{}
	flush := func() error {
		if len(args) == 0 {
			return nil
		}
		query := "INSERT INTO Points VALUES " + strings.Repeat("(?, ?, ?, ?, ?, ?), ", len(args)/6)
		query = strings.TrimSuffix(query, ", ")
		_, err := tx.ExecContext(ctx, query, args...)
		args = args[:0]
		return err
	}
	t := fig.Table()
	var (
		series = t.MustColumn("series").([]string)
		xs     = t.MustColumn("x").([]string)
		ys     = t.MustColumn("y").([]float64)
		errs   = t.MustColumn("err").([]float64)
	)
	for i := range series {
		args = append(args, id, i, series[i], xs[i], ys[i], errs[i])
		if len(args) == 6*pointsPerInsert {
			if err := flush(); err != nil {
				return 0, err
			}
		}
	}
	if err := flush(); err != nil {
		return 0, err
	}
	return id, nil
}

// CountFigures returns the number of figures in the database.
func (db *DB) CountFigures(ctx context.Context) (int, error) {
	var n int
	err := db.countFigures.QueryRowContext(ctx).Scan(&n)
	return n, err
}

// Close closes the database connections, releasing any open resources.
func (db *DB) Close() error {
	if err := db.insertFigure.Close(); err != nil {
		return err
	}
	if err := db.countFigures.Close(); err != nil {
		return err
	}
	return db.sql.Close()
}
