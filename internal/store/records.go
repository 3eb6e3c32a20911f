package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"uk.co.dudmesh.napbook/internal/model"
)

type Config interface {
	DataDirectory() string
}

type entityRow struct {
	TableName    string `db:"TableName"`
	PartitionKey string `db:"PartitionKey"`
	RowKey       string `db:"RowKey"`
	Properties   string `db:"Properties"`
	ETag         string `db:"ETag"`
}

type records struct {
	db *sqlx.DB
}

func NewRecords(config Config) (*records, error) {
	return open("file:" + path.Join(config.DataDirectory(), "entities.db"))
}

// NewMemoryRecords opens a private in-memory database, mostly for tests.
func NewMemoryRecords(name string) (*records, error) {
	return open("file:" + name + "?mode=memory&cache=shared")
}

func open(dsn string) (*records, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// sqlite serialises writers anyway; one connection keeps merges atomic.
	db.SetMaxOpenConns(1)

	s := &records{db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *records) init() error {
	_, err := s.db.Exec(`create table if not exists entity (
		TableName    text not null,
		PartitionKey text not null,
		RowKey       text not null,
		Properties   text not null,
		ETag         text not null,
		primary key (TableName, PartitionKey, RowKey)
	)`)
	if err != nil {
		return fmt.Errorf("creating entity table: %w", err)
	}
	return nil
}

func (s *records) Close() error {
	return s.db.Close()
}

func (s *records) Get(ctx context.Context, key model.RecordKey) (*model.Record, error) {
	row := entityRow{}
	err := s.db.GetContext(ctx, &row, `select * from entity where TableName = ? and PartitionKey = ? and RowKey = ?`,
		key.Table, key.Partition, key.Row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("fetching %s/%s/%s: %w", key.Table, key.Partition, key.Row, model.ErrorNotFound)
		}
		return nil, fmt.Errorf("fetching %s/%s/%s: %w", key.Table, key.Partition, key.Row, err)
	}
	return row.record()
}

// Insert creates every record in one transaction, failing with ErrorConflict
// if any of them already exists.
func (s *records) Insert(ctx context.Context, entries ...*model.Record) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	for _, record := range entries {
		var count int
		err := tx.GetContext(ctx, &count, `select count(*) from entity where TableName = ? and PartitionKey = ? and RowKey = ?`,
			record.Table, record.Partition, record.Row)
		if err != nil {
			return fmt.Errorf("checking %s/%s/%s: %w", record.Table, record.Partition, record.Row, err)
		}
		if count != 0 {
			return fmt.Errorf("inserting %s/%s/%s: %w", record.Table, record.Partition, record.Row, model.ErrorConflict)
		}

		row, err := newEntityRow(record.RecordKey, record.Properties)
		if err != nil {
			return err
		}
		_, err = tx.NamedExecContext(ctx, `insert into entity
			(TableName, PartitionKey, RowKey, Properties, ETag)
			values(:TableName, :PartitionKey, :RowKey, :Properties, :ETag)`, row)
		if err != nil {
			return fmt.Errorf("inserting %s/%s/%s: %w", record.Table, record.Partition, record.Row, err)
		}
		record.ETag = row.ETag
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing inserts: %w", err)
	}
	return nil
}

// Merge overwrites the given properties of an existing record and keeps the
// rest. A non-empty ifMatch must equal the stored ETag.
func (s *records) Merge(ctx context.Context, key model.RecordKey, props model.Properties, ifMatch string) (*model.Record, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	current := entityRow{}
	err = tx.GetContext(ctx, &current, `select * from entity where TableName = ? and PartitionKey = ? and RowKey = ?`,
		key.Table, key.Partition, key.Row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("updating %s/%s/%s: %w", key.Table, key.Partition, key.Row, model.ErrorNotFound)
		}
		return nil, fmt.Errorf("fetching %s/%s/%s: %w", key.Table, key.Partition, key.Row, err)
	}
	if ifMatch != "" && ifMatch != current.ETag {
		return nil, fmt.Errorf("updating %s/%s/%s: %w", key.Table, key.Partition, key.Row, model.ErrorConflict)
	}

	record, err := current.record()
	if err != nil {
		return nil, err
	}
	for k, v := range props {
		record.Properties[k] = v
	}

	row, err := newEntityRow(key, record.Properties)
	if err != nil {
		return nil, err
	}
	_, err = tx.NamedExecContext(ctx, `update entity set Properties = :Properties, ETag = :ETag
		where TableName = :TableName and PartitionKey = :PartitionKey and RowKey = :RowKey`, row)
	if err != nil {
		return nil, fmt.Errorf("updating %s/%s/%s: %w", key.Table, key.Partition, key.Row, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing update: %w", err)
	}

	record.ETag = row.ETag
	return record, nil
}

func newEntityRow(key model.RecordKey, props model.Properties) (*entityRow, error) {
	if props == nil {
		props = model.Properties{}
	}
	data, err := json.Marshal(props)
	if err != nil {
		return nil, fmt.Errorf("marshalling properties: %w", err)
	}
	return &entityRow{
		TableName:    key.Table,
		PartitionKey: key.Partition,
		RowKey:       key.Row,
		Properties:   string(data),
		ETag:         ETag(props),
	}, nil
}

func (r *entityRow) record() (*model.Record, error) {
	props := model.Properties{}
	if err := json.Unmarshal([]byte(r.Properties), &props); err != nil {
		return nil, fmt.Errorf("unmarshalling properties of %s/%s/%s: %w", r.TableName, r.PartitionKey, r.RowKey, err)
	}
	return &model.Record{
		RecordKey:  model.RecordKey{Table: r.TableName, Partition: r.PartitionKey, Row: r.RowKey},
		Properties: props,
		ETag:       r.ETag,
	}, nil
}
