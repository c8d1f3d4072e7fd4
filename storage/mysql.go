package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	currency "github.com/malusev998/currency-converter"
)

const (
	DefaultMySQLTable = "exchange_rate_snapshot"

	// the table only ever holds this one row
	snapshotRowID = 1
)

type (
	MySQLDSNConfig struct {
		User     string
		Password string
		Addr     string
		DBName   string
	}

	sqlStorage struct {
		ctx       context.Context
		db        *sql.DB
		tableName string
	}
)

func MySQLDSN(config MySQLDSNConfig) string {
	mysqlDriverConfig := mysql.NewConfig()
	mysqlDriverConfig.User = config.User
	mysqlDriverConfig.Passwd = config.Password
	mysqlDriverConfig.Addr = config.Addr
	mysqlDriverConfig.Net = "tcp"
	mysqlDriverConfig.DBName = config.DBName

	return mysqlDriverConfig.FormatDSN()
}

func NewMySQLStorage(config MySQLConfig) (currency.Storage, error) {
	db, err := sql.Open("mysql", config.ConnectionString)

	if err != nil {
		return nil, fmt.Errorf("error while connecting to mysql: %w", err)
	}

	st, err := NewSQLStorage(config.Ctx, db, config.TableName, config.Migrate)

	if err != nil {
		_ = db.Close()

		return nil, err
	}

	return st, nil
}

func NewSQLStorage(ctx context.Context, db *sql.DB, tableName string, migrate bool) (currency.Storage, error) {
	if tableName == "" {
		tableName = DefaultMySQLTable
	}

	st := sqlStorage{
		ctx:       contextOrBackground(ctx),
		db:        db,
		tableName: tableName,
	}

	if migrate {
		if err := st.Migrate(); err != nil {
			return nil, err
		}
	}

	return st, nil
}

func (s sqlStorage) Migrate() error {
	_, err := s.db.ExecContext(s.ctx, fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s(id TINYINT UNSIGNED PRIMARY KEY, snapshot LONGTEXT NOT NULL, updated_at DATETIME NOT NULL);",
		s.tableName,
	))

	if err != nil {
		return fmt.Errorf("error while migrating mysql database: %w", err)
	}

	return nil
}

func (s sqlStorage) Save(ctx context.Context, table currency.RateTable) error {
	data, err := encodeSnapshot(table)

	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)

	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("REPLACE INTO %s(id, snapshot, updated_at) VALUES (?,?,?);", s.tableName))

	if err != nil {
		_ = tx.Rollback()
		return err
	}

	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, snapshotRowID, string(data), time.Now().UTC()); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return err
	}

	return nil
}

func (s sqlStorage) Load(ctx context.Context) (currency.RateTable, error) {
	var data string

	row := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT snapshot FROM %s WHERE id = ?;", s.tableName), snapshotRowID)

	if err := row.Scan(&data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return currency.RateTable{}, fmt.Errorf("table %s: %w", s.tableName, currency.ErrSnapshotNotFound)
		}

		return currency.RateTable{}, err
	}

	return decodeSnapshot([]byte(data))
}

func (s sqlStorage) GetStorageProviderName() string {
	return "mysql"
}

func (s sqlStorage) Close() error {
	return s.db.Close()
}
