// Package drivertest provides testify mocks for the postgres pool and
// transactions, plus canned result rows.
package drivertest

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/mock"
)

// MockPool mocks driver.PostgresPool. Expectations match on (ctx, sql);
// query arguments are not compared.
type MockPool struct {
	mock.Mock
}

func (m *MockPool) BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	args := m.Called(ctx, opts)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *MockPool) Exec(ctx context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *MockPool) Query(ctx context.Context, sql string, _ ...any) (pgx.Rows, error) {
	args := m.Called(ctx, sql)
	rows, _ := args.Get(0).(pgx.Rows)
	return rows, args.Error(1)
}

func (m *MockPool) QueryRow(ctx context.Context, sql string, _ ...any) pgx.Row {
	args := m.Called(ctx, sql)
	row, _ := args.Get(0).(pgx.Row)
	return row
}

func (m *MockPool) Close() {}

var _ pgx.Tx = (*MockTx)(nil)

// MockTx mocks pgx.Tx for Commit, Rollback, Exec and SendBatch.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Begin(context.Context) (pgx.Tx, error) {
	return nil, fmt.Errorf("nested transactions are not mocked")
}

func (m *MockTx) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, fmt.Errorf("copy is not mocked")
}

func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	return m.Called(ctx, b).Get(0).(pgx.BatchResults)
}

func (m *MockTx) LargeObjects() pgx.LargeObjects {
	return pgx.LargeObjects{}
}

func (m *MockTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, fmt.Errorf("prepare is not mocked")
}

func (m *MockTx) Exec(ctx context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	args := m.Called(ctx, sql)
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *MockTx) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, fmt.Errorf("query in transaction is not mocked")
}

func (m *MockTx) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func (m *MockTx) Conn() *pgx.Conn {
	return nil
}

var _ pgx.BatchResults = (*MockBatchResults)(nil)

type MockBatchResults struct {
	mock.Mock
}

func (m *MockBatchResults) Exec() (pgconn.CommandTag, error) {
	args := m.Called()
	return args.Get(0).(pgconn.CommandTag), args.Error(1)
}

func (m *MockBatchResults) Query() (pgx.Rows, error) {
	return nil, fmt.Errorf("batch query is not mocked")
}

func (m *MockBatchResults) QueryRow() pgx.Row {
	return nil
}

func (m *MockBatchResults) Close() error {
	return m.Called().Error(0)
}

var _ pgx.Rows = (*Rows)(nil)

// Rows replays fixed values. Scan supports *string, *int, *int64 and *bool
// destinations.
type Rows struct {
	values [][]any
	pos    int
	err    error
	closed bool
}

func NewRows(values ...[]any) *Rows {
	return &Rows{values: values, pos: -1}
}

// WithErr makes Err report err once the rows are exhausted.
func (r *Rows) WithErr(err error) *Rows {
	r.err = err
	return r
}

func (r *Rows) Closed() bool { return r.closed }

func (r *Rows) Close() { r.closed = true }

func (r *Rows) Err() error { return r.err }

func (r *Rows) CommandTag() pgconn.CommandTag {
	return pgconn.NewCommandTag(fmt.Sprintf("SELECT %d", len(r.values)))
}

func (r *Rows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r *Rows) Next() bool {
	if r.closed || r.pos+1 >= len(r.values) {
		r.closed = true
		return false
	}
	r.pos++
	return true
}

func (r *Rows) Scan(dest ...any) error {
	row := r.values[r.pos]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(row))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			v, ok := row[i].(string)
			if !ok {
				return fmt.Errorf("scan: column %d is %T, not string", i, row[i])
			}
			*p = v
		case *int:
			v, ok := row[i].(int)
			if !ok {
				return fmt.Errorf("scan: column %d is %T, not int", i, row[i])
			}
			*p = v
		case *int64:
			v, ok := row[i].(int64)
			if !ok {
				return fmt.Errorf("scan: column %d is %T, not int64", i, row[i])
			}
			*p = v
		case *bool:
			v, ok := row[i].(bool)
			if !ok {
				return fmt.Errorf("scan: column %d is %T, not bool", i, row[i])
			}
			*p = v
		default:
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
	}
	return nil
}

func (r *Rows) Values() ([]any, error) {
	return r.values[r.pos], nil
}

func (r *Rows) RawValues() [][]byte { return nil }

func (r *Rows) Conn() *pgx.Conn { return nil }
