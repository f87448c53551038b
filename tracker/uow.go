// Package tracker persists generated entity graphs in one transaction.
package tracker

import (
	"context"
	"database/sql"
	"sync"

	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Tx is the slice of a transaction deferred operations may use.
// It keeps gorm out of callers' signatures.
type Tx interface {
	// Create inserts value alone; associations are never cascaded.
	Create(value any) error
}

type gormTx struct{ db *gorm.DB }

func (r gormTx) Create(value any) error { return create(r.db, value) }

func create(db *gorm.DB, value any) error {
	return db.Omit(clause.Associations).Create(value).Error
}

// Operation is a deferred step run inside the transaction, after tracked entities are created.
// Parent ids assigned on create are visible to it.
type Operation func(tx Tx) error

// UnitOfWork queues entity creates and deferred operations and applies them
// in a single transaction on SaveChanges.
type UnitOfWork struct {
	root *gorm.DB

	ops      []Operation
	toCreate []any

	// afterCommit contains callbacks to run after a successful commit (outside tx)
	afterCommit []func()
	// afterRollback contains callbacks to run after a rollback (outside tx)
	afterRollback []func(error)

	mu sync.Mutex
}

// gormRoots caches a single *gorm.DB per *sql.DB so New stays cheap.
// Entries are never pruned; reuse the *sql.DB for the life of the process.
var gormRoots sync.Map

// New creates a UnitOfWork on sqlDB, which must be an open SQLite handle.
func New(sqlDB *sql.DB) (*UnitOfWork, error) {
	if v, ok := gormRoots.Load(sqlDB); ok {
		return &UnitOfWork{root: v.(*gorm.DB)}, nil
	}
	gdb, err := gorm.Open(sqlite.Dialector{Conn: sqlDB}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.Wrap(err, "tracker: open gorm")
	}
	actual, _ := gormRoots.LoadOrStore(sqlDB, gdb)
	return &UnitOfWork{root: actual.(*gorm.DB)}, nil
}

// AutoMigrate creates or updates the tables of models.
func (r *UnitOfWork) AutoMigrate(models ...any) error { return r.root.AutoMigrate(models...) }

// Add tracks an entity to be created on commit.
func (r *UnitOfWork) Add(entity any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toCreate = append(r.toCreate, entity)
}

// Do queues op to run inside the transaction at commit time.
func (r *UnitOfWork) Do(op Operation) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = append(r.ops, op)
}

// AfterCommit registers a callback to be executed after a successful commit.
func (r *UnitOfWork) AfterCommit(cb func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterCommit = append(r.afterCommit, cb)
}

// AfterRollback registers a callback to be executed with the error that rolled the transaction back.
func (r *UnitOfWork) AfterRollback(cb func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterRollback = append(r.afterRollback, cb)
}

// SaveChanges commits all tracked changes in a single transaction.
func (r *UnitOfWork) SaveChanges(ctx context.Context) error { return r.Commit(ctx) }

// Commit creates tracked entities in the order they were added, then runs the
// queued operations. On error the transaction is rolled back and the pending
// work stays queued; use Clear to discard it.
func (r *UnitOfWork) Commit(ctx context.Context) error {
	r.mu.Lock()
	deferredOps := append([]Operation(nil), r.ops...)
	creates := append([]any(nil), r.toCreate...)
	afterCommit := append([]func(){}, r.afterCommit...)
	afterRollback := append([]func(error){}, r.afterRollback...)
	r.mu.Unlock()

	txErr := r.root.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range creates {
			if err := create(tx, e); err != nil {
				return err
			}
		}
		for _, op := range deferredOps {
			if err := op(gormTx{db: tx}); err != nil {
				return err
			}
		}
		return nil
	})

	if txErr != nil {
		for _, cb := range afterRollback {
			// a panicking callback must not hide txErr
			func() { defer func() { _ = recover() }(); cb(txErr) }()
		}
		return txErr
	}

	r.Clear()
	for _, cb := range afterCommit {
		func() { defer func() { _ = recover() }(); cb() }()
	}
	return nil
}

// Clear discards all pending operations and tracked entities.
func (r *UnitOfWork) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ops = nil
	r.toCreate = nil
	r.afterCommit = nil
	r.afterRollback = nil
}

// HasPending reports whether any entity or operation is queued.
func (r *UnitOfWork) HasPending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.ops) > 0 || len(r.toCreate) > 0
}

// PreloadFirst loads the record with primary key id into out, preloading associations.
// It returns ErrNotFound when no such record exists.
func (r *UnitOfWork) PreloadFirst(ctx context.Context, out any, id any, preloads ...string) error {
	db := r.root.WithContext(ctx)
	for _, p := range preloads {
		db = db.Preload(p)
	}
	err := db.First(out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// ErrNotFound is returned by PreloadFirst when the record does not exist.
var ErrNotFound = errors.New("tracker: record not found")
