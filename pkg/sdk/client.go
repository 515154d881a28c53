package docgate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/docgate/internal/db"
	"github.com/kailas-cloud/docgate/internal/db/memory"
	dbMongo "github.com/kailas-cloud/docgate/internal/db/mongo"
	dbRedis "github.com/kailas-cloud/docgate/internal/db/redis"
	"github.com/kailas-cloud/docgate/internal/domain"
	"github.com/kailas-cloud/docgate/internal/domain/catalog"
	domdoc "github.com/kailas-cloud/docgate/internal/domain/document"
	documentrepo "github.com/kailas-cloud/docgate/internal/repository/document"
	documentuc "github.com/kailas-cloud/docgate/internal/usecase/document"
	healthuc "github.com/kailas-cloud/docgate/internal/usecase/health"
	"github.com/kailas-cloud/docgate/internal/usecase/query"
	seeduc "github.com/kailas-cloud/docgate/internal/usecase/seed"
)

const (
	driverMongo  = "mongo"
	driverMemory = "memory"

	defaultTimeout = 10 * time.Second
)

// Record types.
type (
	Product   = catalog.Product
	Order     = catalog.Order
	OrderItem = catalog.OrderItem
	User      = catalog.User
)

// Ptr returns a pointer to v, for optional record fields such as
// Product.InStock or User.Age.
func Ptr[T any](v T) *T { return catalog.Ptr(v) }

// Internal interfaces for substitution in tests.
type documentUseCase interface {
	Create(ctx context.Context, rt domain.RecordType, payload domain.Fields) (string, error)
	Get(ctx context.Context, rt domain.RecordType, id string) (domdoc.Document, error)
	List(ctx context.Context, rt domain.RecordType, params documentuc.ListParams) ([]domdoc.Document, error)
	Count(ctx context.Context, rt domain.RecordType) (int64, error)
}

type seedUseCase interface {
	Seed(ctx context.Context) (seeduc.Result, error)
}

// Client is the docgate SDK entry point.
type Client struct {
	store     db.Store
	locker    *dbRedis.Locker
	docSvc    documentUseCase
	seedSvc   seedUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and waits for the database to answer.
// The provided context is used for connecting and the readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		connectTimeout:   defaultTimeout,
		readinessTimeout: defaultTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("docgate: storage required (use WithMongo or WithMemory)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("docgate: database not ready: %w", err)
	}

	var locker *dbRedis.Locker
	if len(cfg.lockAddrs) > 0 {
		locker, err = dbRedis.NewLocker(dbRedis.Config{Addrs: cfg.lockAddrs, Password: cfg.lockPassword})
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("docgate: create seed lock: %w", err)
		}
	}

	c, err := wireClient(ctx, store, locker, cfg, obs)
	if err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case driverMongo:
		s, err := dbMongo.NewStore(ctx, dbMongo.Config{
			URI:            cfg.uri,
			Database:       cfg.database,
			ConnectTimeout: cfg.connectTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("docgate: create mongo store: %w", err)
		}
		return s, nil
	case driverMemory:
		return memory.NewStore("docgate"), nil
	default:
		return nil, fmt.Errorf("docgate: unknown driver %q", cfg.driver)
	}
}

func wireClient(
	ctx context.Context, store db.Store, locker *dbRedis.Locker, cfg *clientConfig, obs *observer,
) (*Client, error) {
	reg := catalog.NewRegistry()
	repo := documentrepo.New(store, reg).WithLimits(cfg.defaultLimit, cfg.maxLimit)

	c := &Client{store: store, locker: locker, obs: obs}
	if err := repo.EnsureIndexes(ctx); err != nil {
		return c, fmt.Errorf("docgate: ensure indexes: %w", err)
	}

	seedSvc := seeduc.New(repo)
	healthSvc := healthuc.New(store, healthuc.Environment{
		Configured: true,
		URLSet:     cfg.uri != "",
		NameSet:    cfg.database != "",
	})
	if locker != nil {
		seedSvc = seedSvc.WithLocker(locker, cfg.lockTTL)
		healthSvc = healthSvc.WithLock(locker)
	}

	c.docSvc = documentuc.New(repo, query.NewBuilder(reg), reg)
	c.seedSvc = seedSvc
	c.healthSvc = healthSvc
	return c, nil
}

// Close releases all resources.
func (c *Client) Close() {
	if c.locker != nil {
		c.locker.Close()
	}
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Products returns the product collection.
func (c *Client) Products() *Collection[Product] {
	return newCollection[Product](catalog.RecordProduct, c.docSvc, c.obs)
}

// Orders returns the order collection. Orders without a status are stored
// as "pending".
func (c *Client) Orders() *Collection[Order] {
	return newCollection[Order](catalog.RecordOrder, c.docSvc, c.obs)
}

// Users returns the user collection.
func (c *Client) Users() *Collection[User] {
	return newCollection[User](catalog.RecordUser, c.docSvc, c.obs)
}

// SeedOutcome reports what Seed did.
type SeedOutcome struct {
	Message  string
	Inserted int
}

// Seed inserts the sample products when no product exists yet.
func (c *Client) Seed(ctx context.Context) (out SeedOutcome, err error) {
	start := time.Now()
	defer func() { c.obs.observe("seed", start, err) }()

	res, err := c.seedSvc.Seed(ctx)
	if err != nil {
		return SeedOutcome{}, fmt.Errorf("seed: %w", err)
	}
	return SeedOutcome{Message: res.Outcome.Message(), Inserted: res.Inserted}, nil
}
