package lib

import (
	"context"
	"fmt"

	"network-rrd/connection"
	model_entry "network-rrd/models/if_entry"
	"network-rrd/pkg/if_entry"
	"network-rrd/pkg/if_table"

	"github.com/bytedance/gopkg/util/gopool"
	"go.uber.org/zap"
)

const (
	default_coroutine_nums = 1
	max_coroutine_nums     = 30
)

// Emit receives every interface record as soon as all of its values are read,
// in discovery order.
type Emit func(model_entry.InterfaceRecord) error

type Collector struct {
	Connection connection.Session
	Pool       *connection.SNMPConnectionPool
	Workers    int
	logger     *zap.Logger
}

func NewCollector(conn connection.Session, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		Connection: conn,
		Workers:    default_coroutine_nums,
		logger:     logger,
	}
}

// WithPool lets per-interface reads run on up to workers sessions of pool.
func (c *Collector) WithPool(pool *connection.SNMPConnectionPool, workers int) *Collector {
	if workers > max_coroutine_nums {
		workers = max_coroutine_nums
	}
	if workers < 1 {
		workers = default_coroutine_nums
	}
	c.Pool = pool
	c.Workers = workers
	return c
}

// Collect walks the interface table, then reads every discovered interface.
// The first error ends the run; records emitted before it stay emitted and are
// returned alongside the error.
func (c *Collector) Collect(ctx context.Context, emit Emit) ([]model_entry.InterfaceRecord, error) {
	table, err := if_table.NewITCollector(c.Connection, c.logger).Walk(ctx)
	if err != nil {
		return nil, err
	}

	indices := table.Indices()
	c.logger.Info("interface table walked", zap.Int("interfaces", len(indices)))

	if c.Pool == nil || c.Workers <= 1 || len(indices) < 2 {
		return c.collectSequential(ctx, indices, emit)
	}
	return c.collectConcurrent(ctx, indices, emit)
}

func (c *Collector) collectSequential(ctx context.Context, indices []string, emit Emit) ([]model_entry.InterfaceRecord, error) {
	iec := if_entry.NewIECollector(c.Connection, c.logger)
	records := make([]model_entry.InterfaceRecord, 0, len(indices))

	for _, index := range indices {
		record, err := iec.Collect(ctx, index)
		if err != nil {
			return records, err
		}
		if err := emit(record); err != nil {
			return records, err
		}
		records = append(records, record)
	}
	return records, nil
}

type collectResult struct {
	record model_entry.InterfaceRecord
	err    error
}

func (c *Collector) collectConcurrent(ctx context.Context, indices []string, emit Emit) ([]model_entry.InterfaceRecord, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]chan collectResult, len(indices))
	for i := range results {
		results[i] = make(chan collectResult, 1)
	}

	pool := gopool.NewPool("if-entry", int32(c.Workers), gopool.NewConfig())
	for i, index := range indices {
		i, index := i, index
		pool.CtxGo(ctx, func() {
			results[i] <- c.collectOne(ctx, index)
		})
	}

	records := make([]model_entry.InterfaceRecord, 0, len(indices))
	for i := range indices {
		var res collectResult
		select {
		case res = <-results[i]:
		case <-ctx.Done():
			return records, ctx.Err()
		}
		if res.err != nil {
			return records, res.err
		}
		if err := emit(res.record); err != nil {
			return records, err
		}
		records = append(records, res.record)
	}
	return records, nil
}

func (c *Collector) collectOne(ctx context.Context, index string) (res collectResult) {
	defer func() {
		if p := recover(); p != nil {
			res.err = fmt.Errorf("interface %s: panic: %v", index, p)
		}
	}()

	conn, err := c.Pool.GetConnection(ctx)
	if err != nil {
		return collectResult{err: err}
	}
	defer c.Pool.ReleaseConnection(conn)

	record, err := if_entry.NewIECollector(conn, c.logger).Collect(ctx, index)
	return collectResult{record: record, err: err}
}
