package redis

import (
	"context"
	"fmt"

	"github.com/kbukum/flowkit/flow"
)

// List returns an async flow over the entries of the list at key. Every
// traversal reads the list from the head in pages of Config.PageSize, so the
// flow is reiterable and sees entries appended while it runs.
func (c *Client) List(key string) *flow.Flow[string] {
	return flow.FromFunc(func(context.Context) flow.Iterator[string] {
		return &listIter{c: c, key: key, page: c.cfg.PageSize}
	})
}

// Appender returns a sink that pushes each value onto the tail of the list
// at key. Use it with flow.Drain or flow.ForEach.
func (c *Client) Appender(key string) func(context.Context, string) error {
	return func(ctx context.Context, value string) error {
		if err := c.rdb.RPush(ctx, key, value).Err(); err != nil {
			return fmt.Errorf("redis rpush %s: %w", key, err)
		}
		return nil
	}
}

type listIter struct {
	c      *Client
	key    string
	page   int64
	offset int64
	buf    []string
	done   bool
}

func (it *listIter) Next(ctx context.Context) (string, bool, error) {
	if len(it.buf) == 0 {
		if it.done {
			return "", false, nil
		}
		if err := it.fetch(ctx); err != nil {
			return "", false, err
		}
		if len(it.buf) == 0 {
			return "", false, nil
		}
	}
	v := it.buf[0]
	it.buf = it.buf[1:]
	return v, true, nil
}

func (it *listIter) fetch(ctx context.Context) error {
	vals, err := it.c.rdb.LRange(ctx, it.key, it.offset, it.offset+it.page-1).Result()
	if err != nil {
		return fmt.Errorf("redis lrange %s: %w", it.key, err)
	}
	it.offset += int64(len(vals))
	it.done = int64(len(vals)) < it.page
	it.buf = vals
	return nil
}

func (it *listIter) Close() error {
	it.buf = nil
	it.done = true
	return nil
}
