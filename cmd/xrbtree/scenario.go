package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/benz9527/xrbtree/lib/tree"
	"github.com/benz9527/xrbtree/xlog"
)

type outputs struct {
	out        io.Writer
	metricsOut io.Writer
}

// scenario inserts the keys, deletes the keys and probes the keys, the
// tree is printed after each mutation phase as "<key><B|R>" tokens.
type scenario struct {
	cfg    *config
	set    tree.RBSet[int64]
	pool   *ants.Pool
	logger xlog.XLogger
	out    io.Writer
}

func colorToken(color tree.RBColor) byte {
	if color == tree.Red {
		return 'R'
	}
	return 'B'
}

func tokens(set tree.RBSet[int64], order tree.RBTraverseOrder) string {
	builder := &strings.Builder{}
	for key, color := range set.Traverse(order) {
		if builder.Len() > 0 {
			builder.WriteByte(' ')
		}
		builder.WriteString(strconv.FormatInt(key, 10))
		builder.WriteByte(colorToken(color))
	}
	return builder.String()
}

func (s *scenario) print(phase string) error {
	_, err := fmt.Fprintf(s.out, "%s: %s\n", phase, tokens(s.set, s.cfg.order))
	return err
}

// A duplicate or an absent key is reported and skipped, other errors stop
// the run.
func (s *scenario) Run(ctx context.Context) error {
	for _, key := range s.cfg.insertKeys {
		if err := s.set.Insert(key); errors.Is(err, tree.ErrRBTreeDuplicateKey) {
			s.logger.WarnContext(ctx, "skip duplicate key", zap.Int64("key", key))
		} else if err != nil {
			s.logger.ErrorStack(err, "insert failed", zap.Int64("key", key))
			return err
		}
	}
	s.logger.Info("inserted", zap.Int64("len", s.set.Len()))
	if err := s.print("insert"); err != nil {
		return err
	}

	if len(s.cfg.deleteKeys) > 0 {
		for _, key := range s.cfg.deleteKeys {
			if err := s.set.Delete(key); errors.Is(err, tree.ErrRBTreeKeyNotFound) {
				s.logger.WarnContext(ctx, "skip absent key", zap.Int64("key", key))
			} else if err != nil {
				s.logger.ErrorStack(err, "delete failed", zap.Int64("key", key))
				return err
			}
		}
		s.logger.Info("deleted", zap.Int64("len", s.set.Len()))
		if err := s.print("delete"); err != nil {
			return err
		}
	}

	if len(s.cfg.probeKeys) > 0 {
		found, err := s.probe(ctx)
		if err != nil {
			return err
		}
		builder := &strings.Builder{}
		for i, key := range s.cfg.probeKeys {
			if i > 0 {
				builder.WriteByte(' ')
			}
			builder.WriteString(strconv.FormatInt(key, 10))
			builder.WriteByte('=')
			builder.WriteString(strconv.FormatBool(found[i]))
		}
		if _, err = fmt.Fprintf(s.out, "probe: %s\n", builder.String()); err != nil {
			return err
		}
	}
	return nil
}

// probe looks up the keys concurrently, the set is thread safe.
func (s *scenario) probe(ctx context.Context) ([]bool, error) {
	found := make([]bool, len(s.cfg.probeKeys))
	var wg sync.WaitGroup
	for i, key := range s.cfg.probeKeys {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		if err := s.pool.Submit(func() {
			defer wg.Done()
			found[i] = s.set.Contains(key)
		}); err != nil {
			wg.Done()
			wg.Wait()
			s.logger.ErrorStack(err, "probe submit failed", zap.Int64("key", key))
			return nil, err
		}
	}
	wg.Wait()
	return found, nil
}
