package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"go.uber.org/multierr"

	"github.com/benz9527/xrbtree/lib/tree"
	"github.com/benz9527/xrbtree/observability"
	"github.com/benz9527/xrbtree/xlog"
)

type config struct {
	insertKeys     []int64
	deleteKeys     []int64
	probeKeys      []int64
	order          tree.RBTraverseOrder
	borrowPred     bool
	dupPolicy      tree.RBDuplicatePolicy
	desc           bool
	invariantCheck bool
	workers        int
	metrics        observability.MetricsExporterType
	logOpts        []xlog.XLoggerOption
}

func (cfg *config) treeOpts() []tree.RBTreeOpt[int64, struct{}] {
	opts := []tree.RBTreeOpt[int64, struct{}]{
		tree.WithRBTreeDuplicatePolicy[int64, struct{}](cfg.dupPolicy),
	}
	if cfg.desc {
		opts = append(opts, tree.WithRBTreeDesc[int64, struct{}]())
	}
	if cfg.borrowPred {
		opts = append(opts, tree.WithRBTreeRemoveBorrowPred[int64, struct{}]())
	}
	if cfg.invariantCheck {
		opts = append(opts, tree.WithRBTreeInvariantCheck[int64, struct{}]())
	}
	if cfg.metrics != observability.NoneMetricsExporter {
		opts = append(opts, tree.WithRBTreeStats[int64, struct{}]("driver"))
	}
	return opts
}

func parseKeys(name string, raw []string) ([]int64, error) {
	var err error
	keys := lo.FilterMap(raw, func(s string, _ int) (int64, bool) {
		if s = strings.TrimSpace(s); len(s) == 0 {
			return 0, false
		}
		k, parseErr := strconv.ParseInt(s, 10, 64)
		if parseErr != nil {
			err = multierr.Append(err, fmt.Errorf("--%s %q: %w", name, s, parseErr))
			return 0, false
		}
		return k, true
	})
	return keys, err
}

func parseOrder(order string) (tree.RBTraverseOrder, error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "pre", "preorder":
		return tree.PreOrder, nil
	case "in", "inorder":
		return tree.InOrder, nil
	case "post", "postorder":
		return tree.PostOrder, nil
	default:
	}
	return tree.PreOrder, fmt.Errorf("--order %q: expected pre, in or post", order)
}

func parseBorrow(borrow string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(borrow)) {
	case "succ", "successor":
		return false, nil
	case "pred", "predecessor":
		return true, nil
	default:
	}
	return false, fmt.Errorf("--borrow %q: expected succ or pred", borrow)
}

func parseDupPolicy(policy string) (tree.RBDuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "reject":
		return tree.RejectDuplicate, nil
	case "ignore":
		return tree.IgnoreDuplicate, nil
	case "replace":
		return tree.ReplaceDuplicateVal, nil
	default:
	}
	return tree.RejectDuplicate, fmt.Errorf("--dup %q: expected reject, ignore or replace", policy)
}

// parseConfig reads the flags and reports every invalid one at once.
// pflag.ErrHelp is returned as is for -h/--help.
func parseConfig(args []string, errOut io.Writer) (*config, error) {
	fs := pflag.NewFlagSet("xrbtree", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	var (
		insertKeys = fs.StringSlice("keys", []string{"2", "1", "4", "5", "9", "3", "6", "7"}, "keys to insert, in order")
		deleteKeys = fs.StringSlice("delete", []string{"5"}, "keys to delete after the insertions, in order")
		probeKeys  = fs.StringSlice("probe", nil, "keys to look up concurrently at last")
		order      = fs.String("order", "pre", "traversal order of the printed tree: pre, in or post")
		borrow     = fs.String("borrow", "succ", "node borrowed to delete a node with two children: succ or pred")
		dup        = fs.String("dup", "reject", "duplicate key policy: reject, ignore or replace")
		desc       = fs.Bool("desc", false, "order the keys descending")
		check      = fs.Bool("check", false, "validate the tree after every mutation")
		workers    = fs.Int("workers", 0, "probe pool size, GOMAXPROCS if not positive")
		metrics    = fs.String("metrics", "none", "metrics exporter: none, console or prometheus")
		logLevel   = fs.String("log-level", "info", "log level: debug, info, warn or error")
		logEnc     = fs.String("log-encoder", "plaintext", "log encoder: json or plaintext")
	)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg := &config{
		desc:           *desc,
		invariantCheck: *check,
		workers:        *workers,
	}
	var err, e error
	cfg.insertKeys, e = parseKeys("keys", *insertKeys)
	err = multierr.Append(err, e)
	cfg.deleteKeys, e = parseKeys("delete", *deleteKeys)
	err = multierr.Append(err, e)
	cfg.probeKeys, e = parseKeys("probe", *probeKeys)
	err = multierr.Append(err, e)
	cfg.order, e = parseOrder(*order)
	err = multierr.Append(err, e)
	cfg.borrowPred, e = parseBorrow(*borrow)
	err = multierr.Append(err, e)
	cfg.dupPolicy, e = parseDupPolicy(*dup)
	err = multierr.Append(err, e)
	cfg.metrics, e = observability.ParseMetricsExporterType(*metrics)
	err = multierr.Append(err, e)

	lvl, e := xlog.ParseLogLevel(*logLevel)
	err = multierr.Append(err, e)
	enc, e := xlog.ParseLogEncoder(*logEnc)
	err = multierr.Append(err, e)
	cfg.logOpts = []xlog.XLoggerOption{
		xlog.WithXLoggerWriter(xlog.StdErr),
		xlog.WithXLoggerLevel(lvl),
		xlog.WithXLoggerEncoder(enc),
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
