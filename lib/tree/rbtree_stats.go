package tree

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	RBTreeStatsName = "xrbtree/rbt"
)

var (
	rotateLeftAttrs  = metric.WithAttributeSet(attribute.NewSet(attribute.String("rbt.rotation.direction", Left.String())))
	rotateRightAttrs = metric.WithAttributeSet(attribute.NewSet(attribute.String("rbt.rotation.direction", Right.String())))
)

type rbTreeStats struct {
	insertCount    metric.Int64Counter
	deleteCount    metric.Int64Counter
	duplicateCount metric.Int64Counter
	notFoundCount  metric.Int64Counter
	rotationCount  metric.Int64Counter
	size           metric.Int64ObservableGauge
}

func (stats *rbTreeStats) IncreaseInsertCount() {
	if stats == nil {
		return
	}
	stats.insertCount.Add(context.Background(), 1)
}

func (stats *rbTreeStats) IncreaseDeleteCount() {
	if stats == nil {
		return
	}
	stats.deleteCount.Add(context.Background(), 1)
}

func (stats *rbTreeStats) IncreaseDuplicateCount() {
	if stats == nil {
		return
	}
	stats.duplicateCount.Add(context.Background(), 1)
}

func (stats *rbTreeStats) IncreaseNotFoundCount() {
	if stats == nil {
		return
	}
	stats.notFoundCount.Add(context.Background(), 1)
}

func (stats *rbTreeStats) IncreaseRotationCount(dir RBDirection) {
	if stats == nil {
		return
	}
	if dir == Left {
		stats.rotationCount.Add(context.Background(), 1, rotateLeftAttrs)
		return
	}
	stats.rotationCount.Add(context.Background(), 1, rotateRightAttrs)
}

// The size gauge reads the atomic node count, so the collecting goroutine
// never walks the (unsynchronized) tree.
func newRBTreeStats(name string, size func() int64) *rbTreeStats {
	meterName := fmt.Sprintf("%s/%s", RBTreeStatsName, name)
	meter := otel.Meter(meterName)
	return &rbTreeStats{
		insertCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbt.insert.count",
			metric.WithDescription("The number of keys inserted into the rbtree."),
		)),
		deleteCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbt.delete.count",
			metric.WithDescription("The number of keys deleted from the rbtree."),
		)),
		duplicateCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbt.duplicate.count",
			metric.WithDescription("The number of insertions hitting an existing key."),
		)),
		notFoundCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbt.notfound.count",
			metric.WithDescription("The number of deletions of an absent key."),
		)),
		rotationCount: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"rbt.rotation.count",
			metric.WithDescription("The number of rotations done by the rebalancing."),
		)),
		size: lo.Must[metric.Int64ObservableGauge](meter.Int64ObservableGauge(
			"rbt.size",
			metric.WithDescription("The number of keys in the rbtree."),
			metric.WithInt64Callback(func(ctx context.Context, ob metric.Int64Observer) error {
				ob.Observe(size())
				return nil
			}),
		)),
	}
}
