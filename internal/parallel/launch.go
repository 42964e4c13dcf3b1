package parallel

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

// Thread identifies one cooperating thread of an execution group.
type Thread struct {
	Group     int // execution group index within the grid
	Local     int // thread index within the group
	GroupSize int // threads per group

	barrier *Barrier
}

// Global returns the thread's index within the whole grid.
func (t Thread) Global() int {
	return t.Group*t.GroupSize + t.Local
}

// GroupBase returns the global index of the group's first thread.
func (t Thread) GroupBase() int {
	return t.Group * t.GroupSize
}

// Sync blocks until every thread of the group reached the same Sync call.
func (t Thread) Sync() {
	t.barrier.Wait()
}

// NumGroups returns how many groups of groupSize threads cover n items.
func NumGroups(n, groupSize int) int {
	return (n + groupSize - 1) / groupSize
}

// Launch runs kernel on a grid of numGroups execution groups with
// cfg.GroupSize threads each.
//
// The threads of one group run as separate goroutines and share the value
// returned by newShared, which plays the role of group-local scratch memory;
// they synchronize through Thread.Sync. Groups are independent and run
// concurrently, at most cfg.NumWorkers at a time, with no ordering between
// them. Every thread of a started group runs to completion, so kernels must
// not return before a Sync that other threads of the group will reach.
//
// Launch returns once all started groups finished. If ctx is canceled, groups
// that have not started are skipped and ctx.Err() is returned.
func Launch[S any](ctx context.Context, cfg Config, numGroups int, newShared func(groupSize int) S, kernel func(t Thread, shared S)) error {
	groupSize := cfg.GroupWidth()
	klog.V(2).Infof("parallel: launching %d groups of %d threads (%d concurrent)", numGroups, groupSize, cfg.workers())

	var g errgroup.Group
	g.SetLimit(cfg.workers())
	for group := 0; group < numGroups; group++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			runGroup(group, groupSize, newShared(groupSize), kernel)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// runGroup runs the threads of one execution group and waits for all of them.
func runGroup[S any](group, groupSize int, shared S, kernel func(t Thread, shared S)) {
	barrier := NewBarrier(groupSize)
	var wg sync.WaitGroup
	wg.Add(groupSize)
	for local := 0; local < groupSize; local++ {
		go func() {
			defer wg.Done()
			kernel(Thread{Group: group, Local: local, GroupSize: groupSize, barrier: barrier}, shared)
		}()
	}
	wg.Wait()
}
