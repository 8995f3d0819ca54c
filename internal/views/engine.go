package views

import (
	"sync"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

// Engine memoizes the last computed output of each derived view, keyed on the
// snapshot revision (plus the filter for board columns). Because every
// computation is a pure function of (snapshot, filter), serving the cached
// value for an unchanged revision is indistinguishable from recomputing.
type Engine struct {
	mu sync.Mutex

	dashboard    memoStats
	leaderboard  memoLeaderboard
	activity     memoActivity
	distribution memoDistribution
	columns      memoColumns
}

type memoStats struct {
	rev   uint64
	ok    bool
	value model.DashboardStats
}

type memoLeaderboard struct {
	rev   uint64
	ok    bool
	value []model.LeaderboardEntry
}

type memoActivity struct {
	rev   uint64
	ok    bool
	value []model.ActivityEvent
}

type memoDistribution struct {
	rev   uint64
	ok    bool
	value model.StatusDistribution
}

type memoColumns struct {
	rev    uint64
	filter Filter
	ok     bool
	value  model.BoardColumns
}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Dashboard(snap store.Snapshot) model.DashboardStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.dashboard.ok && e.dashboard.rev == snap.Revision {
		return e.dashboard.value
	}
	e.dashboard = memoStats{rev: snap.Revision, ok: true, value: Dashboard(snap)}
	return e.dashboard.value
}

func (e *Engine) Leaderboard(snap store.Snapshot) []model.LeaderboardEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.leaderboard.ok && e.leaderboard.rev == snap.Revision {
		return e.leaderboard.value
	}
	e.leaderboard = memoLeaderboard{rev: snap.Revision, ok: true, value: Leaderboard(snap)}
	return e.leaderboard.value
}

func (e *Engine) Activity(snap store.Snapshot) []model.ActivityEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.activity.ok && e.activity.rev == snap.Revision {
		return e.activity.value
	}
	e.activity = memoActivity{rev: snap.Revision, ok: true, value: Activity(snap)}
	return e.activity.value
}

func (e *Engine) Distribution(snap store.Snapshot) model.StatusDistribution {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.distribution.ok && e.distribution.rev == snap.Revision {
		return e.distribution.value
	}
	e.distribution = memoDistribution{rev: snap.Revision, ok: true, value: Distribution(snap)}
	return e.distribution.value
}

func (e *Engine) Columns(snap store.Snapshot, f Filter) model.BoardColumns {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.columns.ok && e.columns.rev == snap.Revision && e.columns.filter == f {
		return e.columns.value
	}
	e.columns = memoColumns{rev: snap.Revision, filter: f, ok: true, value: Columns(snap, f)}
	return e.columns.value
}
