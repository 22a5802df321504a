package service

import (
	"sync/atomic"
	"time"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	postsReceived  atomic.Int64
	postsHandled   atomic.Int64
	postsFailed    atomic.Int64
	tradesExecuted atomic.Int64
	lastPostUnix   atomic.Int64 // unix seconds
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) PostReceived(t time.Time) {
	s.postsReceived.Add(1)
	s.lastPostUnix.Store(t.Unix())
}
func (s *State) PostHandled()   { s.postsHandled.Add(1) }
func (s *State) PostFailed()    { s.postsFailed.Add(1) }
func (s *State) TradeExecuted() { s.tradesExecuted.Add(1) }

func (s *State) LastPost() time.Time {
	u := s.lastPostUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

type Snapshot struct {
	Ready          bool  `json:"ready"`
	UptimeSec      int64 `json:"uptimeSec"`
	PostsReceived  int64 `json:"postsReceived"`
	PostsProcessed int64 `json:"postsProcessed"`
	PostsFailed    int64 `json:"postsFailed"`
	TradesExecuted int64 `json:"tradesExecuted"`
	LastPostUnix   int64 `json:"lastPostUnix"`
}

func (s *State) Snapshot() Snapshot {
	return Snapshot{
		Ready:          s.Ready(),
		UptimeSec:      int64(s.Uptime().Seconds()),
		PostsReceived:  s.postsReceived.Load(),
		PostsProcessed: s.postsHandled.Load(),
		PostsFailed:    s.postsFailed.Load(),
		TradesExecuted: s.tradesExecuted.Load(),
		LastPostUnix:   s.lastPostUnix.Load(),
	}
}

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }
