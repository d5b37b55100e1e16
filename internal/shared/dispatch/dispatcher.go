// Package dispatch は銘柄をキーとする重複排除付きのワンショット
// バックグラウンドジョブ実行機を提供します。
package dispatch

import (
	"context"
	"log/slog"
	"sync"
)

// Status はジョブの状態です。
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusRunning   Status = "running"
	StatusFailed    Status = "failed"
)

const (
	defaultWorkers   = 4
	defaultQueueSize = 64
)

// FetchFunc はディスパッチャーが銘柄ごとに1回実行する外部の価格取得アクションです。
type FetchFunc func(ctx context.Context, ticker string) error

// Dispatcher は価格同期ジョブをスケジュールし、ワーカープールで非同期に
// 実行します。重複排除キーは銘柄シンボルのみで、ウォッチリストには
// 依存しません。ジョブ状態はプロセス内限りで、再起動で失われます
// （回復は冪等で、次のSchedule呼び出しで再取得されます）。
type Dispatcher struct {
	fetch   FetchFunc
	workers int
	queue   chan string
	stopCh  chan struct{}
	wg      sync.WaitGroup

	mu   sync.Mutex
	jobs map[string]Status
}

// NewDispatcher はDispatcherの新しいインスタンスを生成します。
// workersまたはqueueSizeが0以下の場合はデフォルト値を使用します。
func NewDispatcher(fetch FetchFunc, workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &Dispatcher{
		fetch:   fetch,
		workers: workers,
		queue:   make(chan string, queueSize),
		stopCh:  make(chan struct{}),
		jobs:    make(map[string]Status),
	}
}

// Start はワーカーゴルーチンを起動します。
func (d *Dispatcher) Start(ctx context.Context) {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx)
	}
	slog.Info("dispatcher started", "workers", d.workers)
}

// Stop はワーカーを停止し、実行中のジョブの完了を待ちます。
// キューに残ったジョブは破棄されます。
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	d.wg.Wait()
	slog.Info("dispatcher stopped")
}

// Schedule は銘柄の価格同期ジョブを投入します。非ブロッキングで、
// 受理された場合にtrueを返します。同一銘柄のジョブが既に保留中
// （scheduledまたはrunning）の場合は何もせずfalseを返します。
// キューが満杯の場合もfalseを返し、ジョブはfailedとして記録されます。
func (d *Dispatcher) Schedule(ticker string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if st, ok := d.jobs[ticker]; ok && (st == StatusScheduled || st == StatusRunning) {
		return false
	}
	select {
	case d.queue <- ticker:
		d.jobs[ticker] = StatusScheduled
		return true
	default:
		d.jobs[ticker] = StatusFailed
		slog.Warn("dispatch queue full, job dropped", "ticker", ticker)
		return false
	}
}

// JobStatus は銘柄のジョブ状態を返します。正常に完了したジョブは集合から
// 取り除かれるため、状態が残っているのは保留中または失敗したジョブだけです。
func (d *Dispatcher) JobStatus(ticker string) (Status, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	st, ok := d.jobs[ticker]
	return st, ok
}

// setStatus はジョブ状態を更新します。
func (d *Dispatcher) setStatus(ticker string, st Status) {
	d.mu.Lock()
	d.jobs[ticker] = st
	d.mu.Unlock()
}

// clearJob は完了したジョブを集合から取り除きます。
func (d *Dispatcher) clearJob(ticker string) {
	d.mu.Lock()
	delete(d.jobs, ticker)
	d.mu.Unlock()
}

// worker はキューからジョブを取り出して実行します。同一銘柄のジョブは
// 保留中に再投入できないため、同じ銘柄が2つ同時に実行されることはありません。
func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.stopCh:
			return
		case ticker := <-d.queue:
			d.setStatus(ticker, StatusRunning)
			if err := d.fetch(ctx, ticker); err != nil {
				// 失敗しても自動リトライはしない。次の明示的なScheduleで再試行される。
				slog.Error("price sync failed", "ticker", ticker, "error", err)
				d.setStatus(ticker, StatusFailed)
				continue
			}
			d.clearJob(ticker)
		}
	}
}
