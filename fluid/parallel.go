package fluid

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum particle count to fan a phase out to
// the worker pool. Below this, single-threaded is faster due to
// goroutine overhead.
const parallelThreshold = 64

// phaseChunk is a range of particle indices for one worker to process.
type phaseChunk struct {
	start, end int
}

// phaseFunc processes particles [start, end) for one phase. The worker
// index selects per-worker scratch buffers; workers only ever write
// their own particles' slots, so phases need no locking.
type phaseFunc func(worker, start, end int)

// workerPool runs fork-join parallel-for passes over the particle
// range with a barrier after each pass. Workers are persistent
// goroutines fed over channels.
type workerPool struct {
	numWorkers int

	workChan chan phaseChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool

	// fn is written before chunks are dispatched and read by workers
	// after they receive a chunk; the channel hand-off orders the two.
	fn phaseFunc
}

func newWorkerPool() *workerPool {
	return &workerPool{numWorkers: runtime.GOMAXPROCS(0)}
}

// start launches the persistent worker goroutines.
func (p *workerPool) start() {
	if p.running {
		return
	}
	p.workChan = make(chan phaseChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// stop signals all workers to exit and waits for them.
func (p *workerPool) stop() {
	if !p.running {
		return
	}
	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

func (p *workerPool) worker(workerID int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			p.fn(workerID, chunk.start, chunk.end)
			p.doneChan <- struct{}{}
		}
	}
}

// forEach runs fn over [0, n), parallel for large n, and returns only
// after every index has been processed.
func (p *workerPool) forEach(n int, fn phaseFunc) {
	if n <= 0 {
		return
	}
	if n < parallelThreshold {
		fn(0, 0, n)
		return
	}

	if !p.running {
		p.start()
	}
	p.fn = fn

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers
	dispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		p.workChan <- phaseChunk{start: start, end: end}
		dispatched++
	}

	for i := 0; i < dispatched; i++ {
		<-p.doneChan
	}
}
