package game

import (
	"sync"

	"github.com/pthm-cable/cellgrid/systems"
)

// workChunk represents a range of the cell work list for one worker. Its
// output lands in the buffer of the same index so merge order does not
// depend on scheduling.
type workChunk struct {
	index      int
	start, end int
	dt         float64
}

// parallelState holds resources for the parallel compute phase.
type parallelState struct {
	scratches  []systems.Scratch
	outputs    []systems.Updates
	used       int // outputs filled this tick
	numWorkers int
	threshold  int // below this many cells compute runs inline

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

func newParallelState(numWorkers, threshold int) *parallelState {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &parallelState{
		numWorkers: numWorkers,
		threshold:  threshold,
		scratches:  make([]systems.Scratch, numWorkers),
		outputs:    make([]systems.Updates, numWorkers),
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers(s *Sim) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(s, i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(s *Sim, workerID int) {
	defer p.wg.Done()
	scratch := &p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			s.computeChunk(chunk.start, chunk.end, scratch, &p.outputs[chunk.index], chunk.dt)
			p.doneChan <- struct{}{}
		}
	}
}

// compute runs the cell model over s.cellIDs, inline for small populations
// and on the worker pool otherwise. The store must not be written until it
// returns.
func (s *Sim) compute(dt float64) {
	p := s.parallel
	for i := range p.outputs[:p.used] {
		p.outputs[i].Reset()
	}
	p.used = 0

	n := len(s.cellIDs)
	if n == 0 {
		return
	}

	if n < p.threshold || p.numWorkers == 1 {
		s.computeChunk(0, n, &p.scratches[0], &p.outputs[0], dt)
		p.used = 1
		return
	}
	s.computeParallel(n, dt)
}

// computeParallel dispatches work to the worker pool.
func (s *Sim) computeParallel(n int, dt float64) {
	p := s.parallel
	if !p.running {
		p.startWorkers(s)
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			break
		}
		p.workChan <- workChunk{index: w, start: start, end: end, dt: dt}
		chunksDispatched++
	}

	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
	p.used = chunksDispatched
}

// computeChunk runs the cell model for one slice of the work list.
func (s *Sim) computeChunk(i0, i1 int, scratch *systems.Scratch, out *systems.Updates, dt float64) {
	for _, id := range s.cellIDs[i0:i1] {
		systems.UpdateCell(s.store, id, &s.params, dt, scratch, out)
	}
}
