// Package field samples a 2D slice of the 3D noise field in parallel.
package field

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/perlin/noise"
)

// parallelThreshold is the minimum row count to use parallel sampling.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 8

// Spec describes a rectangular grid of samples on the plane z = Z.
// Sample (i, j) sits at the center of its cell:
// (OriginX + (i+0.5)*Scale, OriginY + (j+0.5)*Scale, Z).
type Spec struct {
	Width, Height    int
	OriginX, OriginY float64
	Z                float64
	Scale            float64 // Lattice units per sample
}

// Len returns the number of samples in the grid.
func (s Spec) Len() int {
	return s.Width * s.Height
}

// At returns the lattice coordinates of sample (i, j).
func (s Spec) At(i, j int) (x, y, z float64) {
	x = s.OriginX + (float64(i)+0.5)*s.Scale
	y = s.OriginY + (float64(j)+0.5)*s.Scale
	return x, y, s.Z
}

// rowChunk is a range of rows for a worker to fill.
type rowChunk struct {
	start, end int
}

// Sampler evaluates a Spec against one shared noise generator.
// The generator is never written, so workers read it without locks.
type Sampler struct {
	perlin     *noise.Perlin
	numWorkers int
}

// NewSampler creates a sampler. workers <= 0 uses GOMAXPROCS.
func NewSampler(p *noise.Perlin, workers int) *Sampler {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Sampler{perlin: p, numWorkers: workers}
}

// Workers returns the number of worker goroutines used per Sample call.
func (s *Sampler) Workers() int {
	return s.numWorkers
}

// Sample fills dst with the noise values of spec in row-major order and returns it.
// dst is reused when it has enough capacity.
func (s *Sampler) Sample(spec Spec, dst []float64) []float64 {
	n := spec.Len()
	if n <= 0 {
		return dst[:0]
	}
	if cap(dst) < n {
		dst = make([]float64, n)
	}
	dst = dst[:n]

	if spec.Height < parallelThreshold || s.numWorkers == 1 {
		s.fillRows(spec, dst, 0, spec.Height)
		return dst
	}

	s.sampleParallel(spec, dst)
	return dst
}

// sampleParallel splits rows across workers. Every worker writes a
// disjoint region of dst, so the result equals the serial one.
func (s *Sampler) sampleParallel(spec Spec, dst []float64) {
	workers := s.numWorkers
	if workers > spec.Height {
		workers = spec.Height
	}

	work := make(chan rowChunk, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range work {
				s.fillRows(spec, dst, chunk.start, chunk.end)
			}
		}()
	}

	rowsPer := (spec.Height + workers - 1) / workers
	for start := 0; start < spec.Height; start += rowsPer {
		end := start + rowsPer
		if end > spec.Height {
			end = spec.Height
		}
		work <- rowChunk{start: start, end: end}
	}
	close(work)
	wg.Wait()
}

// fillRows evaluates rows [start, end).
func (s *Sampler) fillRows(spec Spec, dst []float64, start, end int) {
	for j := start; j < end; j++ {
		row := dst[j*spec.Width : (j+1)*spec.Width]
		for i := range row {
			x, y, z := spec.At(i, j)
			row[i] = s.perlin.Noise(x, y, z)
		}
	}
}
