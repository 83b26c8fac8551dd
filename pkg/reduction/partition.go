package reduction

import "fmt"

// Chunk is the half-open index range [Start, End) owned by one worker.
type Chunk struct {
	Worker int
	Start  int
	End    int
}

// Len returns the number of workload elements in the chunk.
func (c Chunk) Len() int {
	return c.End - c.Start
}

// Partition splits a workload of n elements into p contiguous chunks.
// The first n%p workers receive one extra element, so chunk sizes differ by at
// most one. When p > n the trailing chunks are empty; they are still returned
// because every worker takes part in the merge.
func Partition(n, p int) ([]Chunk, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: workload size %d is negative", ErrInvalidArgument, n)
	}
	if p < 1 {
		return nil, fmt.Errorf("%w: worker count %d is below 1", ErrInvalidArgument, p)
	}

	base, rem := n/p, n%p
	chunks := make([]Chunk, p)
	start := 0
	for i := 0; i < p; i++ {
		size := base
		if i < rem {
			size++
		}
		chunks[i] = Chunk{Worker: i, Start: start, End: start + size}
		start += size
	}
	return chunks, nil
}
