package shatter

import "sync"

// task splits data in workersCount chunks and runs fn on each element,
// returning once every chunk is done
func task[T any](workersCount int, data []T, fn func(data T)) {
	if len(data) == 0 {
		return
	}
	workersCount = max(1, min(workersCount, len(data)))

	var wg sync.WaitGroup
	chunkSize := (len(data) + workersCount - 1) / workersCount

	for start := 0; start < len(data); start += chunkSize {
		wg.Add(1)
		go func(chunk []T) {
			defer wg.Done()
			for _, d := range chunk {
				fn(d)
			}
		}(data[start:min(start+chunkSize, len(data))])
	}
	wg.Wait()
}
