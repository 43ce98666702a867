// Package utils holds small helpers shared across the storefront packages.
package utils //nolint:revive // var-naming: utils is an acceptable package name for shared utilities

import "sync"

// MergeErrorChans fans several error channels into one. The returned channel
// closes once every input has closed; nil inputs are skipped.
func MergeErrorChans(channels ...<-chan error) <-chan error {
	out := make(chan error)
	var wg sync.WaitGroup

	for _, ch := range channels {
		if ch == nil {
			continue
		}
		wg.Add(1)
		go func(c <-chan error) {
			defer wg.Done()
			for err := range c {
				out <- err
			}
		}(ch)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
