package snesmovie

import (
	"context"
	"errors"
	"sync"

	"github.com/bodgit/snesmovie/capture"
)

type job struct {
	index int
	file  string
}

type result struct {
	index   int
	frame   uint64
	decoded *decodedFrame
	err     error
}

func (a *Assembler) queueFiles(ctx context.Context, files []string) (<-chan job, <-chan error) {
	out := make(chan job)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for i, file := range files {
			select {
			case out <- job{i, file}:
			case <-ctx.Done():
				errc <- errors.New("load cancelled")
				return
			}
		}
	}()
	return out, errc
}

func (a *Assembler) decodeWorker(ctx context.Context, in <-chan job, out chan<- result) <-chan error {
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		for j := range in {
			c, err := capture.ReadFile(j.file)
			if err != nil {
				errc <- err
				return
			}

			f, err := decodeFrame(c, a.logger)

			select {
			case out <- result{j.index, c.Frame, f, err}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return errc
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Load reads and decodes the capture files using the given number of
// goroutines, then adds them as frames in the order they are listed. If
// SkipInvalid is set, files that can be read but not decoded are left out.
func (a *Assembler) Load(files []string, workers int) error {
	if workers < 1 {
		workers = 1
	}

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	jobs, errc := a.queueFiles(ctx, files)
	errcList := []<-chan error{errc}

	results := make(chan result)
	for i := 0; i < workers; i++ {
		errcList = append(errcList, a.decodeWorker(ctx, jobs, results))
	}
	errs := mergeErrors(errcList...)

	// Frames decode in any order but are merged strictly in file order
	// so that cache handles do not depend on scheduling
	pending := make(map[int]result)
	for next := 0; next < len(files); {
		select {
		case r := <-results:
			pending[r.index] = r
			for {
				r, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)
				next++

				if r.err != nil {
					if err := a.invalid(r.frame, r.err); err != nil {
						return err
					}
					continue
				}
				a.merge(r.decoded)
			}
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// LoadDir loads every capture file in dir in filename order.
func (a *Assembler) LoadDir(dir string, workers int) error {
	files, err := capture.Glob(dir)
	if err != nil {
		return err
	}
	return a.Load(files, workers)
}
