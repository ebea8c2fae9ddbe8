package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
)

// Sample represents a single data point: InputDim features followed by
// OutputDim targets.
type Sample struct {
	X []float64
	Y []float64
}

// StreamCSV streams CSV rows as Samples through a channel. Every record must
// hold inputDim feature columns followed by outputDim target columns; other
// records are logged and skipped. Close the returned done chan to stop early.
func StreamCSV(path string, inputDim, outputDim int, out chan<- Sample) (done chan struct{}, err error) {
	if inputDim <= 0 || outputDim <= 0 {
		return nil, fmt.Errorf("data: need positive dims, got %d inputs and %d outputs", inputDim, outputDim)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bufio.NewReader(file))
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	done = make(chan struct{})

	go func() {
		defer file.Close()
		defer close(out)
		for {
			rec, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				log.Printf("data: %s: skipping record: %v", path, err)
				var perr *csv.ParseError
				if errors.As(err, &perr) {
					continue
				}
				return
			}
			line, _ := reader.FieldPos(0)
			if len(rec) != inputDim+outputDim {
				log.Printf("data: %s: skipping record %d: %d columns, want %d", path, line, len(rec), inputDim+outputDim)
				continue
			}

			vals := make([]float64, len(rec))
			valid := true
			for i, s := range rec {
				v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
				if err != nil {
					// A header row or a bad cell invalidates the whole record.
					if line > 1 {
						log.Printf("data: %s: skipping record %d: %v", path, line, err)
					}
					valid = false
					break
				}
				vals[i] = v
			}
			if !valid {
				continue
			}

			select {
			case <-done:
				return
			case out <- Sample{X: vals[:inputDim], Y: vals[inputDim:]}:
			}
		}
	}()
	return done, nil
}

// ReadCSV loads every valid record of path into row slices.
func ReadCSV(path string, inputDim, outputDim int) (X, Y [][]float64, err error) {
	ch := make(chan Sample, 64)
	if _, err := StreamCSV(path, inputDim, outputDim, ch); err != nil {
		return nil, nil, err
	}
	for s := range ch {
		X = append(X, s.X)
		Y = append(Y, s.Y)
	}
	if len(X) == 0 {
		return nil, nil, fmt.Errorf("data: %s: no valid records", path)
	}
	return X, Y, nil
}

// Batch represents a collection of data points.
type Batch struct {
	X [][]float64
	Y [][]float64
}

// Batcher reads from a Sample channel and emits batches of up to batchSize
// samples. The last batch may be short.
func Batcher(in <-chan Sample, batchSize int, out chan<- Batch) (done chan struct{}) {
	done = make(chan struct{})
	if batchSize < 1 {
		batchSize = 1
	}

	go func() {
		defer close(out)

		var X, Y [][]float64
		for {
			select {
			case <-done:
				return

			case s, ok := <-in:
				if !ok {
					if len(Y) > 0 {
						select {
						case out <- Batch{X: X, Y: Y}:
						case <-done:
						}
					}
					return
				}

				X = append(X, s.X)
				Y = append(Y, s.Y)

				if len(Y) == batchSize {
					select {
					case out <- Batch{X: X, Y: Y}:
					case <-done:
						return
					}
					X = nil
					Y = nil
				}
			}
		}
	}()

	return done
}
