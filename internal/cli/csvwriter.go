package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/xid"
	"github.com/tebeka/atexit"

	"github.com/sibexico/PageTrace/paging"
)

// StepCSVWriter stores trace steps into a CSV file.
type StepCSVWriter struct {
	path string
	dir  string
	file *os.File
	buf  *bufio.Writer

	steps      []*paging.Step
	bufferSize int
	closed     bool
}

// NewStepCSVWriter creates a new StepCSVWriter. An empty path generates a
// unique file name.
func NewStepCSVWriter(path string) *StepCSVWriter {
	return &StepCSVWriter{
		path:       path,
		bufferSize: 256,
	}
}

// Init creates the CSV file. It refuses to overwrite an existing file.
// Buffered steps are flushed when the program exits through atexit, even if
// Close is never reached.
func (w *StepCSVWriter) Init() error {
	if w.path == "" {
		w.path = filepath.Join(w.dir, "pagetrace_"+xid.New().String())
	}

	filename := w.Filename()
	if _, err := os.Stat(filename); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	w.file = file
	w.buf = bufio.NewWriter(file)

	fmt.Fprintf(w.buf, "Index, Page, Action, Slot, Evicted, Frames, Aux\n")

	atexit.Register(func() {
		_ = w.Close()
	})
	return nil
}

// Filename returns the path of the CSV file. ".csv" is appended unless the
// path already ends with it.
func (w *StepCSVWriter) Filename() string {
	if filepath.Ext(w.path) == ".csv" {
		return w.path
	}
	return w.path + ".csv"
}

// Write buffers a step, flushing once the buffer is full.
func (w *StepCSVWriter) Write(step *paging.Step) {
	w.steps = append(w.steps, step)
	if len(w.steps) >= w.bufferSize {
		w.Flush()
	}
}

// Flush writes the buffered steps to the file.
func (w *StepCSVWriter) Flush() {
	if w.closed {
		return
	}

	for _, s := range w.steps {
		fmt.Fprintf(w.buf, "%d, %d, %s, %d, %d, %s, %s\n",
			s.Index,
			s.Page,
			s.Action,
			s.Slot,
			s.Evicted,
			joinInts(s.Frames),
			auxString(s.Aux),
		)
	}
	w.steps = nil
}

// Close flushes and closes the file. Calling it again does nothing.
func (w *StepCSVWriter) Close() error {
	if w.closed || w.file == nil {
		return nil
	}

	w.Flush()
	w.closed = true

	if err := w.buf.Flush(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

// auxString renders policy state in one CSV field
func auxString(aux paging.AuxState) string {
	switch s := aux.(type) {
	case paging.FIFOState:
		return fmt.Sprintf("pointer=%d", s.Pointer)
	case paging.LRUState:
		return "ages=" + joinInts(s.Ages)
	case paging.ClockState:
		return fmt.Sprintf("hand=%d bits=%s probes=%d", s.Hand, bitString(s.Bits), s.Probes)
	default:
		return ""
	}
}

func bitString(bits []uint8) string {
	var sb strings.Builder
	for _, b := range bits {
		sb.WriteByte('0' + b)
	}
	return sb.String()
}
