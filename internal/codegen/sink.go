package codegen

import (
	"io"
	"os"
)

// Sink is the destination of one generation run. Generate opens it once and
// closes it before returning.
type Sink interface {
	Open() (io.WriteCloser, error)
	String() string
}

type fileSink struct {
	path string
}

// FileSink creates (or truncates) the file at path when opened.
func FileSink(path string) Sink {
	return &fileSink{path: path}
}

func (s *fileSink) Open() (io.WriteCloser, error) {
	return os.Create(s.path)
}

func (s *fileSink) String() string {
	return s.path
}

type writerSink struct {
	name string
	w    io.Writer
}

// WriterSink writes into an existing writer, such as a buffer or stdout.
// Closing the sink does not close w.
func WriterSink(name string, w io.Writer) Sink {
	return &writerSink{name: name, w: w}
}

func (s *writerSink) Open() (io.WriteCloser, error) {
	return nopCloser{s.w}, nil
}

func (s *writerSink) String() string {
	return s.name
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
