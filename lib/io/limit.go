package iolib

import "io"

// LimitReadCloser returns a reader that stops after n bytes and closes rc.
func LimitReadCloser(rc io.ReadCloser, n uint) io.ReadCloser {
	return &limitedReadCloser{LimitedReader{rc, n}, rc}
}

// LimitedReader is uint port of [io.LimitedReader]
type LimitedReader struct {
	R io.Reader // underlying reader
	N uint      // max bytes remaining
}

func (l *LimitedReader) Read(p []byte) (n int, err error) {
	if l.N == 0 {
		return 0, io.EOF
	}
	if uint(len(p)) > l.N {
		p = p[:l.N]
	}
	n, err = l.R.Read(p)
	l.N -= uint(n)
	return
}

type limitedReadCloser struct {
	LimitedReader
	c io.Closer
}

func (l *limitedReadCloser) Close() error { return l.c.Close() }
