package muse

import (
	"bufio"
	"io"
	"log"
	"regexp"
)

// mpvReader logs mpv's stderr and picks out the lines worth acting on.
type mpvReader struct {
	wp    *io.PipeWriter
	rp    *io.PipeReader
	log   *log.Logger
	match map[mpvLineEvent]*regexp.Regexp
}

func newMpvReader(output io.Writer, match map[mpvLineEvent]*regexp.Regexp) *mpvReader {
	rp, wp := io.Pipe()
	return &mpvReader{
		wp,
		rp,
		log.New(output, "[mpv] ", log.LstdFlags),
		match,
	}
}

// Start scans lines in the background until the reader is closed.
func (r *mpvReader) Start(callback func(name mpvLineEvent, matches []string)) {
	go func() {
		var scanner = bufio.NewScanner(r.rp)
		for scanner.Scan() {
			line := scanner.Text()

			// Log anyway.
			r.log.Println(line)

			for name, regex := range r.match {
				if ms := regex.FindStringSubmatch(line); ms != nil {
					callback(name, ms)
				}
			}
		}
	}()
}

func (r *mpvReader) Write(b []byte) (int, error) {
	return r.wp.Write(b)
}

func (r *mpvReader) Close() error {
	r.wp.Close()
	r.rp.Close()
	return nil
}
