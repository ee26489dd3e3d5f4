package logging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// followInterval is how often a followed file is polled for new data.
var followInterval = 100 * time.Millisecond

// TailLog writes the last n lines of the file at path to w (the whole file
// when n <= 0). With follow set it keeps copying appended data until ctx is
// done.
func TailLog(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if n > 0 {
		if err := tailSeek(file, n); err != nil {
			return fmt.Errorf("seek to tail position: %w", err)
		}
	}

	if !follow {
		_, err = io.Copy(w, file)
		return err
	}
	return tailFollow(ctx, w, file)
}

// tailSeek positions file at the start of its last n lines by scanning
// backwards in blocks. A trailing newline does not count as an empty line.
func tailSeek(file *os.File, n int) error {
	const blockSize = 4096

	stat, err := file.Stat()
	if err != nil {
		return err
	}
	size := stat.Size()
	if size == 0 {
		return nil
	}

	end := size
	// Ignore the final newline so "a\nb\n" has two lines, not three.
	last := make([]byte, 1)
	if _, err := file.ReadAt(last, size-1); err != nil {
		return err
	}
	if last[0] == '\n' {
		end--
	}

	newlines := 0
	buf := make([]byte, blockSize)
	for pos := end; pos > 0; {
		chunk := int64(blockSize)
		if pos < chunk {
			chunk = pos
		}
		pos -= chunk
		if _, err := file.ReadAt(buf[:chunk], pos); err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		for i := chunk - 1; i >= 0; i-- {
			if buf[i] != '\n' {
				continue
			}
			newlines++
			if newlines == n {
				_, err := file.Seek(pos+i+1, io.SeekStart)
				return err
			}
		}
	}
	_, err = file.Seek(0, io.SeekStart)
	return err
}

// tailFollow follows a file like tail -f until ctx is done.
func tailFollow(ctx context.Context, w io.Writer, file *os.File) error {
	ticker := time.NewTicker(followInterval)
	defer ticker.Stop()

	var pending bytes.Buffer
	for {
		if _, err := io.Copy(&pending, file); err != nil {
			return err
		}
		// Only emit complete lines so a record being written is not split.
		if i := bytes.LastIndexByte(pending.Bytes(), '\n'); i >= 0 {
			if _, err := w.Write(pending.Next(i + 1)); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			if pending.Len() > 0 {
				if _, err := w.Write(pending.Bytes()); err != nil {
					return err
				}
			}
			return nil
		case <-ticker.C:
		}
	}
}
