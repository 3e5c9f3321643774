package port

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	// ErrNoOutputPort is returned when there is nothing to play to.
	ErrNoOutputPort = errors.New("no output port found")
	// ErrInvalidSelection is returned for an unparsable or out of range port number.
	ErrInvalidSelection = errors.New("invalid port selection")
)

// Output enumerates output ports and connects to one of them.
type Output interface {
	Count() int
	Name(i int) (string, error)
	Connect(i int) (Conn, error)
}

// Conn is a live connection to an output port.
type Conn interface {
	Send(msg []byte) error
	Close() error
}

// List writes one "index: name" line per port.
func List(out Output, w io.Writer) error {
	for i := 0; i < out.Count(); i++ {
		name, err := out.Name(i)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%d: %s\n", i, name); err != nil {
			return err
		}
	}
	return nil
}

// Select picks the port to play to. A single port is chosen without asking; with several the
// ports are listed on w and the number is read from r.
func Select(out Output, r io.Reader, w io.Writer) (int, error) {
	switch out.Count() {
	case 0:
		return 0, ErrNoOutputPort
	case 1:
		return 0, nil
	}

	fmt.Fprintln(w, "\nAvailable output ports:")
	if err := List(out, w); err != nil {
		return 0, err
	}
	fmt.Fprint(w, "Please select output port: ")

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSelection, err)
	}

	i, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSelection, err)
	}

	return Check(out, i)
}

// Check validates a port number given up front.
func Check(out Output, i int) (int, error) {
	n := out.Count()
	if n == 0 {
		return 0, ErrNoOutputPort
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("%w: %d is not in 0..%d", ErrInvalidSelection, i, n-1)
	}
	return i, nil
}
