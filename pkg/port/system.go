package port

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// System is the Output of the registered gomidi driver.
// A driver has to be registered by importing it, e.g. gitlab.com/gomidi/midi/v2/drivers/rtmididrv.
type System struct {
	ports []drivers.Out
}

func NewSystem() *System {
	return &System{ports: gomidi.GetOutPorts()}
}

func (s *System) Count() int {
	return len(s.ports)
}

func (s *System) Name(i int) (string, error) {
	if _, err := Check(s, i); err != nil {
		return "", err
	}
	return s.ports[i].String(), nil
}

func (s *System) Connect(i int) (Conn, error) {
	if _, err := Check(s, i); err != nil {
		return nil, err
	}

	out := s.ports[i]
	send, err := gomidi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("open output %q: %w", out.String(), err)
	}

	return &systemConn{out: out, send: send}, nil
}

type systemConn struct {
	out  drivers.Out
	send func(msg gomidi.Message) error
}

func (c *systemConn) Send(msg []byte) error {
	return c.send(gomidi.Message(msg))
}

func (c *systemConn) Close() error {
	return c.out.Close()
}
