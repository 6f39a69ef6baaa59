package input

// #include <linux/input-event-codes.h>
// #include <linux/input.h>
import "C"

import (
	"encoding/binary"
	"os"
	"syscall"

	"github.com/charmbracelet/log"
)

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

type Event struct {
	Pressed  bool
	Released bool
	//https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
	Code uint16
	Time syscall.Timeval
}

// TimeUs is the kernel timestamp in µs, more precise than the frame the
// event is consumed on.
func (e *Event) TimeUs() int64 {
	return int64(e.Time.Sec)*1000000 + int64(e.Time.Usec)
}

func ReadInput(kbd string, events chan *Event) error {
	file, err := os.Open(kbd)
	if err != nil {
		return err
	}
	go func() {
		defer file.Close()

		var ev keyEvent
		for {
			err = binary.Read(file, binary.LittleEndian, &ev)
			if nil != err {
				log.Error("unable to read keyboard input", "err", err)
				return
			}
			if ev.Type != C.EV_KEY || ev.Value == 2 {
				continue
			}
			events <- &Event{
				Pressed:  ev.Value == 1,
				Released: ev.Value == 0,
				Code:     ev.Code,
				Time:     ev.Time,
			}
		}
	}()
	return nil
}
