package domain

import (
	"encoding/json"
	"fmt"
)

// Stream tags a terminal channel frame with the shell stream it belongs to.
type Stream string

const (
	StreamSetup   Stream = "setup"
	StreamStdin   Stream = "stdin"
	StreamStdout  Stream = "stdout"
	StreamStderr  Stream = "stderr"
	StreamUnknown Stream = ""
)

// Message is one frame on the terminal channel. The wire form is a
// 2-element JSON array [stream, payload] in both directions.
type Message struct {
	Stream  Stream
	Payload string
}

func knownStream(s Stream) bool {
	switch s {
	case StreamSetup, StreamStdin, StreamStdout, StreamStderr:
		return true
	}
	return false
}

// DecodeMessage parses a raw frame. Frames that are not a 2-element array
// of strings are a protocol violation; a well-formed frame with an
// unrecognized stream tag decodes to StreamUnknown so callers can skip it.
func DecodeMessage(data []byte) (Message, error) {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return Message{}, fmt.Errorf("%w: decode terminal frame: %v", ErrProtocol, err)
	}
	if len(pair) != 2 {
		return Message{}, fmt.Errorf("%w: terminal frame has %d elements, want 2", ErrProtocol, len(pair))
	}

	msg := Message{Stream: Stream(pair[0]), Payload: pair[1]}
	if !knownStream(msg.Stream) {
		msg.Stream = StreamUnknown
	}
	return msg, nil
}

// EncodeMessage renders the frame in wire form.
func EncodeMessage(msg Message) ([]byte, error) {
	data, err := json.Marshal([]string{string(msg.Stream), msg.Payload})
	if err != nil {
		return nil, fmt.Errorf("%w: encode terminal frame: %v", ErrProtocol, err)
	}
	return data, nil
}

// StdinMessage builds the frame that feeds one command line to the shell.
func StdinMessage(command string) Message {
	return Message{Stream: StreamStdin, Payload: command + "\n"}
}
