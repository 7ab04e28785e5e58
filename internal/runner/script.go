package runner

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/wee/internal/core"
)

// Event changes the scripted pointer from Frame on. Omitted fields keep
// their previous value.
type Event struct {
	Frame  int      `yaml:"frame"`
	X      *float64 `yaml:"x,omitempty"`
	Y      *float64 `yaml:"y,omitempty"`
	Button string   `yaml:"button,omitempty"` // up, down, press or release
}

// Script is a list of pointer events ordered by frame.
type Script struct {
	Events []Event
}

// ParseScript decodes a YAML list of events.
func ParseScript(data []byte) (*Script, error) {
	var events []Event
	if err := yaml.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("runner: parsing script: %w", err)
	}
	for i, e := range events {
		if e.Frame < 0 {
			return nil, fmt.Errorf("runner: event %d: negative frame %d", i, e.Frame)
		}
		if e.Button != "" {
			if _, ok := core.ParseButtonState(e.Button); !ok {
				return nil, fmt.Errorf("runner: event %d: unknown button %q", i, e.Button)
			}
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Frame < events[j].Frame
	})
	return &Script{Events: events}, nil
}

// LoadScript reads a YAML event script from path.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("runner: reading script %s: %w", path, err)
	}
	return ParseScript(data)
}

// Pointer replays a script frame by frame. Press and release last one frame
// and then decay to down and up.
type Pointer struct {
	events []Event
	next   int
	mouse  core.Mouse
	last   int
}

// NewPointer starts replaying s, which may be nil for no input.
func NewPointer(s *Script) *Pointer {
	p := &Pointer{last: -1}
	if s != nil {
		p.events = s.Events
	}
	return p
}

// At returns the pointer for frame. Frames must not decrease between calls.
func (p *Pointer) At(frame int) core.Mouse {
	if frame > p.last {
		p.mouse.State = p.mouse.State.Settle()
		p.last = frame
	}
	for p.next < len(p.events) && p.events[p.next].Frame <= frame {
		p.apply(p.events[p.next])
		p.next++
	}
	return p.mouse
}

func (p *Pointer) apply(e Event) {
	if e.X != nil {
		p.mouse.Position.X = *e.X
	}
	if e.Y != nil {
		p.mouse.Position.Y = *e.Y
	}
	if e.Button != "" {
		if state, ok := core.ParseButtonState(e.Button); ok {
			p.mouse.State = state
		}
	}
}
