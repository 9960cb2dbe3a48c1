// Package tool implements the pointer-driven editing tools and the
// controller that owns their lifecycle.
//
// Every tool moves through the same states:
//
//	detached → attached → (active ⇄ attached) → detached
//
// Register attaches a tool, Activate makes it the one receiving pointer
// input, Unregister detaches it. A pointer-down delivered to the active tool
// may start an interaction; move and up events reach the tool only while an
// interaction is in progress.
package tool

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/gogpu/ggedit/canvas"
	"github.com/gogpu/ggedit/event"
	"github.com/gogpu/ggedit/geom"
	"github.com/gogpu/ggedit/internal/logx"
	"github.com/gogpu/ggedit/layer"
	"github.com/gogpu/ggedit/surface"
)

// Tool names.
const (
	NameCrop      = "crop"
	NameTransform = "transform"
	NameBrush     = "brush"
)

// Controller errors.
var (
	ErrUnknownTool   = errors.New("tool: unknown tool")
	ErrDuplicateTool = errors.New("tool: tool already registered")
)

// Modifiers are the keyboard modifiers held during a pointer event.
type Modifiers struct {
	Shift bool
	Alt   bool
	Ctrl  bool
	Meta  bool
}

// PointerEvent is a pointer sample. Screen is in container coordinates,
// Canvas is the same position mapped into canvas space.
type PointerEvent struct {
	Screen geom.Point
	Canvas geom.Point
	Mods   Modifiers
}

// Host is the editor surface tools work against.
type Host interface {
	Store() *layer.Store
	CanvasSize() geom.Size
	Zoom() float64
	SaveHistory(label string)
	RequestRender()
}

// Tool is a pointer-driven editing mode.
type Tool interface {
	Name() string
	OnAttach(h Host)
	OnDetach()
	OnActivate()
	OnDeactivate()
	// OnPointerDown reports whether an interaction started.
	OnPointerDown(e PointerEvent) bool
	OnPointerMove(e PointerEvent)
	OnPointerUp(e PointerEvent)
}

// State is a tool's lifecycle state.
type State uint8

// Lifecycle states.
const (
	Detached State = iota
	Attached
	Active
)

func (s State) String() string {
	switch s {
	case Attached:
		return "attached"
	case Active:
		return "active"
	}
	return "detached"
}

// Option configures a Controller.
type Option func(*Controller)

// WithBus publishes tool changes on b.
func WithBus(b *event.Bus) Option {
	return func(c *Controller) { c.bus = b }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// Controller routes pointer input to the active tool. It implements
// canvas.Overlay by delegating to the active tool.
type Controller struct {
	host        Host
	tools       map[string]Tool
	order       []string
	active      string
	interacting bool
	bus         *event.Bus
	logger      *slog.Logger
}

// NewController creates a controller for host.
func NewController(host Host, opts ...Option) *Controller {
	c := &Controller{host: host, tools: map[string]Tool{}}
	for _, opt := range opts {
		opt(c)
	}
	if c.bus == nil {
		c.bus = event.NewBus()
	}
	c.logger = logx.OrNop(c.logger)
	return c
}

// Register attaches t.
func (c *Controller) Register(t Tool) error {
	name := t.Name()
	if _, dup := c.tools[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, name)
	}
	c.tools[name] = t
	c.order = append(c.order, name)
	t.OnAttach(c.host)
	return nil
}

// Unregister deactivates t if needed and detaches it.
func (c *Controller) Unregister(name string) {
	t, ok := c.tools[name]
	if !ok {
		return
	}
	if c.active == name {
		c.Deactivate()
	}
	t.OnDetach()
	delete(c.tools, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Tool returns a registered tool.
func (c *Controller) Tool(name string) (Tool, bool) {
	t, ok := c.tools[name]
	return t, ok
}

// Names returns the registered tool names in registration order.
func (c *Controller) Names() []string { return append([]string(nil), c.order...) }

// State returns the lifecycle state of the named tool.
func (c *Controller) State(name string) State {
	switch {
	case c.tools[name] == nil:
		return Detached
	case c.active == name:
		return Active
	}
	return Attached
}

// Activate makes the named tool active, deactivating the previous one.
// Activating the active tool is a no-op.
func (c *Controller) Activate(name string) error {
	t, ok := c.tools[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}
	if c.active == name {
		return nil
	}
	prev := c.active
	c.deactivate()
	c.active = name
	t.OnActivate()
	c.bus.Publish(event.ToolChanged{Tool: name, Previous: prev})
	c.host.RequestRender()
	return nil
}

// Deactivate returns to having no active tool.
func (c *Controller) Deactivate() {
	prev := c.active
	if prev == "" {
		return
	}
	c.deactivate()
	c.bus.Publish(event.ToolChanged{Tool: "", Previous: prev})
	c.host.RequestRender()
}

func (c *Controller) deactivate() {
	if c.active == "" {
		return
	}
	c.interacting = false
	c.tools[c.active].OnDeactivate()
	c.active = ""
}

// Active returns the active tool, or nil.
func (c *Controller) Active() Tool { return c.tools[c.active] }

// ActiveName returns the active tool's name, or "".
func (c *Controller) ActiveName() string { return c.active }

// Interacting reports whether a pointer interaction is in progress.
func (c *Controller) Interacting() bool { return c.interacting }

// PointerDown delivers e to the active tool.
func (c *Controller) PointerDown(e PointerEvent) {
	t := c.Active()
	if t == nil || c.interacting {
		return
	}
	c.interacting = t.OnPointerDown(e)
}

// PointerMove delivers e during an interaction.
func (c *Controller) PointerMove(e PointerEvent) {
	if !c.interacting {
		return
	}
	c.Active().OnPointerMove(e)
}

// PointerUp ends the interaction.
func (c *Controller) PointerUp(e PointerEvent) {
	if !c.interacting {
		return
	}
	c.interacting = false
	c.Active().OnPointerUp(e)
}

// DrawOverlay implements canvas.Overlay.
func (c *Controller) DrawOverlay(s surface.Surface, zoom float64) error {
	if o, ok := c.Active().(canvas.Overlay); ok {
		return o.DrawOverlay(s, zoom)
	}
	return nil
}

// Close detaches every tool.
func (c *Controller) Close() {
	for _, name := range c.Names() {
		c.Unregister(name)
	}
}

var _ canvas.Overlay = (*Controller)(nil)
