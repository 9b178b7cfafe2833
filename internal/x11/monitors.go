package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"

	"github.com/1broseidon/fluentdeco/internal/deco"
	"github.com/1broseidon/fluentdeco/internal/geom"
)

// Monitor is one active RandR output.
type Monitor struct {
	ID     int
	Name   string
	Bounds geom.Rect
}

// GetMonitors lists the active monitors.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		info, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		if info.Width == 0 || info.Height == 0 || len(info.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if out, err := randr.GetOutputInfo(c.XUtil.Conn(), info.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(out.Name)
		}

		monitors = append(monitors, Monitor{
			ID:   i,
			Name: name,
			Bounds: geom.Rect{
				X:      int(info.X),
				Y:      int(info.Y),
				Width:  int(info.Width),
				Height: int(info.Height),
			},
		})
	}
	return monitors, nil
}

// WorkArea returns the usable area of the monitor holding r: the monitor
// bounds minus panels, as published in _NET_WORKAREA.
func (c *Connection) WorkArea(r geom.Rect) (geom.Rect, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return geom.Rect{}, err
	}
	mon, ok := MonitorFor(monitors, r)
	if !ok {
		return geom.Rect{}, fmt.Errorf("no monitors found")
	}
	area := mon.Bounds

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return area, nil
	}
	desktop := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(workArea) {
		desktop = int(current)
	}
	wa := workArea[desktop]
	return intersect(area, geom.Rect{
		X:      wa.X,
		Y:      wa.Y,
		Width:  int(wa.Width),
		Height: int(wa.Height),
	}), nil
}

// RootPosition returns the root coordinates of a window's origin.
func (c *Connection) RootPosition(win xproto.Window) (geom.Point, error) {
	t, err := xproto.TranslateCoordinates(c.XUtil.Conn(), win, c.Root, 0, 0).Reply()
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{X: int(t.DstX), Y: int(t.DstY)}, nil
}

// MonitorFor returns the monitor sharing the largest area with r. When r is
// off every monitor the first one is returned.
func MonitorFor(monitors []Monitor, r geom.Rect) (Monitor, bool) {
	if len(monitors) == 0 {
		return Monitor{}, false
	}
	best, bestArea := 0, -1
	for i, mon := range monitors {
		isect := intersect(mon.Bounds, r)
		if a := isect.Width * isect.Height; a > bestArea {
			best, bestArea = i, a
		}
	}
	return monitors[best], true
}

// AdjacentEdges returns the edges of area that the window r touches or
// crosses.
func AdjacentEdges(r, area geom.Rect) deco.Edges {
	if r.Empty() || area.Empty() {
		return 0
	}
	var e deco.Edges
	if r.Left() <= area.Left() {
		e |= deco.EdgeLeft
	}
	if r.Top() <= area.Top() {
		e |= deco.EdgeTop
	}
	if r.Right() >= area.Right() {
		e |= deco.EdgeRight
	}
	if r.Bottom() >= area.Bottom() {
		e |= deco.EdgeBottom
	}
	return e
}

func intersect(a, b geom.Rect) geom.Rect {
	x1 := max(a.X, b.X)
	y1 := max(a.Y, b.Y)
	x2 := min(a.X+a.Width, b.X+b.Width)
	y2 := min(a.Y+a.Height, b.Y+b.Height)
	if x2 <= x1 || y2 <= y1 {
		return geom.Rect{}
	}
	return geom.Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
