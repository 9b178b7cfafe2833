package x11

import (
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"

	"github.com/1broseidon/fluentdeco/internal/geom"
)

// WMState is the subset of _NET_WM_STATE a decoration reacts to.
type WMState struct {
	MaximizedH bool
	MaximizedV bool
	Shaded     bool
}

// SetIdentity publishes a window's caption and class so window managers and
// exception rules see the same values as the decoration.
func (c *Connection) SetIdentity(win xproto.Window, caption, class string) error {
	if err := ewmh.WmNameSet(c.XUtil, win, caption); err != nil {
		return err
	}
	if err := icccm.WmNameSet(c.XUtil, win, caption); err != nil {
		return err
	}
	if err := icccm.WmClassSet(c.XUtil, win, &icccm.WmClass{Instance: class, Class: class}); err != nil {
		return err
	}
	return ewmh.WmWindowTypeSet(c.XUtil, win, []string{"_NET_WM_WINDOW_TYPE_NORMAL"})
}

// SetFrameExtents publishes the decoration borders as _NET_FRAME_EXTENTS.
func (c *Connection) SetFrameExtents(win xproto.Window, m geom.Margins) error {
	return ewmh.FrameExtentsSet(c.XUtil, win, &ewmh.FrameExtents{
		Left:   m.Left,
		Right:  m.Right,
		Top:    m.Top,
		Bottom: m.Bottom,
	})
}

// GetWMState reads a window's maximize and shade state.
func (c *Connection) GetWMState(win xproto.Window) (WMState, error) {
	states, err := ewmh.WmStateGet(c.XUtil, win)
	if err != nil {
		return WMState{}, err
	}
	return parseWMState(states), nil
}

func parseWMState(states []string) WMState {
	var s WMState
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ":
			s.MaximizedH = true
		case "_NET_WM_STATE_MAXIMIZED_VERT":
			s.MaximizedV = true
		case "_NET_WM_STATE_SHADED":
			s.Shaded = true
		}
	}
	return s
}
