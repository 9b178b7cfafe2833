package hotkeys

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Handler binds keyboard shortcuts on one window.
type Handler struct {
	xu     *xgbutil.XUtil
	win    xproto.Window
	grab   bool
	logger *slog.Logger
}

var ignoreModsOnce sync.Once

// NewHandler returns a handler for key presses on win. With grab set the
// keys are grabbed so they fire while another window has focus; the
// preview window only listens to its own key events.
func NewHandler(xu *xgbutil.XUtil, win xproto.Window, grab bool, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})
	return &Handler{xu: xu, win: win, grab: grab, logger: logger}
}

// RegisterFunc registers a callback for a key sequence such as "m" or
// "Mod4-q".
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	if err := keybind.KeyPressFun(func(_ *xgbutil.XUtil, _ xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.win, keySequence, h.grab); err != nil {
		return fmt.Errorf("bind %q: %w", keySequence, err)
	}
	return nil
}

// RegisterAll registers every binding in key order and returns how many
// succeeded. Failures are logged and skipped.
func (h *Handler) RegisterAll(bindings map[string]func()) int {
	keys := make([]string, 0, len(bindings))
	for k := range bindings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	n := 0
	for _, k := range keys {
		if err := h.RegisterFunc(k, bindings[k]); err != nil {
			h.logger.Warn("failed to register key", "key", k, "error", err)
			continue
		}
		n++
	}
	return n
}

// Detach drops every binding on the handler's window.
func (h *Handler) Detach() {
	keybind.Detach(h.xu, h.win)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	xevent.IgnoreMods = IgnoreMasks(
		uint16(xproto.ModMaskLock),
		modMaskForKeysym(xu, "Num_Lock"),
		modMaskForKeysym(xu, "Scroll_Lock"),
	)
}

// IgnoreMasks returns every combination of the lock modifiers, including no
// modifier at all, so bindings fire regardless of lock state. Zero or
// repeated masks are skipped. The result is sorted.
func IgnoreMasks(caps, numLock, scrollLock uint16) []uint16 {
	var base []uint16
	for _, m := range []uint16{caps, numLock, scrollLock} {
		if m == 0 {
			continue
		}
		dup := false
		for _, b := range base {
			if b == m {
				dup = true
			}
		}
		if !dup {
			base = append(base, m)
		}
	}

	unique := map[uint16]struct{}{0: {}}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		unique[mask] = struct{}{}
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}
	sort.Slice(ignore, func(i, j int) bool { return ignore[i] < ignore[j] })
	return ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
