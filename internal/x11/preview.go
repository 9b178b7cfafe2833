package x11

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xprop"
	"github.com/BurntSushi/xgbutil/xwindow"
	"golang.org/x/image/draw"

	"github.com/1broseidon/fluentdeco/internal/config"
	"github.com/1broseidon/fluentdeco/internal/geom"
	"github.com/1broseidon/fluentdeco/internal/hotkeys"
	"github.com/1broseidon/fluentdeco/internal/ipc"
	"github.com/1broseidon/fluentdeco/internal/metrics"
	"github.com/1broseidon/fluentdeco/internal/render"
	"github.com/1broseidon/fluentdeco/internal/shadow"
)

// FrameInterval is the animation tick of the preview loop.
const FrameInterval = 16 * time.Millisecond

var errStopped = errors.New("preview is not running")

// PreviewOptions configures a preview window.
type PreviewOptions struct {
	Caption      string
	Class        string
	Width        int
	ClientHeight int
	// Desktop is painted behind the shadow.
	Desktop     color.NRGBA
	ClientColor color.NRGBA
	ConfigPath  string
	Metrics     *metrics.Registry
	Logger      *slog.Logger
}

// Preview shows one decorated window on an X server. The decoration is
// drawn client side into the window's background pixmap.
//
// Focus, resize and _NET_WM_STATE changes from the window manager drive the
// decoration. Keys: a toggles focus, m maximize, s shade, q quits.
type Preview struct {
	conn    *Connection
	win     *xwindow.Window
	scene   *scene
	font    *render.Font
	desktop color.NRGBA
	logger  *slog.Logger
	metrics *metrics.Registry

	reloadCh chan reloadRequest
	done     chan struct{}

	mu         sync.Mutex
	cfg        *config.Config
	configPath string
	reloads    int
	cache      *shadow.Cache
	live       int
	canvas     geom.Size
}

type reloadRequest struct {
	cfg   *config.Config
	reply chan error
}

var _ ipc.Host = (*Preview)(nil)

// NewPreview creates and maps the preview window.
func NewPreview(conn *Connection, cfg *config.Config, opts PreviewOptions) (*Preview, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	var cacheMetrics *shadow.CacheMetrics
	if opts.Metrics != nil {
		cacheMetrics = shadow.NewCacheMetrics(opts.Metrics.Registerer())
	}
	cache := shadow.NewCache(logger, cacheMetrics)

	font, err := render.NewFont(render.DefaultFontSize)
	if err != nil {
		return nil, err
	}
	sc, err := newScene(cfg, cache, font, sceneOptions{
		Caption:      opts.Caption,
		Class:        opts.Class,
		Width:        opts.Width,
		ClientHeight: opts.ClientHeight,
		ClientColor:  opts.ClientColor,
	}, logger)
	if err != nil {
		font.Close()
		return nil, err
	}

	p := &Preview{
		conn:       conn,
		scene:      sc,
		font:       font,
		desktop:    opts.Desktop,
		logger:     logger,
		metrics:    opts.Metrics,
		reloadCh:   make(chan reloadRequest),
		done:       make(chan struct{}),
		cfg:        cfg,
		configPath: opts.ConfigPath,
		cache:      cache,
		live:       1,
	}
	if err := p.createWindow(opts); err != nil {
		sc.close()
		font.Close()
		return nil, err
	}
	if p.metrics != nil {
		p.metrics.Decorations.Set(1)
	}
	return p, nil
}

func (p *Preview) createWindow(opts PreviewOptions) error {
	xu := p.conn.XUtil
	win, err := xwindow.Generate(xu)
	if err != nil {
		return fmt.Errorf("generate window id: %w", err)
	}
	size, _ := p.scene.layout()
	if err := win.CreateChecked(p.conn.Root, 0, 0, size.Width, size.Height,
		xproto.CwEventMask,
		xproto.EventMaskStructureNotify|xproto.EventMaskExposure|
			xproto.EventMaskFocusChange|xproto.EventMaskPropertyChange|
			xproto.EventMaskKeyPress); err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	p.win = win
	p.canvas = size

	if err := p.conn.SetIdentity(win.Id, opts.Caption, opts.Class); err != nil {
		p.logger.Warn("failed to set window identity", "error", err)
	}
	p.publishExtents()

	xevent.FocusInFun(func(_ *xgbutil.XUtil, _ xevent.FocusInEvent) {
		p.scene.setActive(true)
	}).Connect(xu, win.Id)
	xevent.FocusOutFun(func(_ *xgbutil.XUtil, _ xevent.FocusOutEvent) {
		p.scene.setActive(false)
	}).Connect(xu, win.Id)
	xevent.ConfigureNotifyFun(func(_ *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		p.configured(geom.Size{Width: int(ev.Width), Height: int(ev.Height)})
	}).Connect(xu, win.Id)
	xevent.ExposeFun(func(_ *xgbutil.XUtil, ev xevent.ExposeEvent) {
		if ev.Count == 0 {
			p.scene.dirty = true
		}
	}).Connect(xu, win.Id)
	xevent.PropertyNotifyFun(func(xu *xgbutil.XUtil, ev xevent.PropertyNotifyEvent) {
		name, err := xprop.AtomName(xu, ev.Atom)
		if err != nil || name != "_NET_WM_STATE" {
			return
		}
		if st, err := p.conn.GetWMState(win.Id); err == nil {
			p.scene.setWMState(st)
		}
	}).Connect(xu, win.Id)

	keys := hotkeys.NewHandler(xu, win.Id, false, p.logger)
	keys.RegisterAll(map[string]func(){
		"a": func() { p.scene.setActive(!p.scene.window.Active) },
		"m": p.scene.toggleMaximized,
		"s": p.scene.toggleShaded,
		"q": func() { xevent.Quit(xu) },
	})

	win.WMGracefulClose(func(w *xwindow.Window) {
		xevent.Detach(w.X, w.Id)
		keys.Detach()
		xevent.Quit(w.X)
	})

	win.Map()
	return nil
}

// configured handles a size change from the window manager.
func (p *Preview) configured(size geom.Size) {
	p.mu.Lock()
	p.canvas = size
	p.mu.Unlock()

	p.scene.resize(size)
	origin, err := p.conn.RootPosition(p.win.Id)
	if err != nil {
		return
	}
	_, window := p.scene.layout()
	area, err := p.conn.WorkArea(window.Translate(origin))
	if err != nil {
		p.logger.Debug("work area unavailable", "error", err)
		return
	}
	p.scene.place(origin, area)
	p.publishExtents()
}

func (p *Preview) publishExtents() {
	if err := p.conn.SetFrameExtents(p.win.Id, p.scene.decoration.Borders()); err != nil {
		p.logger.Debug("failed to set frame extents", "error", err)
	}
}

// Run processes X events, animation ticks and reloads until ctx is done or
// the window is closed.
func (p *Preview) Run(ctx context.Context) error {
	defer close(p.done)

	pingBefore, pingAfter, pingQuit := xevent.MainPing(p.conn.XUtil)
	ticker := time.NewTicker(FrameInterval)
	defer ticker.Stop()

	last := time.Now()
	p.flush()
	for {
		select {
		case <-pingBefore:
			<-pingAfter
			p.flush()
		case now := <-ticker.C:
			p.scene.tick(now.Sub(last))
			last = now
			p.flush()
		case req := <-p.reloadCh:
			req.reply <- p.apply(req.cfg)
			p.flush()
		case <-pingQuit:
			p.logger.Info("preview window closed")
			return nil
		case <-ctx.Done():
			xevent.Quit(p.conn.XUtil)
			return nil
		}
	}
}

// flush resizes and repaints the window when the scene changed.
func (p *Preview) flush() {
	if !p.scene.idle() {
		return
	}
	size, _ := p.scene.layout()
	p.mu.Lock()
	resize := size != p.canvas
	p.mu.Unlock()
	if resize {
		p.win.Resize(size.Width, size.Height)
		p.publishExtents()
	}
	if err := p.paint(); err != nil {
		p.logger.Warn("failed to paint preview", "error", err)
	}
}

func (p *Preview) paint() error {
	start := time.Now()
	img, err := p.scene.frame().Render()
	if err != nil {
		return err
	}
	bg := image.NewRGBA(img.Bounds())
	draw.Draw(bg, bg.Bounds(), image.NewUniform(p.desktop), image.Point{}, draw.Src)
	draw.Draw(bg, bg.Bounds(), img, image.Point{}, draw.Over)
	ximg := xgraphics.NewConvert(p.conn.XUtil, bg)
	defer ximg.Destroy()
	if err := ximg.XSurfaceSet(p.win.Id); err != nil {
		return fmt.Errorf("set window surface: %w", err)
	}
	ximg.XDraw()
	ximg.XPaint(p.win.Id)

	if p.metrics != nil {
		p.metrics.Frames.Inc()
		p.metrics.FrameSeconds.Observe(time.Since(start).Seconds())
	}
	return nil
}

func (p *Preview) apply(cfg *config.Config) error {
	if err := p.scene.reconfigure(cfg); err != nil {
		return err
	}
	p.mu.Lock()
	p.cfg = cfg
	p.reloads++
	p.live = p.scene.factory.Len()
	p.mu.Unlock()
	if p.metrics != nil {
		p.metrics.Decorations.Set(float64(p.scene.factory.Len()))
	}
	return nil
}

// Reload reads the configuration file again and applies it on the event
// loop.
func (p *Preview) Reload() error {
	res, err := config.LoadFromPath(p.configPath)
	if err == nil {
		res.LogWarnings(p.logger)
		err = p.Apply(res.Config)
	}
	if p.metrics != nil {
		p.metrics.ObserveReload(err)
	}
	if err != nil {
		p.logger.Warn("reload failed", "error", err)
		return err
	}
	p.logger.Info("configuration reloaded", "path", p.configPath)
	return nil
}

// Apply hands cfg to the event loop and waits until every decoration uses it.
func (p *Preview) Apply(cfg *config.Config) error {
	req := reloadRequest{cfg: cfg, reply: make(chan error, 1)}
	select {
	case p.reloadCh <- req:
	case <-p.done:
		return errStopped
	}
	select {
	case err := <-req.reply:
		return err
	case <-p.done:
		return errStopped
	}
}

// Status reports the preview's state to ipc clients.
func (p *Preview) Status() ipc.StatusData {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ipc.StatusData{
		Decorations:      p.live,
		ShadowSize:       p.cfg.ShadowKey().Size.String(),
		ShadowReferences: p.cache.References(),
		ConfigPath:       p.configPath,
		Reloads:          p.reloads,
	}
}

// Close releases the decoration, window and font.
func (p *Preview) Close() {
	p.scene.close()
	if p.metrics != nil {
		p.metrics.Decorations.Set(0)
	}
	if p.win != nil {
		p.win.Destroy()
	}
	p.font.Close()
}
