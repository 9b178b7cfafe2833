package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/1broseidon/fluentdeco/internal/config"
	"github.com/1broseidon/fluentdeco/internal/render"
	"github.com/1broseidon/fluentdeco/internal/shadow"
)

func runRenderShadow(args []string) int {
	fs := flag.NewFlagSet("render-shadow", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/fluentdeco/config.yaml)")
	size := fs.String("size", "", "Shadow size: "+strings.Join(shadow.SizeNames(), ", ")+" (default: configured)")
	strength := fs.Int("strength", -1, "Shadow strength 0-255 (default: configured)")
	colorFlag := fs.String("color", "", "Shadow color #rrggbb (default: configured)")
	out := fs.String("o", "shadow.png", "Output PNG path")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: fluentdeco render-shadow [options]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Render the shadow texture and print its padding around the frame.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "render-shadow takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	key := res.Config.ShadowKey()
	if *size != "" {
		s, ok := shadow.ParseSize(*size)
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown shadow size %q; available: %s\n", *size, strings.Join(shadow.SizeNames(), ", "))
			return 2
		}
		key.Size = s
	}
	if *strength >= 0 {
		if *strength > 255 {
			fmt.Fprintln(os.Stderr, "strength must be between 0 and 255")
			return 2
		}
		key.Strength = *strength
	}
	if *colorFlag != "" {
		c, err := config.ParseColor(*colorFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		key.Color = c.NRGBA()
	}

	tex, err := shadow.Build(key.Normalized())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if tex == nil {
		fmt.Println("shadow size none: nothing to render")
		return 0
	}
	if err := render.SavePNG(*out, tex.Image); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	b := tex.Bounds()
	fmt.Printf("wrote %s (%dx%d)\n", *out, b.Width, b.Height)
	fmt.Printf("padding: left=%d top=%d right=%d bottom=%d\n",
		tex.Padding.Left, tex.Padding.Top, tex.Padding.Right, tex.Padding.Bottom)
	return 0
}
