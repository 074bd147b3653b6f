package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/viant/sourcepick/bridge"
	"github.com/viant/sourcepick/dom"
	"github.com/viant/sourcepick/page"
	"github.com/viant/sourcepick/picker"
	"github.com/viant/sourcepick/protocol"
)

var simulateClickFlag string
var simulateMoveFlag bool
var simulateScreenshotFlag bool
var simulateBridgeFlag string
var simulateViewportFlag string

var simulateCmd = newSimulateCmd()

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <page.html>",
		Short: "Enable the picker on a rendered page, click a point and print the selection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			x, y, err := parsePoint(simulateClickFlag)
			if err != nil {
				return err
			}
			var opts []page.Option
			if simulateViewportFlag != "" {
				width, height, err := parsePoint(simulateViewportFlag)
				if err != nil {
					return err
				}
				opts = append(opts, page.WithViewport(width, height))
			}
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()
			doc, err := page.Parse(file, opts...)
			if err != nil {
				return err
			}
			return simulate(cmd.Context(), cmd.OutOrStdout(), doc, x, y)
		},
	}
	cmd.Flags().StringVar(&simulateClickFlag, "click", "", "click point as x,y")
	cmd.Flags().BoolVar(&simulateMoveFlag, "move", true, "move the pointer to the point before clicking")
	cmd.Flags().BoolVar(&simulateScreenshotFlag, "screenshot", false, "attach a screenshot of the selected element")
	cmd.Flags().StringVar(&simulateBridgeFlag, "bridge", "", "post selection to a bridge endpoint, e.g. ws://localhost:8787/ws")
	cmd.Flags().StringVar(&simulateViewportFlag, "viewport", "", "viewport size as width,height")
	_ = cmd.MarkFlagRequired("click")
	return cmd
}

func simulate(ctx context.Context, w io.Writer, doc *page.Page, x, y float64) error {
	var parent dom.Frame
	sink := &recorder{w: w}
	parent = sink
	if simulateBridgeFlag != "" {
		listenCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		frame, err := attach(listenCtx, doc, simulateBridgeFlag)
		if err != nil {
			return err
		}
		defer frame.Close()
		parent = teeFrame{frame, sink}
	}
	doc.SetParent(parent)
	opts := []picker.Option{picker.WithContext(ctx)}
	if simulateScreenshotFlag {
		opts = append(opts, picker.WithRasterizer(picker.NewLazy(func(ctx context.Context) (picker.Rasterizer, error) {
			return page.NewBoxRasterizer(), nil
		})))
	}
	installed, ok := picker.Install(doc, opts...)
	if !ok {
		return fmt.Errorf("picker already installed")
	}
	enable, err := protocol.Encode(protocol.Enable())
	if err != nil {
		return err
	}
	doc.Deliver(enable)
	if simulateMoveFlag {
		doc.Move(x, y)
	}
	doc.Click(x, y)
	installed.Wait()
	if sink.count() == 0 {
		_, err = fmt.Fprintln(w, "no tagged element at point")
	}
	return err
}

// attach connects the page to a bridge; host activation messages are delivered to the page until ctx ends
func attach(ctx context.Context, doc *page.Page, endpoint string) (*bridge.Frame, error) {
	frame, err := bridge.Dial(ctx, endpoint, bridge.RolePage)
	if err != nil {
		return nil, err
	}
	go func() {
		_ = frame.Listen(ctx, doc.Deliver)
	}()
	return frame, nil
}

// recorder prints messages posted to the parent frame
type recorder struct {
	w     io.Writer
	mu    sync.Mutex
	posts int
}

func (r *recorder) PostMessage(data []byte, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts++
	_, err := fmt.Fprintln(r.w, string(data))
	return err
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.posts
}

type teeFrame []dom.Frame

func (t teeFrame) PostMessage(data []byte, targetOrigin string) error {
	for _, frame := range t {
		if err := frame.PostMessage(data, targetOrigin); err != nil {
			return err
		}
	}
	return nil
}

func parsePoint(text string) (float64, float64, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid point %q, expected x,y", text)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid point %q: %w", text, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid point %q: %w", text, err)
	}
	return x, y, nil
}

func init() {
	rootCmd.AddCommand(simulateCmd)
}
