package main

import (
	"fmt"
	"runtime"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/loov/hrtime"
	log "github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/devblok/gpuctx/core"
	"github.com/devblok/gpuctx/device"
)

func init() {
	runtime.LockOSThread()
}

// configure builds the runtime configuration, letting the environment
// override the defaults.
func configure() core.Configuration {
	debug, _ := strconv.ParseBool(envy.Get("GPUCTX_DEBUG", "false"))
	width, _ := strconv.Atoi(envy.Get("GPUCTX_WIDTH", "800"))
	height, _ := strconv.Atoi(envy.Get("GPUCTX_HEIGHT", "600"))
	fps, _ := strconv.Atoi(envy.Get("GPUCTX_FPS", "60"))

	return core.Configuration{
		Instance: core.InstanceConfiguration{
			DebugMode: debug,
		},
		Window: core.WindowConfiguration{
			Title:  "gpuctx",
			Width:  uint32(width),
			Height: uint32(height),
		},
		Selector:     core.DefaultSelectorConfiguration,
		Presentation: core.DefaultPresentationConfiguration,
		Time: core.TimeConfiguration{
			FramesPerSecond: fps,
			EventPollDelay:  10,
		},
	}
}

func newWindow(cfg core.WindowConfiguration) *sdl.Window {
	window, err := sdl.CreateWindow(cfg.Title,
		sdl.WINDOWPOS_UNDEFINED,
		sdl.WINDOWPOS_UNDEFINED,
		int32(cfg.Width),
		int32(cfg.Height),
		sdl.WINDOW_VULKAN)
	if err != nil {
		log.Fatalf("window creation failed: %s", err)
	}
	return window
}

func main() {
	cfg := configure()
	start := hrtime.Now()

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		log.Fatalf("sdl.Init(): %s", err)
	}
	defer sdl.Quit()

	if err := sdl.VulkanLoadLibrary(""); err != nil {
		log.Fatalf("sdl.VulkanLoadLibrary(): %s", err)
	}
	defer sdl.VulkanUnloadLibrary()

	window := newWindow(cfg.Window)
	defer window.Destroy()

	cfg.Instance.Extensions = window.VulkanGetInstanceExtensions()

	ctx, err := device.NewVulkanContext(device.DefaultApplicationInfo, sdl.VulkanGetVkGetInstanceProcAddr(), cfg.Instance)
	if err != nil {
		log.Fatalf("instance setup failed: %s", err)
	}
	defer ctx.Destroy()

	surface, err := window.VulkanCreateSurface(ctx.Instance())
	if err != nil {
		log.Fatalf("surface creation failed: %s", err)
	}
	ctx.SetSurface(surface)

	selector := core.NewDeviceSelector(ctx, cfg.Selector)
	chosen, err := selector.Select(ctx.Surface())
	if err != nil {
		log.Fatalf("device selection failed: %s", err)
	}

	indices, err := core.ResolveQueueFamilies(ctx, chosen, ctx.Surface())
	if err != nil {
		log.Fatalf("queue family resolution failed: %s", err)
	}

	capabilities, err := ctx.SurfaceCapabilities(chosen, ctx.Surface())
	if err != nil {
		log.Fatalf("surface capability query failed: %s", err)
	}

	negotiator := core.NewNegotiator(cfg.Presentation, func() (uint32, uint32) {
		width, height := window.VulkanGetDrawableSize()
		return uint32(width), uint32(height)
	})
	presentation, err := negotiator.Negotiate(capabilities, indices)
	if err != nil {
		log.Fatalf("presentation negotiation failed: %s", err)
	}

	if err := ctx.CreateDevice(chosen, indices, cfg.Selector.RequiredExtensions); err != nil {
		log.Fatalf("logical device creation failed: %s", err)
	}
	if err := ctx.CreateSwapchain(presentation); err != nil {
		log.Fatalf("swapchain creation failed: %s", err)
	}

	log.WithFields(log.Fields{
		"format":      presentation.Format,
		"colorSpace":  presentation.ColorSpace,
		"presentMode": presentation.PresentMode,
		"extent":      fmt.Sprintf("%dx%d", presentation.Extent.Width, presentation.Extent.Height),
		"images":      presentation.ImageCount,
		"sharing":     presentation.SharingMode,
	}).Info("presentation negotiated")
	log.Infof("context ready in %s", hrtime.Since(start))

	ticker := core.NewTime(cfg.Time)
	defer ticker.Stop()
	exitC := make(chan struct{}, 2)

	var frames uint64

EventLoop:
	for {
		select {
		case <-exitC:
			log.Infof("event loop exited after %d frames", frames)
			break EventLoop
		case <-ticker.FpsTicker().C:
			// Frame slot, paced by GPUCTX_FPS. Nothing is drawn yet.
			frames++
		case <-ticker.EventTicker().C:
			for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
				switch et := event.(type) {
				case *sdl.KeyboardEvent:
					if et.Keysym.Sym == sdl.K_ESCAPE {
						exitC <- struct{}{}
						continue EventLoop
					}
				case *sdl.QuitEvent:
					exitC <- struct{}{}
					continue EventLoop
				}
			}
		}
	}
}
