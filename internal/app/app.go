// Package app owns the frame loop: event polling, scene update/draw, texture
// upload pumping and frame pacing.
package app

import (
	"log"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"forge3d/internal/config"
	"forge3d/internal/graphics"
	"forge3d/internal/input"
	"forge3d/internal/profiling"
	"forge3d/internal/scene"
)

// slowFrameThreshold triggers the profiling log line.
const slowFrameThreshold = 16 * time.Millisecond

// Viewporter is implemented by behaviours that track the window size (the
// shadow pass restore viewport, letterboxed overlays).
type Viewporter interface {
	SetViewport(w, h int32)
}

type App struct {
	window *glfw.Window
	input  *input.Manager
	scene  *scene.Scene

	fpsLimiter *FPSLimiter
	lastTime   time.Time

	wireframe     bool
	logProfiling  bool
	profilingTick time.Time
}

// New wires the loop to a window, input manager and scene. The scene must
// already be initialized.
func New(window *glfw.Window, im *input.Manager, s *scene.Scene) *App {
	return &App{
		window:     window,
		input:      im,
		scene:      s,
		fpsLimiter: NewFPSLimiter(),
		lastTime:   time.Now(),
	}
}

func (a *App) Scene() *scene.Scene { return a.scene }

// Run ticks until the window closes, then destroys the scene.
func (a *App) Run() {
	for !a.window.ShouldClose() {
		a.tick()
	}
	a.scene.Destroy()
}

func (a *App) tick() {
	profiling.ResetFrame()
	startTick := time.Now()
	now := time.Now()
	dt := float32(now.Sub(a.lastTime).Seconds())
	a.lastTime = now

	glfw.PollEvents()
	a.handleToggles()

	func() {
		defer profiling.Track("scene.Update")()
		a.scene.Update(dt)
	}()

	bg := a.scene.Background
	gl.ClearColor(bg.X(), bg.Y(), bg.Z(), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Enable(gl.DEPTH_TEST)

	func() {
		defer profiling.Track("scene.Draw")()
		a.scene.Draw()
	}()

	func() {
		defer profiling.Track("graphics.AdvanceTextures")()
		graphics.AdvanceTextures()
	}()

	a.window.SwapBuffers()

	// Check if frame took too long
	processingDuration := time.Since(startTick)
	if processingDuration > slowFrameThreshold {
		log.Printf("Slow frame: %v. Top tasks: %s", processingDuration, profiling.TopN(5))
	}
	if a.logProfiling && time.Since(a.profilingTick) >= time.Second {
		a.profilingTick = time.Now()
		log.Printf("Frame profile: %s", profiling.TopN(8))
	}

	a.input.PostUpdate() // Clear "JustPressed" flags

	a.fpsLimiter.Wait(!a.scene.IsRunning())
}

// handleToggles services the global debug keys: pause, wireframe fill mode
// and the periodic profiling log.
func (a *App) handleToggles() {
	if a.input.JustPressed(input.ActionPause) {
		a.scene.SetRunning(!a.scene.IsRunning())
	}
	if a.input.JustPressed(input.ActionToggleWireframe) {
		a.wireframe = !a.wireframe
		if a.wireframe {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		} else {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
		}
	}
	if a.input.JustPressed(input.ActionToggleProfiling) {
		a.logProfiling = !a.logProfiling
		a.profilingTick = time.Time{}
	}
}

// OnResize propagates the new framebuffer size to the GL viewport, the main
// camera and every viewport-tracking behaviour in the scene.
func (a *App) OnResize(width, height int) {
	if height <= 0 {
		return
	}
	gl.Viewport(0, 0, int32(width), int32(height))
	if cam := scene.MainCamera(); cam != nil {
		cam.SetViewport(width, height)
	}
	for _, e := range a.scene.Entities() {
		for _, b := range e.Behaviours() {
			if v, ok := b.(Viewporter); ok {
				v.SetViewport(int32(width), int32(height))
			}
		}
	}
}

// FrameCap reads the configured limit; kept as a method seam for tests.
func FrameCap() int { return config.Global().FrameCap() }
