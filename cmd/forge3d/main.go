package main

import (
	"log"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/xlab/closer"

	"forge3d/internal/app"
	"forge3d/internal/behaviours"
	"forge3d/internal/config"
	"forge3d/internal/input"
	"forge3d/internal/render"
	"forge3d/internal/scene"
	"forge3d/pkg/meshdata"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	cfg, err := config.Load("engine.yaml")
	if err != nil {
		log.Fatalf("forge3d: %v", err)
	}
	config.SetGlobal(cfg)

	if err := glfw.Init(); err != nil {
		log.Fatalf("forge3d: glfw init: %v", err)
	}
	closer.Bind(glfw.Terminate)

	window, err := setupWindow(cfg)
	if err != nil {
		log.Fatalf("forge3d: window setup: %v", err)
	}

	im := input.NewManager()
	im.InstallCallbacks(window)

	s, err := buildScene(cfg, im)
	if err != nil {
		log.Fatalf("forge3d: scene setup: %v", err)
	}
	scene.SetCurrentScene(s)
	closer.Bind(s.Destroy)

	s.Initialize()
	s.SetRunning(true)

	a := app.New(window, im, s)
	window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		a.OnResize(width, height)
	})
	w, h := window.GetFramebufferSize()
	a.OnResize(w, h)

	a.Run()
	closer.Close()
}

// buildScene loads the configured scene file, or assembles the built-in demo
// scene when none is configured. Either way the camera gets a fly controller
// and the scene gets a shadow pass.
func buildScene(cfg *config.Config, im *input.Manager) (*scene.Scene, error) {
	var s *scene.Scene
	if cfg.ScenePath != "" {
		loaded, err := scene.LoadScene(cfg.ScenePath)
		if err != nil {
			return nil, err
		}
		s = loaded
	} else {
		s = demoScene()
	}

	s.Shadow = cfg.ShadowSettings()
	bg := cfg.BackgroundColor()
	s.Background = mgl32.Vec3{bg[0], bg[1], bg[2]}

	// A loaded scene may already carry a camera; otherwise add one.
	var cam *scene.Camera
	for _, e := range s.Entities() {
		if c, ok := scene.BehaviourOf[*scene.Camera](e); ok {
			cam = c
			break
		}
	}
	if cam == nil {
		camEntity := scene.NewEntity("camera", scene.EntityCamera)
		camEntity.Transform().SetPosition(mgl32.Vec3{0, 6, -14})
		camEntity.Transform().LookAt(mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 1, 0})

		w, h := cfg.WindowSize()
		near, far := cfg.ClipPlanes()
		cam = scene.NewCamera(cfg.FOV(), float32(w)/float32(h), near, far)
		camEntity.AddBehaviour(cam)
		if err := s.AddEntity(camEntity); err != nil {
			return nil, err
		}
	}
	scene.SetMainCamera(cam)
	cam.Owner().AddBehaviour(behaviours.NewFlyCamera(im))

	w, h := cfg.WindowSize()
	shadowEntity := scene.NewEntity("shadowPass", scene.EntityStatic)
	shadowEntity.AddBehaviour(render.NewShadowMapRenderer(int32(w), int32(h)))
	if err := s.AddEntity(shadowEntity); err != nil {
		return nil, err
	}
	return s, nil
}

// demoScene is a small showcase: a ground plane, a spinning cube, an easing
// sphere, a normal-mapped cube and one of each light type.
func demoScene() *scene.Scene {
	s := scene.NewScene("demo")

	ground := scene.NewEntity("ground", scene.EntityStatic)
	groundMat := meshdata.DefaultMaterial()
	groundMat.Diffuse = [3]float32{0.45, 0.5, 0.45}
	groundRenderer := render.NewMeshRenderer(render.PlanePrimitive(60, 60, 20), groundMat)
	groundRenderer.CastShadows = false
	ground.AddBehaviour(groundRenderer)
	mustAdd(s, ground)

	cube := scene.NewEntity("spinningCube", scene.EntityStatic)
	cube.Transform().SetPosition(mgl32.Vec3{-3, 1.5, 0})
	cubeMat := meshdata.DefaultMaterial()
	cubeMat.Diffuse = [3]float32{0.85, 0.35, 0.3}
	cube.AddBehaviour(render.NewMeshRenderer(render.CubePrimitive(2), cubeMat))
	cube.AddBehaviour(behaviours.NewSpinner(45))
	mustAdd(s, cube)

	sphere := scene.NewEntity("glidingSphere", scene.EntityStatic)
	sphere.Transform().SetPosition(mgl32.Vec3{3, 1, -4})
	sphereMat := meshdata.DefaultMaterial()
	sphereMat.Diffuse = [3]float32{0.3, 0.45, 0.85}
	sphereMat.Shininess = 96
	sphere.AddBehaviour(render.NewMeshRenderer(render.SpherePrimitive(1, 24, 48), sphereMat))
	glide := behaviours.NewTweenMove(mgl32.Vec3{3, 1, 4}, 3)
	glide.PingPong = true
	sphere.AddBehaviour(glide)
	mustAdd(s, sphere)

	brick := scene.NewEntity("brickCube", scene.EntityStatic)
	brick.Transform().SetPosition(mgl32.Vec3{0, 1, 3})
	brickMat := meshdata.Material{
		Name:       "brick",
		Diffuse:    [3]float32{1, 1, 1},
		Specular:   [3]float32{0.2, 0.2, 0.2},
		Shininess:  16,
		DiffuseMap: "assets/textures/brick.png",
		NormalMap:  "assets/textures/brick_normal.png",
	}
	brick.AddBehaviour(render.NewNormalMapRenderer(render.CubePrimitive(2), brickMat))
	mustAdd(s, brick)

	mustAdd(s, scene.NewAmbientLightEntity("ambient", mgl32.Vec3{0.25, 0.25, 0.28}))

	sun := scene.NewDirectionalLightEntity("sun", mgl32.Vec3{0.9, 0.85, 0.7})
	sun.Transform().SetEuler(mgl32.Vec3{50, -30, 0})
	mustAdd(s, sun)

	lamp := scene.NewPointLightEntity("lamp", mgl32.Vec3{0.9, 0.6, 0.2}, 1, 0.09, 0.032)
	lamp.Transform().SetPosition(mgl32.Vec3{4, 3, 0})
	mustAdd(s, lamp)

	spot := scene.NewSpotLightEntity("spot", mgl32.Vec3{0.4, 0.8, 1}, 1, 0.05, 0.01, 20, 30)
	spot.Transform().SetPosition(mgl32.Vec3{-4, 6, -4})
	spot.Transform().LookAt(mgl32.Vec3{-3, 0, 0}, mgl32.Vec3{0, 1, 0})
	mustAdd(s, spot)

	return s
}

func mustAdd(s *scene.Scene, e *scene.Entity) {
	if err := s.AddEntity(e); err != nil {
		log.Fatalf("forge3d: %v", err)
	}
}
