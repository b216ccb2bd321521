package graphics

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Shader wraps an OpenGL program. Uniform locations are cached per name; a
// missing location means "feature absent for this shader variant" and every
// Set* call silently skips it, so shader variants may omit optional uniforms
// without renderer changes.
type Shader struct {
	ID uint32

	locations map[string]int32
	attribs   map[string]int32
}

// NewShader creates a shader program from vertex and fragment shader source files.
func NewShader(vertexPath, fragmentPath string) (*Shader, error) {
	vertexSource, err := os.ReadFile(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("could not read vertex shader file: %v", err)
	}

	fragmentSource, err := os.ReadFile(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("could not read fragment shader file: %v", err)
	}

	return NewShaderFromSource(string(vertexSource), string(fragmentSource))
}

// NewShaderFromSource creates a shader program from in-memory GLSL sources.
func NewShaderFromSource(vertexSrc, fragmentSrc string) (*Shader, error) {
	program, err := compileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	return &Shader{
		ID:        program,
		locations: make(map[string]int32),
		attribs:   make(map[string]int32),
	}, nil
}

// Valid reports whether the program linked and has not been deleted.
func (s *Shader) Valid() bool { return s != nil && s.ID != 0 }

// Use activates the shader program.
func (s *Shader) Use() {
	gl.UseProgram(s.ID)
}

// Location returns the cached uniform location, -1 when the variant omits it.
func (s *Shader) Location(name string) int32 {
	if loc, ok := s.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(s.ID, gl.Str(name+"\x00"))
	s.locations[name] = loc
	return loc
}

// AttribLocation returns the cached attribute location, -1 when absent.
func (s *Shader) AttribLocation(name string) int32 {
	if loc, ok := s.attribs[name]; ok {
		return loc
	}
	loc := gl.GetAttribLocation(s.ID, gl.Str(name+"\x00"))
	s.attribs[name] = loc
	return loc
}

// SetBool sets a boolean uniform.
func (s *Shader) SetBool(name string, value bool) {
	loc := s.Location(name)
	if loc < 0 {
		return
	}
	var intValue int32
	if value {
		intValue = 1
	}
	gl.Uniform1i(loc, intValue)
}

// SetInt sets an integer uniform.
func (s *Shader) SetInt(name string, value int32) {
	if loc := s.Location(name); loc >= 0 {
		gl.Uniform1i(loc, value)
	}
}

// SetFloat sets a float uniform.
func (s *Shader) SetFloat(name string, value float32) {
	if loc := s.Location(name); loc >= 0 {
		gl.Uniform1f(loc, value)
	}
}

// SetVector3 sets a vector3 uniform.
func (s *Shader) SetVector3(name string, x, y, z float32) {
	if loc := s.Location(name); loc >= 0 {
		gl.Uniform3f(loc, x, y, z)
	}
}

// SetMatrix4 sets a 4x4 matrix uniform.
func (s *Shader) SetMatrix4(name string, value *float32) {
	if loc := s.Location(name); loc >= 0 {
		gl.UniformMatrix4fv(loc, 1, false, value)
	}
}

// SetMatrix3 sets a 3x3 matrix uniform.
func (s *Shader) SetMatrix3(name string, value *float32) {
	if loc := s.Location(name); loc >= 0 {
		gl.UniformMatrix3fv(loc, 1, false, value)
	}
}

// SetVector3Array uploads count vec3s from a flat float slice. Callers must
// not pass an empty slice; zero-count light groups skip the upload entirely.
func (s *Shader) SetVector3Array(name string, count int32, values []float32) {
	if loc := s.Location(name); loc >= 0 {
		gl.Uniform3fv(loc, count, &values[0])
	}
}

// SetVector2Array uploads count vec2s from a flat float slice. Same non-empty
// contract as SetVector3Array.
func (s *Shader) SetVector2Array(name string, count int32, values []float32) {
	if loc := s.Location(name); loc >= 0 {
		gl.Uniform2fv(loc, count, &values[0])
	}
}

// SetFloatArray uploads a flat float array uniform.
func (s *Shader) SetFloatArray(name string, count int32, values []float32) {
	if loc := s.Location(name); loc >= 0 {
		gl.Uniform1fv(loc, count, &values[0])
	}
}

// Destroy deletes the program. Safe to call repeatedly.
func (s *Shader) Destroy() {
	if s == nil || s.ID == 0 {
		return
	}
	gl.DeleteProgram(s.ID)
	s.ID = 0
}

// Helper functions
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertexShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to link program: %v", log)
	}
	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)

		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))

		return 0, fmt.Errorf("failed to compile shader: %v", log)
	}
	return shader, nil
}
