package painting

// Shader names of the installed set.
const (
	ShaderBrush                  = "brush"
	ShaderBrushLight             = "brushLight"
	ShaderMosaicBrush            = "mosaicBrush"
	ShaderCompositeWithMask      = "compositeWithMask"
	ShaderCompositeWithMaskLight = "compositeWithMaskLight"
	ShaderCompositeWithMosaic    = "compositeWithMosaic"
	ShaderBlitWithMask           = "blitWithMask"
	ShaderBlitWithMaskLight      = "blitWithMaskLight"
	ShaderBlitWithMosaic         = "blitWithMosaic"
	ShaderBlit                   = "blit"
	ShaderNonPremultipliedBlit   = "nonPremultipliedBlit"
)

// ShaderNames lists every program SetupShaders tries to create
var ShaderNames = []string{
	ShaderBrush,
	ShaderBrushLight,
	ShaderMosaicBrush,
	ShaderCompositeWithMask,
	ShaderCompositeWithMaskLight,
	ShaderCompositeWithMosaic,
	ShaderBlitWithMask,
	ShaderBlitWithMaskLight,
	ShaderBlitWithMosaic,
	ShaderBlit,
	ShaderNonPremultipliedBlit,
}

// Shaders is an installed set of programs keyed by name
type Shaders map[string]Program

// Get returns the program or false when it is absent
func (shaders Shaders) Get(name string) (Program, bool) {
	program, ok := shaders[name]
	return program, ok
}

// SetupShaders compiles the named set on device. Programs that fail are
// logged and left out; callers treat a missing program as a no-op.
func SetupShaders(device Device) Shaders {
	shaders := make(Shaders, len(ShaderNames))
	for _, name := range ShaderNames {
		program, err := device.CreateProgram(name)
		if err != nil {
			componentLogger("shaders").WithError(err).WithField("shader", name).Warn("shader unavailable")
			continue
		}
		shaders[name] = program
	}
	return shaders
}

// release deletes every program exactly once
func (shaders Shaders) release(device Device) {
	for name, program := range shaders {
		device.DeleteProgram(program)
		delete(shaders, name)
	}
}
