package engine

// Typed wrappers over the command channel. All of them block until the
// viewer acknowledges, so the orchestrator's phase ordering holds on the
// far side too.

func (s *Session) ClearScene() error {
	_, err := s.Call(METHOD_CLEAR, nil)
	return err
}

func (s *Session) SetEnvironment(env *Environment) error {
	_, err := s.Call(METHOD_ENVIRONMENT, env)
	return err
}

func (s *Session) SpawnCamera(c *Camera) error {
	_, err := s.Call(METHOD_CAMERA, c)
	return err
}

// UpdateCamera retargets an existing camera, keyed by name. Used on
// viewport resize and over live link.
func (s *Session) UpdateCamera(c *Camera) error {
	_, err := s.Call(METHOD_UPDATE_CAMERA, c)
	return err
}

func (s *Session) SpawnLight(l *Light) error {
	_, err := s.Call(METHOD_LIGHT, l)
	return err
}

// ConfigureMaterial targets a material by the name the asset pipeline
// gave it. Issued after the asset phase so the target exists.
func (s *Session) ConfigureMaterial(m *Material) error {
	_, err := s.Call(METHOD_MATERIAL, m)
	return err
}

// UpdateTransform moves a named scene object. Fire and forget: the
// editor streams these while dragging, a round trip per step would
// stutter.
func (s *Session) UpdateTransform(name string, t *Transform) error {
	return s.Notify(METHOD_TRANSFORM, &TransformUpdate{Name: name, Transform: t})
}

func (s *Session) SpawnSpeaker(sp *Speaker) error {
	_, err := s.Call(METHOD_SPEAKER, sp)
	return err
}

func (s *Session) SpawnEmpty(e *Empty) error {
	_, err := s.Call(METHOD_EMPTY, e)
	return err
}

// EnqueueAsset hands one staged asset to the viewer's task manager. The
// viewer reports back with nx/progress, nx/done or nx/failed carrying
// the task id.
func (s *Session) EnqueueAsset(t *AssetTask) error {
	_, err := s.Call(METHOD_ENQUEUE, t)
	return err
}

func (s *Session) ConfigureGraphics(g *Graphics) error {
	_, err := s.Call(METHOD_GRAPHICS, g)
	return err
}

func (s *Session) SetPostprocess(stack []*Effect) error {
	_, err := s.Call(METHOD_POSTPROCESS, stack)
	return err
}

func (s *Session) StartRenderLoop() error {
	_, err := s.Call(METHOD_RUN, nil)
	return err
}

// FadeLoadingScreen is fire and forget; nothing waits on the fade.
func (s *Session) FadeLoadingScreen(seconds float32) error {
	return s.Notify(METHOD_FADE, &Fade{Seconds: seconds})
}
