package scene

import (
	"encoding/json"
	"sync"

	"github.com/pkg/errors"

	"github.com/nxengine/nx_player/engine"
)

// Component paths mirror the editor side of the live link. The engine
// viewer keeps its transforms under the stock path; project components
// live under the project's own namespace.
const TRANSFORM_COMPONENT = "bevy_transform::components::transform::Transform"

func NestIDComponent(namespace string) string {
	return namespace + "::NESTID"
}

func LightComponent(namespace string) string {
	return namespace + "::LightController"
}

type SrgbaColor struct {
	Red   float32 `json:"red"`
	Green float32 `json:"green"`
	Blue  float32 `json:"blue"`
	Alpha float32 `json:"alpha"`
}

type ColorValue struct {
	Srgba SrgbaColor `json:"Srgba"`
}

type LightController struct {
	Color     ColorValue `json:"color"`
	Intensity float32    `json:"intensity"`
}

const (
	ENTITY_CAMERA  = "camera"
	ENTITY_LIGHT   = "light"
	ENTITY_SPEAKER = "speaker"
	ENTITY_EMPTY   = "empty"
)

type Entity struct {
	ID         uint64
	Name       string
	Kind       string
	Components map[string]interface{}

	// Built is the spawned engine light behind a light entity, kept so
	// live edits can be merged without losing the kind or cone setup.
	// Nil for everything else.
	Built *engine.Light
}

// Has reports whether every listed component is present on the entity.
func (e *Entity) Has(components []string) bool {
	for _, c := range components {
		if _, ok := e.Components[c]; !ok {
			return false
		}
	}
	return true
}

// State is the entity registry behind the live link. Scene objects that
// carry a transform in the manifest get registered here during the
// build; mesh instances do not, their matrices ship inside the glb
// groups and never surface individually.
type State struct {
	lock      sync.RWMutex
	namespace string
	nextID    uint64
	order     []uint64
	entities  map[uint64]*Entity
}

func NewState(namespace string) *State {
	return &State{
		namespace: namespace,
		entities:  make(map[uint64]*Entity),
	}
}

func (s *State) Namespace() string { return s.namespace }

// Add registers a scene object and correlates it with its authoring
// name through the namespaced id component.
func (s *State) Add(name string, kind string, t engine.Transform, extra map[string]interface{}) *Entity {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.nextID++
	entity := &Entity{
		ID:   s.nextID,
		Name: name,
		Kind: kind,
		Components: map[string]interface{}{
			NestIDComponent(s.namespace): name,
			TRANSFORM_COMPONENT:          t,
		},
	}
	for component, value := range extra {
		entity.Components[component] = value
	}
	s.order = append(s.order, entity.ID)
	s.entities[entity.ID] = entity
	return entity
}

// AddLight registers a spawned light together with its editable
// controller view.
func (s *State) AddLight(built *engine.Light, controller LightController) *Entity {
	entity := s.Add(built.Name, ENTITY_LIGHT, built.Transform, map[string]interface{}{
		LightComponent(s.namespace): controller,
	})
	s.lock.Lock()
	entity.Built = built
	s.lock.Unlock()
	return entity
}

func (s *State) Get(id uint64) (*Entity, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	entity, ok := s.entities[id]
	return entity, ok
}

// Entities returns the registered entities in insertion order.
func (s *State) Entities() []*Entity {
	s.lock.RLock()
	defer s.lock.RUnlock()
	result := make([]*Entity, 0, len(s.order))
	for _, id := range s.order {
		result = append(result, s.entities[id])
	}
	return result
}

// Query returns the entities carrying every required component, in
// insertion order.
func (s *State) Query(required []string) []*Entity {
	s.lock.RLock()
	defer s.lock.RUnlock()
	result := make([]*Entity, 0, len(s.order))
	for _, id := range s.order {
		if entity := s.entities[id]; entity.Has(required) {
			result = append(result, entity)
		}
	}
	return result
}

// Pick returns the requested components of an entity, decoded copies of
// what Add and Insert stored.
func (s *State) Pick(id uint64, components []string) (map[string]interface{}, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	entity, ok := s.entities[id]
	if !ok {
		return nil, errors.Errorf("Unknown entity %d", id)
	}
	result := make(map[string]interface{}, len(components))
	for _, c := range components {
		value, ok := entity.Components[c]
		if !ok {
			return nil, errors.Errorf("Entity %d has no component %q", id, c)
		}
		result[c] = value
	}
	return result, nil
}

// Insert overwrites components on an existing entity. Unknown entities
// are an error, unknown components are accepted as-is the way the
// engine's own reflection endpoint behaves.
func (s *State) Insert(id uint64, components map[string]interface{}) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	entity, ok := s.entities[id]
	if !ok {
		return errors.Errorf("Unknown entity %d", id)
	}
	for component, value := range components {
		entity.Components[component] = value
	}
	return nil
}

// UpdateTransform stores a transform edit and carries it over to the
// spawned light, when there is one.
func (s *State) UpdateTransform(id uint64, t engine.Transform) (*Entity, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	entity, ok := s.entities[id]
	if !ok {
		return nil, errors.Errorf("Unknown entity %d", id)
	}
	entity.Components[TRANSFORM_COMPONENT] = t
	if entity.Built != nil {
		moved := *entity.Built
		moved.Transform = t
		entity.Built = &moved
	}
	return entity, nil
}

// UpdateLight merges a controller edit into the spawned light. The
// controller keeps editor units (Blender watts); the returned light is
// in viewer units, converted per kind the same way the build did it.
func (s *State) UpdateLight(id uint64, controller LightController) (*engine.Light, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	entity, ok := s.entities[id]
	if !ok {
		return nil, errors.Errorf("Unknown entity %d", id)
	}
	if entity.Built == nil {
		return nil, errors.Errorf("Entity %d is not a spawned light", id)
	}
	entity.Components[LightComponent(s.namespace)] = controller

	updated := *entity.Built
	updated.Color = [3]float32{
		controller.Color.Srgba.Red,
		controller.Color.Srgba.Green,
		controller.Color.Srgba.Blue,
	}
	switch updated.Kind {
	case engine.LIGHT_POINT, engine.LIGHT_SPOT:
		updated.Intensity = WattsToCandela(controller.Intensity)
	default:
		updated.Intensity = controller.Intensity
	}
	entity.Built = &updated
	return &updated, nil
}

// Transform decodes the stored transform component of an entity back
// into the engine shape, surviving the interface{} round-trip the rpc
// layer introduces.
func (s *State) Transform(id uint64) (engine.Transform, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	entity, ok := s.entities[id]
	if !ok {
		return engine.Transform{}, errors.Errorf("Unknown entity %d", id)
	}
	return decodeStoredTransform(entity.Components[TRANSFORM_COMPONENT])
}

// Light decodes the stored light controller of an entity.
func (s *State) Light(id uint64) (LightController, error) {
	s.lock.RLock()
	defer s.lock.RUnlock()

	entity, ok := s.entities[id]
	if !ok {
		return LightController{}, errors.Errorf("Unknown entity %d", id)
	}
	value, ok := entity.Components[LightComponent(s.namespace)]
	if !ok {
		return LightController{}, errors.Errorf("Entity %d has no light controller", id)
	}
	var controller LightController
	if err := reshape(value, &controller); err != nil {
		return LightController{}, errors.Wrapf(err, "Entity %d light controller", id)
	}
	return controller, nil
}

func decodeStoredTransform(value interface{}) (engine.Transform, error) {
	var t engine.Transform
	if value == nil {
		return t, errors.New("No transform component")
	}
	if stored, ok := value.(engine.Transform); ok {
		return stored, nil
	}
	if err := reshape(value, &t); err != nil {
		return t, errors.Wrap(err, "Transform component")
	}
	return t, nil
}

func reshape(value interface{}, target interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}
