package scene

import (
	"encoding/json"
	"testing"

	"github.com/nxengine/nx_player/engine"
)

func TestStateRegistry(t *testing.T) {
	state := NewState("demo")

	camera := state.Add("Camera", ENTITY_CAMERA, identityTransform(), nil)
	light := state.Add("Sun", ENTITY_LIGHT, identityTransform(), map[string]interface{}{
		LightComponent("demo"): lightControllerOf([3]float32{1, 1, 1}, 3.5),
	})

	if camera.ID == light.ID {
		t.Fatalf("Entity ids collide")
	}
	if got, ok := state.Get(light.ID); !ok || got.Name != "Sun" {
		t.Errorf("Get(%d) = %+v, %v", light.ID, got, ok)
	}
	if _, ok := state.Get(9000); ok {
		t.Errorf("Get invented an entity")
	}

	all := state.Query([]string{NestIDComponent("demo"), TRANSFORM_COMPONENT})
	if len(all) != 2 || all[0].Name != "Camera" {
		t.Errorf("Query everything = %+v", all)
	}
	lit := state.Query([]string{LightComponent("demo")})
	if len(lit) != 1 || lit[0].Name != "Sun" {
		t.Errorf("Query lights = %+v", lit)
	}

	picked, err := state.Pick(camera.ID, []string{NestIDComponent("demo")})
	if err != nil {
		t.Fatalf("Pick: %v", err)
	}
	if picked[NestIDComponent("demo")] != "Camera" {
		t.Errorf("Picked = %+v", picked)
	}
	if _, err := state.Pick(camera.ID, []string{"no::Such"}); err == nil {
		t.Errorf("Pick of a missing component should fail")
	}
}

func TestStateInsertDecodesJSONShapes(t *testing.T) {
	state := NewState("demo")
	entity := state.Add("Lamp", ENTITY_LIGHT, identityTransform(), nil)

	// the rpc layer hands over generic json values, not typed structs
	payload := []byte(`{
		"translation": [5, 2, -1],
		"rotation": [0, 0.7071, 0, 0.7071],
		"scale": [1, 1, 1]
	}`)
	var generic interface{}
	if err := json.Unmarshal(payload, &generic); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := state.Insert(entity.ID, map[string]interface{}{
		TRANSFORM_COMPONENT: generic,
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	decoded, err := state.Transform(entity.ID)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if decoded.Translation != [3]float32{5, 2, -1} {
		t.Errorf("Translation = %v", decoded.Translation)
	}
	if !near(decoded.Rotation[1], 0.7071) {
		t.Errorf("Rotation = %v", decoded.Rotation)
	}

	if err := state.Insert(12345, nil); err == nil {
		t.Errorf("Insert into a missing entity should fail")
	}
}

func TestStateLightController(t *testing.T) {
	state := NewState("demo")
	entity := state.Add("Lamp", ENTITY_LIGHT, identityTransform(), map[string]interface{}{
		LightComponent("demo"): lightControllerOf([3]float32{1, 0.5, 0}, 60),
	})

	controller, err := state.Light(entity.ID)
	if err != nil {
		t.Fatalf("Light: %v", err)
	}
	if !near(controller.Intensity, 60) || !near(controller.Color.Srgba.Green, 0.5) {
		t.Errorf("Controller = %+v", controller)
	}

	var generic interface{}
	payload := []byte(`{"color": {"Srgba": {"red": 0, "green": 1, "blue": 0, "alpha": 1}}, "intensity": 10}`)
	if err := json.Unmarshal(payload, &generic); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := state.Insert(entity.ID, map[string]interface{}{
		LightComponent("demo"): generic,
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	controller, err = state.Light(entity.ID)
	if err != nil {
		t.Fatalf("Light after insert: %v", err)
	}
	if !near(controller.Color.Srgba.Green, 1) || !near(controller.Intensity, 10) {
		t.Errorf("Updated controller = %+v", controller)
	}

	bare := state.Add("Shape", ENTITY_EMPTY, identityTransform(), nil)
	if _, err := state.Light(bare.ID); err == nil {
		t.Errorf("Light on an empty should fail")
	}
}

func TestStateLiveLightEdit(t *testing.T) {
	state := NewState("demo")
	built := &engine.Light{
		Name:      "Bulb",
		Kind:      engine.LIGHT_POINT,
		Color:     [3]float32{1, 1, 1},
		Intensity: WattsToCandela(100),
		Range:     10,
		Transform: identityTransform(),
	}
	entity := state.AddLight(built, lightControllerOf([3]float32{1, 1, 1}, 100))

	updated, err := state.UpdateLight(entity.ID, lightControllerOf([3]float32{1, 0, 0}, 60))
	if err != nil {
		t.Fatalf("UpdateLight: %v", err)
	}
	if !near(updated.Intensity, WattsToCandela(60)) {
		t.Errorf("Point edit should convert watts, got %v", updated.Intensity)
	}
	if updated.Color != [3]float32{1, 0, 0} {
		t.Errorf("Color = %v", updated.Color)
	}
	if updated.Range != 10 {
		t.Errorf("Edit lost the range: %v", updated.Range)
	}

	sun := state.AddLight(&engine.Light{
		Name:      "Sun",
		Kind:      engine.LIGHT_DIRECTIONAL,
		Intensity: 3.5,
		Transform: identityTransform(),
	}, lightControllerOf([3]float32{1, 1, 1}, 3.5))
	brighter, err := state.UpdateLight(sun.ID, lightControllerOf([3]float32{1, 1, 1}, 5))
	if err != nil {
		t.Fatalf("UpdateLight sun: %v", err)
	}
	if brighter.Intensity != 5 {
		t.Errorf("Sun edit should stay in lux, got %v", brighter.Intensity)
	}

	moved, err := state.UpdateTransform(entity.ID, engine.Transform{
		Translation: [3]float32{4, 0, 0},
		Rotation:    [4]float32{0, 0, 0, 1},
		Scale:       [3]float32{1, 1, 1},
	})
	if err != nil {
		t.Fatalf("UpdateTransform: %v", err)
	}
	if moved.Built.Transform.Translation != [3]float32{4, 0, 0} {
		t.Errorf("Spawned light did not follow the move: %v", moved.Built.Transform)
	}

	if _, err := state.UpdateLight(9000, LightController{}); err == nil {
		t.Errorf("UpdateLight on a missing entity should fail")
	}
	empty := state.Add("Spawn", ENTITY_EMPTY, identityTransform(), nil)
	if _, err := state.UpdateLight(empty.ID, LightController{}); err == nil {
		t.Errorf("UpdateLight on an empty should fail")
	}
}
