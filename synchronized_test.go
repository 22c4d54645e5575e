package mixer

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSceneModel() (*fakeModel, Type) {
	model := newFakeModel()
	str := model.addType("string", nil)
	camera := model.addType("Camera", nil)
	scene := model.addType("Scene", nil)
	brush := model.addType("Brush", nil)
	model.addAttr(scene, "name", str, kindScalar)
	model.addAttr(scene, "camera", camera, kindPointer)

	root := model.addType("RootData", nil)
	model.root = root
	model.addAttr(root, "cameras", camera, kindCollection)
	model.addAttr(root, "scenes", scene, kindCollection)
	model.addAttr(root, "brushes", brush, kindCollection)
	return model, scene
}

func TestProperties_QueryValidation(t *testing.T) {
	model, scene := buildSceneModel()
	props := NewSynchronizedProperties(model, NewFilterStack())
	attr := model.attrs[model.root.Key()][1] // scenes collection

	tests := []struct {
		name     string
		query    PropertyQuery
		wantCode string
	}{
		{"neither", PropertyQuery{}, ErrCodeInvalidQuery},
		{"both", PropertyQuery{Type: scene, Attribute: attr}, ErrCodeAmbiguousQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := props.Properties(tt.query)
			require.Error(t, err)
			var mixerErr *MixerError
			require.ErrorAs(t, err, &mixerErr)
			assert.Equal(t, tt.wantCode, mixerErr.Code)
			assert.Equal(t, ErrorTypeInvalidArgument, mixerErr.Type)
		})
	}

	_, err := props.PropertiesOf(nil)
	require.Error(t, err)
}

func TestProperties_ByType(t *testing.T) {
	model, scene := buildSceneModel()
	stack := NewFilterStack(NewFilterSet(Entry(scene, NewNameFilterOut("camera"))))
	props := NewSynchronizedProperties(model, stack)

	resolved, err := props.PropertiesOf(scene)
	require.NoError(t, err)

	assert.Equal(t, []string{"name"}, resolved.Names())
	attr, ok := resolved.Get("name")
	require.True(t, ok)
	assert.Equal(t, "name", attr.Name())
	assert.False(t, resolved.Contains("camera"))
}

func TestProperties_ByAttributeResolvesElementType(t *testing.T) {
	model, _ := buildSceneModel()
	props := NewSynchronizedProperties(model, NewFilterStack())
	scenesAttr := model.attrs[model.root.Key()][1]

	resolved, err := props.Properties(PropertyQuery{Attribute: scenesAttr})
	require.NoError(t, err)

	// the scenes collection resolves to the Scene type's attributes
	assert.Equal(t, []string{"name", "camera"}, resolved.Names())
}

func TestProperties_Memoization(t *testing.T) {
	model, scene := buildSceneModel()
	calls := 0
	stack := NewFilterStack(NewFilterSet(Entry(scene, countingFilter{calls: &calls})))
	props := NewSynchronizedProperties(model, stack)

	first, err := props.PropertiesOf(scene)
	require.NoError(t, err)
	after := calls

	second, err := props.PropertiesOf(scene)
	require.NoError(t, err)

	assert.Equal(t, after, calls)
	assert.Same(t, first, second)
}

func TestProperties_DistinctHandlesShareCacheKey(t *testing.T) {
	model, scene := buildSceneModel()
	calls := 0
	stack := NewFilterStack(NewFilterSet(Entry(scene, countingFilter{calls: &calls})))
	props := NewSynchronizedProperties(model, stack)

	_, err := props.PropertiesOf(scene)
	require.NoError(t, err)

	// another handle for the same conceptual type hits the same entry
	_, err = props.PropertiesOf(&fakeType{name: "Scene"})
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestProperties_ConcurrentAccess(t *testing.T) {
	model, scene := buildSceneModel()
	props := NewSynchronizedProperties(model, NewFilterStack())

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resolved, err := props.PropertiesOf(scene)
			assert.NoError(t, err)
			assert.Equal(t, 2, resolved.Len())
		}()
	}
	wg.Wait()
}

func TestUnhandledCollectionNames(t *testing.T) {
	model, _ := buildSceneModel()
	stack := NewFilterStack(NewFilterSet(
		Entry(model.Root(), NewNameFilterIn("cameras", "scenes")),
	))
	props := NewSynchronizedProperties(model, stack)

	unhandled := props.UnhandledCollectionNames()

	assert.Equal(t, []string{"brushes"}, unhandled)
	// memoized
	assert.Equal(t, []string{"brushes"}, props.UnhandledCollectionNames())
}

func TestUnhandledCollectionNames_AllHandled(t *testing.T) {
	model, _ := buildSceneModel()
	props := NewSynchronizedProperties(model, NewFilterStack())

	assert.Empty(t, props.UnhandledCollectionNames())
}
