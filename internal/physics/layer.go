package physics

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Layer is a single collision layer index.
type Layer uint8

const (
	LayerDefault Layer = iota
	LayerTerrain
	LayerPlayer
	LayerInteractable
)

var layerNames = map[string]Layer{
	"default":      LayerDefault,
	"terrain":      LayerTerrain,
	"player":       LayerPlayer,
	"interactable": LayerInteractable,
}

func (l Layer) Mask() LayerMask {
	return LayerMask(1) << l
}

func (l Layer) String() string {
	for name, layer := range layerNames {
		if layer == l {
			return name
		}
	}
	return fmt.Sprintf("layer%d", uint8(l))
}

func ParseLayer(name string) (Layer, error) {
	l, ok := layerNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("unknown layer %q", name)
	}
	return l, nil
}

func (l *Layer) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseLayer(name)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// LayerMask selects which layers a query collides with.
type LayerMask uint32

const AllLayers = ^LayerMask(0)

func (m LayerMask) Includes(l Layer) bool {
	return m&l.Mask() != 0
}

// ParseLayerMask builds a mask from layer names. "all" selects every layer and a
// "~name" entry removes that layer from the mask built so far (or from all layers
// when it comes first).
func ParseLayerMask(names []string) (LayerMask, error) {
	var mask LayerMask
	for i, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "all" {
			mask = AllLayers
			continue
		}
		if rest, ok := strings.CutPrefix(name, "~"); ok {
			l, err := ParseLayer(rest)
			if err != nil {
				return 0, err
			}
			if i == 0 {
				mask = AllLayers
			}
			mask &^= l.Mask()
			continue
		}
		l, err := ParseLayer(name)
		if err != nil {
			return 0, err
		}
		mask |= l.Mask()
	}
	return mask, nil
}

// UnmarshalYAML accepts either a raw integer mask or a list of layer names.
func (m *LayerMask) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var raw uint32
		if err := value.Decode(&raw); err == nil {
			*m = LayerMask(raw)
			return nil
		}
		parsed, err := ParseLayerMask([]string{value.Value})
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		parsed, err := ParseLayerMask(names)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	default:
		return fmt.Errorf("layer mask: unsupported yaml node at line %d", value.Line)
	}
}

func (m LayerMask) String() string {
	if m == AllLayers {
		return "all"
	}
	var names []string
	for name, l := range layerNames {
		if m.Includes(l) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return "[" + strings.Join(names, ",") + "]"
}
