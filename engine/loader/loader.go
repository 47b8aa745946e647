// package loader turns authored yaml documents into runtime animators and
// state machines. Authoring and persistence are host concerns; this package
// only builds runtime objects and owns no frame-time semantics.
package loader

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/oxy-anim/common"
	"github.com/Carmen-Shannon/oxy-anim/engine/animator"
	"github.com/Carmen-Shannon/oxy-anim/engine/clip"
	"github.com/Carmen-Shannon/oxy-anim/engine/state_machine"
)

// ParseAnimatorDef parses a yaml animator document.
//
// Parameters:
//   - data: the yaml document bytes
//
// Returns:
//   - *AnimatorDef: the parsed definition
//   - error: non-nil when the document is not valid yaml
func ParseAnimatorDef(data []byte) (*AnimatorDef, error) {
	var def AnimatorDef
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse animator def: %w", err)
	}
	return &def, nil
}

// LoadAnimatorDef reads and parses a yaml animator document from disk.
//
// Parameters:
//   - path: the file path
//
// Returns:
//   - *AnimatorDef: the parsed definition
//   - error: non-nil on read or parse failure
func LoadAnimatorDef(path string) (*AnimatorDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load animator def: %w", err)
	}
	return ParseAnimatorDef(data)
}

// BuildAnimator constructs an Animator from a parsed definition, resolving
// clip references through the given library. Clip names that do not resolve
// are logged and leave the state with an empty pose; structural problems
// (bad comparators, transitions naming unknown states) fail the build.
//
// Parameters:
//   - def: the parsed animator definition
//   - lib: the clip library used to resolve state clip names
//   - options: forwarded to the animator constructor
//
// Returns:
//   - animator.Animator: the built animator
//   - error: non-nil when the definition is structurally invalid
func BuildAnimator(def *AnimatorDef, lib *clip.Library, options ...animator.AnimatorBuilderOption) (animator.Animator, error) {
	a := animator.NewAnimator(options...)
	if def.Speed != 0 {
		a.SetSpeed(def.Speed)
	}

	for i := range def.Layers {
		ld := &def.Layers[i]

		weight := float32(1)
		if ld.Weight != nil {
			weight = *ld.Weight
		}
		l := a.AddLayer(ld.ID, ld.Name, weight, animator.BlendMode(ld.BlendMode))
		if l == nil {
			return nil, fmt.Errorf("build animator: duplicate layer id %q", ld.ID)
		}
		if len(ld.Mask) > 0 {
			a.SetLayerMask(ld.ID, ld.Mask)
		}
		if err := BuildMachine(l.StateMachine(), &ld.Machine, lib); err != nil {
			return nil, fmt.Errorf("build animator: layer %q: %w", ld.ID, err)
		}
	}
	return a, nil
}

// BuildMachine populates an existing state machine from a parsed definition.
//
// Parameters:
//   - m: the machine to populate
//   - def: the parsed machine definition
//   - lib: the clip library used to resolve state clip names
//
// Returns:
//   - error: non-nil when the definition is structurally invalid
func BuildMachine(m state_machine.StateMachine, def *MachineDef, lib *clip.Library) error {
	for i := range def.States {
		sd := &def.States[i]

		var src clip.Source
		if sd.Clip != "" {
			var ok bool
			if src, ok = lib.Get(sd.Clip); !ok {
				slog.Warn("state references unknown clip", "state", sd.ID, "clip", sd.Clip)
			}
		}

		s := m.AddState(sd.ID, sd.Name, src)
		if s == nil {
			return fmt.Errorf("duplicate state id %q", sd.ID)
		}
		if sd.Speed != 0 {
			s.SetSpeed(sd.Speed)
		}
		if sd.Loop != nil {
			s.SetLoop(*sd.Loop)
		}
		s.SetEditorPosition(sd.EditorPosition[0], sd.EditorPosition[1])
	}

	for i := range def.Transitions {
		td := &def.Transitions[i]
		conditions, err := buildConditions(td.Conditions)
		if err != nil {
			return fmt.Errorf("transition %s -> %s: %w", td.From, td.To, err)
		}
		if _, err := m.AddTransition(td.From, td.To, conditions, td.Duration, td.Priority); err != nil {
			return err
		}
	}

	for name, raw := range def.Parameters {
		v, err := paramValue(raw)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
		m.SetParameter(name, v)
	}

	if def.Entry != "" {
		if !m.SetEntryState(def.Entry) {
			return fmt.Errorf("entry state %q does not exist", def.Entry)
		}
	}
	return nil
}

func buildConditions(defs []ConditionDef) ([]state_machine.TransitionCondition, error) {
	if len(defs) == 0 {
		return nil, nil
	}
	out := make([]state_machine.TransitionCondition, 0, len(defs))
	for _, cd := range defs {
		op := state_machine.Comparator(cd.Comparator)
		switch op {
		case state_machine.Greater, state_machine.Less,
			state_machine.GreaterOrEqual, state_machine.LessOrEqual,
			state_machine.Equal, state_machine.NotEqual:
		default:
			return nil, fmt.Errorf("unknown comparator %q", cd.Comparator)
		}
		v, err := paramValue(cd.Value)
		if err != nil {
			return nil, fmt.Errorf("condition on %q: %w", cd.Parameter, err)
		}
		out = append(out, state_machine.TransitionCondition{
			Parameter:  cd.Parameter,
			Comparator: op,
			Value:      v,
		})
	}
	return out, nil
}

// paramValue converts a yaml scalar into a tagged parameter value.
func paramValue(raw any) (common.Value, error) {
	switch v := raw.(type) {
	case bool:
		return common.Bool(v), nil
	case int:
		return common.Number(float64(v)), nil
	case int64:
		return common.Number(float64(v)), nil
	case float32:
		return common.Number(float64(v)), nil
	case float64:
		return common.Number(v), nil
	case string:
		return common.String(v), nil
	default:
		return common.Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}
