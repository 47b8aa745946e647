package loader

// ConditionDef is the authored form of one transition guard.
type ConditionDef struct {
	// Parameter is the parameter name the guard reads.
	Parameter string `yaml:"parameter"`

	// Comparator is one of > < >= <= == !=.
	Comparator string `yaml:"comparator"`

	// Value is the reference value: a number, string, or boolean.
	Value any `yaml:"value"`
}

// TransitionDef is the authored form of one guarded edge.
type TransitionDef struct {
	From       string         `yaml:"from"`
	To         string         `yaml:"to"`
	Conditions []ConditionDef `yaml:"conditions"`
	Duration   float32        `yaml:"duration"`
	Priority   int            `yaml:"priority"`
}

// StateDef is the authored form of one animation state.
type StateDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	// Clip names a source in the clip library. Empty means an empty-pose
	// state; an unresolvable name is logged and treated the same way.
	Clip string `yaml:"clip"`

	// Speed is the playback multiplier; 0 means the default of 1.
	Speed float32 `yaml:"speed"`

	// Loop defaults to true when omitted.
	Loop *bool `yaml:"loop"`

	// EditorPosition is the authoring canvas position, round-tripped only.
	EditorPosition [2]float32 `yaml:"editor_position"`
}

// MachineDef is the authored form of one state machine.
type MachineDef struct {
	Entry       string          `yaml:"entry"`
	States      []StateDef      `yaml:"states"`
	Transitions []TransitionDef `yaml:"transitions"`
	Parameters  map[string]any  `yaml:"parameters"`
}

// LayerDef is the authored form of one animator layer.
type LayerDef struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`

	// Weight defaults to 1 when omitted.
	Weight *float32 `yaml:"weight"`

	// BlendMode is "override" (default) or "additive".
	BlendMode string `yaml:"blend_mode"`

	// Mask is the bone allow-list; empty means all bones.
	Mask []string `yaml:"mask"`

	Machine MachineDef `yaml:"state_machine"`
}

// AnimatorDef is the authored form of a full layer stack.
type AnimatorDef struct {
	// Speed is the global playback multiplier; 0 means the default of 1.
	Speed float32 `yaml:"speed"`

	Layers []LayerDef `yaml:"layers"`
}
