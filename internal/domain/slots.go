package domain

// MergePolicy controls whether a re-extracted slot value replaces an existing one
type MergePolicy string

const (
	// MergeOverride slots are re-extracted every turn and replace the prior value
	MergeOverride MergePolicy = "override"
	// MergeFillOnce slots are only written while empty
	MergeFillOnce MergePolicy = "fill_once"
)

// SlotDefinition describes one field of the structured hearing output
type SlotDefinition struct {
	Name     string
	Label    string
	Question string // template question used by the fallback decision path
	Policy   MergePolicy
	Required bool
}

// slotDefinitions lists required slots in fallback priority order,
// followed by the optional qualitative signal slots.
var slotDefinitions = []SlotDefinition{
	{Name: "customer", Label: "Customer", Question: "Which company did you visit today?", Policy: MergeFillOnce, Required: true},
	{Name: "project", Label: "Project", Question: "What project or initiative did you discuss?", Policy: MergeOverride, Required: true},
	{Name: "next_action", Label: "Next action", Question: "What next action did you agree on with the customer?", Policy: MergeOverride, Required: true},
	{Name: "budget", Label: "Budget", Question: "Did a budget figure come up? Roughly how much?", Policy: MergeFillOnce, Required: true},
	{Name: "schedule", Label: "Schedule", Question: "What timeline or decision date was mentioned?", Policy: MergeFillOnce, Required: true},
	{Name: "participants", Label: "Participants", Question: "Who attended the meeting from the customer side?", Policy: MergeFillOnce, Required: true},
	{Name: "location", Label: "Location", Question: "Where did the meeting take place?", Policy: MergeOverride, Required: true},
	{Name: "issues", Label: "Issues", Question: "Were any concerns or blockers raised during the visit?", Policy: MergeFillOnce, Required: true},

	{Name: "decision_maker_reaction", Label: "Decision-maker reaction", Policy: MergeFillOnce},
	{Name: "competitor", Label: "Competitor mentions", Policy: MergeFillOnce},
	{Name: "interest_level", Label: "Interest level", Policy: MergeFillOnce},
	{Name: "close_probability", Label: "Close probability", Policy: MergeFillOnce},
	{Name: "atmosphere", Label: "Atmosphere", Policy: MergeFillOnce},
	{Name: "key_person", Label: "Key person", Policy: MergeFillOnce},
	{Name: "positive_signals", Label: "Positive signals", Policy: MergeFillOnce},
	{Name: "negative_signals", Label: "Negative signals", Policy: MergeFillOnce},
}

var slotsByName = func() map[string]SlotDefinition {
	m := make(map[string]SlotDefinition, len(slotDefinitions))
	for _, def := range slotDefinitions {
		m[def.Name] = def
	}
	return m
}()

// AllSlots returns every slot definition in schema order
func AllSlots() []SlotDefinition {
	return slotDefinitions
}

// RequiredSlots returns the required slots in fallback priority order
func RequiredSlots() []SlotDefinition {
	var required []SlotDefinition
	for _, def := range slotDefinitions {
		if def.Required {
			required = append(required, def)
		}
	}
	return required
}

// SlotByName looks up a slot definition
func SlotByName(name string) (SlotDefinition, bool) {
	def, ok := slotsByName[name]
	return def, ok
}

// MergeSlots applies an extraction delta to the current slot map according to
// each slot's merge policy. Unknown slot names and empty values are dropped.
// The input maps are not mutated.
func MergeSlots(current, delta map[string]string) map[string]string {
	merged := make(map[string]string, len(current)+len(delta))
	for k, v := range current {
		merged[k] = v
	}

	for name, value := range delta {
		if value == "" {
			continue
		}
		def, ok := slotsByName[name]
		if !ok {
			continue
		}
		if def.Policy == MergeFillOnce && merged[name] != "" {
			continue
		}
		merged[name] = value
	}
	return merged
}

// MissingRequired returns the required slots that have no value yet,
// in priority order.
func MissingRequired(slots map[string]string) []SlotDefinition {
	var missing []SlotDefinition
	for _, def := range RequiredSlots() {
		if slots[def.Name] == "" {
			missing = append(missing, def)
		}
	}
	return missing
}
