package metric

// Metric describes an evaluation metric by name and the mode that decides
// which dataset columns it reads.
type Metric struct {
	Name string
	Mode Mode
}

func (m Metric) String() string {
	return m.Name + "(" + string(m.Mode) + ")"
}

// builtins lists the metrics shipped with the evaluation suite in canonical
// order.
var builtins = []Metric{
	{Name: "faithfulness", Mode: ModeQAC},
	{Name: "answer_relevancy", Mode: ModeQA},
	{Name: "context_relevancy", Mode: ModeQC},
	{Name: "context_recall", Mode: ModeGC},
	{Name: "harmfulness", Mode: ModeQAC},
}

// Builtins returns the built-in metric catalog.
func Builtins() []Metric {
	out := make([]Metric, len(builtins))
	copy(out, builtins)
	return out
}

// Lookup returns the built-in metric with the given name, or ok=false.
func Lookup(name string) (Metric, bool) {
	for _, m := range builtins {
		if m.Name == name {
			return m, true
		}
	}
	return Metric{}, false
}
